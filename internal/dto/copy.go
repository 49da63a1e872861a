package dto

// ── 批量复制 DTO ──

// CopyCandidatesRequest 源坐标查询参数
type CopyCandidatesRequest struct {
	Branch   string `form:"branch"   binding:"required"`
	Year     int    `form:"year"     binding:"required,min=1"`
	Semester int    `form:"semester" binding:"omitempty,min=1"`
}

// CopyRequest 复制任务
// SelectedIDs 为空时复制源坐标下全部科目；TargetSemester 为 0 时沿用各科目原学期
type CopyRequest struct {
	SourceBranch   string   `json:"source_branch"   binding:"required"`
	SourceYear     int      `json:"source_year"     binding:"required,min=1"`
	SourceSemester int      `json:"source_semester" binding:"omitempty,min=1"`
	SelectedIDs    []string `json:"selected_ids"`
	TargetBranch   string   `json:"target_branch"   binding:"required"`
	TargetYear     int      `json:"target_year"     binding:"required,min=1"`
	TargetSemester int      `json:"target_semester" binding:"omitempty,min=1"`
}

// CopyTarget 目标坐标
type CopyTarget struct {
	Branch   string
	Year     int
	Semester int
}

// CopyItemResult 单个科目的复制结果
type CopyItemResult struct {
	SourceID string `json:"source_id"`
	NewID    string `json:"new_id,omitempty"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Semester int    `json:"semester"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// CopyResult 复制任务结果；Aborted 表示因失败提前终止
type CopyResult struct {
	Requested int              `json:"requested"`
	Copied    int              `json:"copied"`
	Items     []CopyItemResult `json:"items"`
	Aborted   bool             `json:"aborted"`
}
