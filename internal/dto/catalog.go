package dto

// ── 目录层级 DTO ──

// AddBranchRequest 新增分支请求
type AddBranchRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AddYearRequest 新增学年请求
type AddYearRequest struct {
	Value int `json:"value" binding:"required,min=1"`
}

// AddSpecializationRequest 追加方向请求
type AddSpecializationRequest struct {
	Value string `json:"value" binding:"required,max=100"`
}

// BranchResponse 分支信息
type BranchResponse struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// YearResponse 学年信息（附带固定映射的学期）
type YearResponse struct {
	Value     int   `json:"value"`
	Semesters []int `json:"semesters"`
}

// SpecializationResponse 分支方向列表
type SpecializationResponse struct {
	Branch  string   `json:"branch"`
	Options []string `json:"options"`
}

// SemestersResponse 学年可选学期
type SemestersResponse struct {
	Year      int   `json:"year"`
	Semesters []int `json:"semesters"`
}

// ── 级联删除结果 ──

// BatchItemResult 批量操作中单项的结果
type BatchItemResult struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchResult 非原子批量操作的逐项结果
// RecordDeleted 表示分支/学年本身的记录是否删除成功
type BatchResult struct {
	Target        string            `json:"target"`
	Items         []BatchItemResult `json:"items"`
	Deleted       int               `json:"deleted"`
	Failed        int               `json:"failed"`
	RecordDeleted bool              `json:"record_deleted"`
}

// HasFailure 是否存在失败项
func (r *BatchResult) HasFailure() bool {
	return r.Failed > 0 || !r.RecordDeleted
}
