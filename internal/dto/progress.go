package dto

import "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"

// ── 进度 DTO ──

// UpdateModuleStatusRequest 切换模块完成状态
type UpdateModuleStatusRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ModuleStatusResponse 切换后的科目状态
type ModuleStatusResponse struct {
	SubjectID   string `json:"subject_id"`
	ModuleIndex int    `json:"module_index"`
	Completed   bool   `json:"completed"`
	Progress    int    `json:"progress"`
	UpdatedAt   string `json:"updated_at"`
}

// ProgressRecordResponse 用户进度文档
type ProgressRecordResponse struct {
	UserID    string               `json:"user_id"`
	Progress  model.ProgressRecord `json:"progress"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// DashboardRequest 我的进度查询参数
type DashboardRequest struct {
	Branch   string `form:"branch"   binding:"required"`
	Year     int    `form:"year"     binding:"required,min=1"`
	Semester int    `form:"semester" binding:"omitempty,min=1"`
}

// DashboardSubject 坐标下的单个科目及其进度
type DashboardSubject struct {
	SubjectResponse
	Progress     int    `json:"progress"`
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	ModuleStatus []bool `json:"module_status"`
}

// DashboardResponse 我的进度视图
type DashboardResponse struct {
	Branch   string             `json:"branch"`
	Year     int                `json:"year"`
	Semester int                `json:"semester,omitempty"`
	Subjects []DashboardSubject `json:"subjects"`
	Overall  int                `json:"overall"`
}
