package dto

import "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"

// ── 科目 DTO ──

// ModuleInput 模块输入
// Topics 与 TopicsText 二选一；TopicsText 为逗号分隔的原始输入
type ModuleInput struct {
	Name       string   `json:"name"        validate:"notblank,max=200"`
	Topics     []string `json:"topics"`
	TopicsText string   `json:"topics_text"`
}

// SubjectRequest 新增/编辑科目请求，校验在业务层完成
type SubjectRequest struct {
	Name     string        `json:"name"     validate:"notblank,max=200"`
	Code     string        `json:"code"     validate:"notblank,max=50"`
	Branch   string        `json:"branch"   validate:"notblank,max=100"`
	Year     int           `json:"year"     validate:"required,min=1"`
	Semester int           `json:"semester" validate:"required,min=1"`
	Modules  []ModuleInput `json:"modules"  validate:"required,min=1,dive"`
}

// SubjectListRequest 科目列表过滤参数
type SubjectListRequest struct {
	Branch   string `form:"branch"`
	Year     int    `form:"year"     binding:"omitempty,min=1"`
	Semester int    `form:"semester" binding:"omitempty,min=1"`
}

// SubjectResponse 科目详情
type SubjectResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Code      string         `json:"code"`
	Branch    string         `json:"branch"`
	Year      int            `json:"year"`
	Semester  int            `json:"semester"`
	Modules   []model.Module `json:"modules"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}
