package dto

import "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"

// ── 偏好 DTO ──

// PreferenceLoadRequest 加载偏好时客户端当前的选择
type PreferenceLoadRequest struct {
	Branch   string `form:"branch"`
	Year     int    `form:"year"     binding:"omitempty,min=0"`
	Semester int    `form:"semester" binding:"omitempty,min=0"`
}

// PreferenceChangeRequest 选择变更，nil 字段保持不变
type PreferenceChangeRequest struct {
	Branch   *string `json:"branch"`
	Year     *int    `json:"year"     binding:"omitempty,min=0"`
	Semester *int    `json:"semester" binding:"omitempty,min=0"`
}

// PreferenceResponse 偏好会话状态
type PreferenceResponse struct {
	State     string          `json:"state"`
	Selection model.Selection `json:"selection"`
	Pending   bool            `json:"pending"`
}
