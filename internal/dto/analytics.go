package dto

import "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/progress"

// ── 管理端分析 DTO ──

// AnalyticsReport 单个用户的完整分析报告
type AnalyticsReport struct {
	UserID string                 `json:"user_id"`
	KPIs   []progress.SubjectKPI  `json:"kpis"`
	KRAs   []progress.GroupRollup `json:"kras"`
	Yearly []progress.GroupRollup `json:"yearly"`
}

// TrackedUserResponse 拥有进度文档的用户摘要
type TrackedUserResponse struct {
	UserID           string `json:"user_id"`
	SubjectsTracked  int    `json:"subjects_tracked"`
	CompletedModules int    `json:"completed_modules"`
	TotalModules     int    `json:"total_modules"`
	OverallProgress  int    `json:"overall_progress"`
	UpdatedAt        string `json:"updated_at"`
}
