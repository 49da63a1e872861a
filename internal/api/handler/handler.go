package handler

import "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog    *CatalogHandler
	Subject    *SubjectHandler
	Progress   *ProgressHandler
	Preference *PreferenceHandler
	Analytics  *AnalyticsHandler
	Copy       *CopyHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Catalog:    NewCatalogHandler(svc.Catalog),
		Subject:    NewSubjectHandler(svc.Catalog),
		Progress:   NewProgressHandler(svc.Progress),
		Preference: NewPreferenceHandler(svc.Preference),
		Analytics:  NewAnalyticsHandler(svc.Analytics),
		Copy:       NewCopyHandler(svc.Copy),
	}
}
