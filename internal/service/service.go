package service

import (
	"go.uber.org/zap"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/config"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Catalog    CatalogService
	Progress   ProgressService
	Analytics  AnalyticsService
	Copy       CopyService
	Preference PreferenceService
}

// NewService 创建 Service 聚合
// cache 为 nil 时偏好快照不经过 Redis
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache SnapshotCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		Catalog:    NewCatalogService(repo, logger),
		Progress:   NewProgressService(repo, logger),
		Analytics:  NewAnalyticsService(repo, logger),
		Copy:       NewCopyService(repo, logger),
		Preference: NewPreferenceService(repo, cache, cfg.Preference, logger),
	}
}
