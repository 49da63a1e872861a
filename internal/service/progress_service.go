package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/progress"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
)

// ProgressService 学习进度业务接口
type ProgressService interface {
	// GetRecord 获取用户进度文档，不存在时返回空文档
	GetRecord(ctx context.Context, userID string) (*dto.ProgressRecordResponse, error)
	// UpdateModuleStatus 切换单个模块的完成状态（读-改-写，最后写入为准）
	UpdateModuleStatus(ctx context.Context, userID, subjectID string, index int, completed bool) (*dto.ModuleStatusResponse, error)
	// Dashboard 某坐标下全部科目及其完成百分比
	Dashboard(ctx context.Context, userID string, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── GetRecord ──────────────────────

func (s *progressService) GetRecord(ctx context.Context, userID string) (*dto.ProgressRecordResponse, error) {
	doc, err := s.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProgressRecordResponse{UserID: userID, Progress: doc.Record()}
	if doc != nil {
		resp.UpdatedAt = doc.UpdatedAt.Format(time.RFC3339)
	}
	return resp, nil
}

// ────────────────────── UpdateModuleStatus ──────────────────────

func (s *progressService) UpdateModuleStatus(ctx context.Context, userID, subjectID string, index int, completed bool) (*dto.ModuleStatusResponse, error) {
	if index < 0 {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "index", Message: "不能小于 0"})
	}

	subject, err := s.repo.Subject.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, pkgerrors.Store("get_subject", err)
	}
	if index >= len(subject.Modules) {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "index", Message: "超出模块数量"})
	}

	doc, err := s.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 进度键使用存储中的规范 id，与聚合读取时保持一致
	subjectID = subject.ID
	next := progress.ApplyToggle(doc.Record(), subjectID, index, completed)
	key := model.SubjectKey(subjectID)
	now := s.now()

	if err := s.repo.Progress.MergeSubject(ctx, userID, key, next[key], now); err != nil {
		s.logger.Error("写入进度失败",
			zap.String("user_id", userID),
			zap.String("subject_id", subjectID),
			zap.Int("index", index),
			zap.Error(err),
		)
		return nil, pkgerrors.Store("merge_progress", err)
	}

	return &dto.ModuleStatusResponse{
		SubjectID:   subjectID,
		ModuleIndex: index,
		Completed:   completed,
		Progress:    progress.CalculateProgress(subject, next),
		UpdatedAt:   now.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *progressService) Dashboard(ctx context.Context, userID string, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Year:     req.Year,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, pkgerrors.Store("list_subjects", err)
	}

	doc, err := s.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec := doc.Record()

	resp := &dto.DashboardResponse{
		Branch:   req.Branch,
		Year:     req.Year,
		Semester: req.Semester,
		Subjects: make([]dto.DashboardSubject, 0, len(subjects)),
	}
	completedSum, totalSum := 0, 0
	for i := range subjects {
		subject := &subjects[i]
		total := len(subject.Modules)
		completed := progress.CompletedCount(rec, subject.ID, total)

		status := make([]bool, total)
		for idx := range status {
			status[idx] = progress.IsModuleCompleted(rec, subject.ID, idx)
		}

		resp.Subjects = append(resp.Subjects, dto.DashboardSubject{
			SubjectResponse: *ToSubjectResponse(subject),
			Progress:        progress.CalculateProgress(subject, rec),
			Completed:       completed,
			Total:           total,
			ModuleStatus:    status,
		})
		completedSum += completed
		totalSum += total
	}
	resp.Overall = progress.Percent(completedSum, totalSum)

	return resp, nil
}

// loadRecord 读取进度文档；不存在返回 nil 文档（Record() 得到空映射）
func (s *progressService) loadRecord(ctx context.Context, userID string) (*model.UserProgress, error) {
	doc, err := s.repo.Progress.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("读取进度失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Store("get_progress", err)
	}
	return doc, nil
}
