package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
)

// CopyService 科目目录批量复制接口
//
// 复制按顺序逐条创建新科目，遇到第一个失败即终止，已创建的不回滚；
// 结果中逐项记录成功与失败，部分成功是正常返回形态。
type CopyService interface {
	// ListCandidates 源坐标下的候选科目，semester 为 0 时不按学期过滤
	ListCandidates(ctx context.Context, req *dto.CopyCandidatesRequest) ([]model.Subject, error)
	// Copy 将候选科目（或其中选中的子集）复制到目标坐标
	Copy(ctx context.Context, candidates []model.Subject, selectedIDs []string, target dto.CopyTarget) (*dto.CopyResult, error)
	// CopyFromSource 按源坐标取候选后执行 Copy
	CopyFromSource(ctx context.Context, req *dto.CopyRequest) (*dto.CopyResult, error)
}

type copyService struct {
	repo   *repository.Repository
	logger *zap.Logger
	newID  func() string
}

// NewCopyService 创建 CopyService 实例
func NewCopyService(repo *repository.Repository, logger *zap.Logger) CopyService {
	return &copyService{repo: repo, logger: logger, newID: uuid.NewString}
}

// ────────────────────── ListCandidates ──────────────────────

func (s *copyService) ListCandidates(ctx context.Context, req *dto.CopyCandidatesRequest) ([]model.Subject, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Year:     req.Year,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("查询复制候选失败",
			zap.String("branch", req.Branch),
			zap.Int("year", req.Year),
			zap.Error(err),
		)
		return nil, pkgerrors.Store("list_subjects", err)
	}
	return subjects, nil
}

// ────────────────────── Copy ──────────────────────

func (s *copyService) Copy(ctx context.Context, candidates []model.Subject, selectedIDs []string, target dto.CopyTarget) (*dto.CopyResult, error) {
	if err := validateCopyTarget(target); err != nil {
		return nil, err
	}

	items := effectiveSet(candidates, selectedIDs)
	result := &dto.CopyResult{
		Requested: len(items),
		Items:     make([]dto.CopyItemResult, 0, len(items)),
	}

	for _, src := range items {
		semester := target.Semester
		if semester == 0 {
			semester = src.Semester
		}

		dup := &model.Subject{
			ID:       s.newID(),
			Name:     src.Name,
			Code:     src.Code,
			Branch:   target.Branch,
			Year:     target.Year,
			Semester: semester,
			Modules:  src.Modules.Clone(),
		}
		item := dto.CopyItemResult{
			SourceID: src.ID,
			Name:     src.Name,
			Code:     src.Code,
			Semester: semester,
		}

		if err := s.repo.Subject.Create(ctx, dup); err != nil {
			s.logger.Error("复制科目失败，终止批量复制",
				zap.String("source_id", src.ID),
				zap.Int("copied", result.Copied),
				zap.Int("requested", result.Requested),
				zap.Error(err),
			)
			item.Error = err.Error()
			result.Items = append(result.Items, item)
			result.Aborted = true
			return result, pkgerrors.Store("create_subject", err)
		}

		item.NewID = dup.ID
		item.Success = true
		result.Items = append(result.Items, item)
		result.Copied++
	}

	s.logger.Info("批量复制完成",
		zap.String("target_branch", target.Branch),
		zap.Int("target_year", target.Year),
		zap.Int("copied", result.Copied),
	)
	return result, nil
}

func (s *copyService) CopyFromSource(ctx context.Context, req *dto.CopyRequest) (*dto.CopyResult, error) {
	target := dto.CopyTarget{
		Branch:   req.TargetBranch,
		Year:     req.TargetYear,
		Semester: req.TargetSemester,
	}
	if err := validateCopyTarget(target); err != nil {
		return nil, err
	}

	candidates, err := s.ListCandidates(ctx, &dto.CopyCandidatesRequest{
		Branch:   req.SourceBranch,
		Year:     req.SourceYear,
		Semester: req.SourceSemester,
	})
	if err != nil {
		return nil, err
	}
	return s.Copy(ctx, candidates, req.SelectedIDs, target)
}

// ── 辅助函数 ──

// effectiveSet 选中列表非空时取其与候选的交集（保持候选顺序），否则取全部候选
func effectiveSet(candidates []model.Subject, selectedIDs []string) []model.Subject {
	if len(selectedIDs) == 0 {
		return candidates
	}
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[CanonicalID(id)] = true
	}
	out := make([]model.Subject, 0, len(selectedIDs))
	for _, c := range candidates {
		if selected[CanonicalID(c.ID)] {
			out = append(out, c)
		}
	}
	return out
}

// CanonicalID 将 UUID 的各种写法（大写、花括号、无连字符）规范为小写带连字符形式；
// 非 UUID 原样返回（去除首尾空白）
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// validateCopyTarget 目标分支、学年必填；显式指定的学期必须属于目标学年
func validateCopyTarget(target dto.CopyTarget) error {
	var fields []pkgerrors.FieldError
	if strings.TrimSpace(target.Branch) == "" {
		fields = append(fields, pkgerrors.FieldError{Field: "target_branch", Message: "不能为空"})
	}
	if target.Year < 1 {
		fields = append(fields, pkgerrors.FieldError{Field: "target_year", Message: "不能小于 1"})
	}
	if target.Semester != 0 && target.Year >= 1 && !model.SemesterBelongsToYear(target.Year, target.Semester) {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "target_semester",
			Message: "学期不属于学年 " + strconv.Itoa(target.Year),
		})
	}
	if len(fields) > 0 {
		return pkgerrors.NewValidationError(fields...)
	}
	return nil
}
