package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
)

// ── 目录模块业务错误 ──

var (
	ErrBranchExists    = errors.New("分支已存在")
	ErrBranchNotFound  = errors.New("分支不存在")
	ErrYearExists      = errors.New("学年已存在")
	ErrYearNotFound    = errors.New("学年不存在")
	ErrSubjectNotFound = errors.New("科目不存在")
)

// CatalogService 目录层级业务接口：分支 → 学年 → 学期 → 科目 → 模块
//
// 分支/学年的删除会逐条删除其下科目，不保证原子性：
// 单条失败不会中断，分支/学年记录本身的删除始终会被尝试，可能留下孤儿科目。
type CatalogService interface {
	AvailableSemesters(year int) []int

	ListBranches(ctx context.Context) ([]dto.BranchResponse, error)
	AddBranch(ctx context.Context, name string) (*dto.BranchResponse, error)
	DeleteBranch(ctx context.Context, name string) (*dto.BatchResult, error)

	ListYears(ctx context.Context) ([]dto.YearResponse, error)
	AddYear(ctx context.Context, value int) (*dto.YearResponse, error)
	DeleteYear(ctx context.Context, value int) (*dto.BatchResult, error)

	ListSpecializations(ctx context.Context, branch string) (*dto.SpecializationResponse, error)
	AddSpecialization(ctx context.Context, branch, value string) (*dto.SpecializationResponse, error)

	GetSubject(ctx context.Context, id string) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error)
	// UpsertSubject id 为空时新建，否则覆盖已有科目
	UpsertSubject(ctx context.Context, id string, req *dto.SubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id string) error
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) AvailableSemesters(year int) []int {
	return model.AvailableSemesters(year)
}

// ────────────────────── Branch ──────────────────────

func (s *catalogService) ListBranches(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := s.repo.Branch.List(ctx)
	if err != nil {
		s.logger.Error("列出分支失败", zap.Error(err))
		return nil, pkgerrors.Store("list_branches", err)
	}

	result := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		result = append(result, dto.BranchResponse{
			Name:      b.Name,
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *catalogService) AddBranch(ctx context.Context, name string) (*dto.BranchResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "name", Message: "不能为空"})
	}

	branch := &model.Branch{Name: name}
	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBranchExists
		}
		s.logger.Error("创建分支失败", zap.String("name", name), zap.Error(err))
		return nil, pkgerrors.Store("create_branch", err)
	}

	return &dto.BranchResponse{Name: branch.Name, CreatedAt: branch.CreatedAt.Format(time.RFC3339)}, nil
}

func (s *catalogService) DeleteBranch(ctx context.Context, name string) (*dto.BatchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "name", Message: "不能为空"})
	}

	return s.cascadeDelete(ctx, name, repository.SubjectFilter{Branch: name}, func(ctx context.Context) error {
		return s.repo.Branch.Delete(ctx, name)
	}, ErrBranchNotFound)
}

// ────────────────────── Year ──────────────────────

func (s *catalogService) ListYears(ctx context.Context) ([]dto.YearResponse, error) {
	years, err := s.repo.Year.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, pkgerrors.Store("list_years", err)
	}

	result := make([]dto.YearResponse, 0, len(years))
	for _, y := range years {
		result = append(result, dto.YearResponse{Value: y.Value, Semesters: model.AvailableSemesters(y.Value)})
	}
	return result, nil
}

func (s *catalogService) AddYear(ctx context.Context, value int) (*dto.YearResponse, error) {
	if value < 1 {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "value", Message: "不能小于 1"})
	}

	if err := s.repo.Year.Create(ctx, &model.Year{Value: value}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrYearExists
		}
		s.logger.Error("创建学年失败", zap.Int("value", value), zap.Error(err))
		return nil, pkgerrors.Store("create_year", err)
	}

	return &dto.YearResponse{Value: value, Semesters: model.AvailableSemesters(value)}, nil
}

func (s *catalogService) DeleteYear(ctx context.Context, value int) (*dto.BatchResult, error) {
	if value < 1 {
		return nil, pkgerrors.NewValidationError(pkgerrors.FieldError{Field: "value", Message: "不能小于 1"})
	}

	return s.cascadeDelete(ctx, strconv.Itoa(value), repository.SubjectFilter{Year: value}, func(ctx context.Context) error {
		return s.repo.Year.Delete(ctx, value)
	}, ErrYearNotFound)
}

// cascadeDelete 逐条删除匹配 filter 的科目，然后尝试删除记录本身
// 返回逐项结果；error 仅为第一个失败项的错误
func (s *catalogService) cascadeDelete(
	ctx context.Context,
	target string,
	filter repository.SubjectFilter,
	deleteRecord func(ctx context.Context) error,
	notFound error,
) (*dto.BatchResult, error) {
	subjects, err := s.repo.Subject.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询待级联删除科目失败", zap.String("target", target), zap.Error(err))
		return nil, pkgerrors.Store("list_subjects", err)
	}

	result := &dto.BatchResult{
		Target: target,
		Items:  make([]dto.BatchItemResult, 0, len(subjects)),
	}
	var firstErr error

	for _, sub := range subjects {
		item := dto.BatchItemResult{ID: sub.ID, Name: sub.Name}
		if err := s.repo.Subject.Delete(ctx, sub.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("级联删除科目失败",
				zap.String("target", target),
				zap.String("subject_id", sub.ID),
				zap.Error(err),
			)
			item.Error = err.Error()
			result.Failed++
			if firstErr == nil {
				firstErr = pkgerrors.Store("delete_subject", err)
			}
		} else {
			item.Success = true
			result.Deleted++
		}
		result.Items = append(result.Items, item)
	}

	if err := deleteRecord(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if firstErr == nil {
				firstErr = notFound
			}
		} else {
			s.logger.Error("删除目录记录失败", zap.String("target", target), zap.Error(err))
			if firstErr == nil {
				firstErr = pkgerrors.Store("delete_record", err)
			}
		}
	} else {
		result.RecordDeleted = true
	}

	if result.Failed > 0 {
		s.logger.Warn("级联删除部分失败",
			zap.String("target", target),
			zap.Int("deleted", result.Deleted),
			zap.Int("failed", result.Failed),
		)
	}
	return result, firstErr
}

// ────────────────────── Specialization ──────────────────────

func (s *catalogService) ListSpecializations(ctx context.Context, branch string) (*dto.SpecializationResponse, error) {
	spec, err := s.repo.Specialization.Get(ctx, branch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.SpecializationResponse{Branch: branch, Options: []string{}}, nil
		}
		s.logger.Error("查询方向失败", zap.String("branch", branch), zap.Error(err))
		return nil, pkgerrors.Store("get_specializations", err)
	}

	options := []string(spec.Options)
	if options == nil {
		options = []string{}
	}
	return &dto.SpecializationResponse{Branch: spec.Branch, Options: options}, nil
}

func (s *catalogService) AddSpecialization(ctx context.Context, branch, value string) (*dto.SpecializationResponse, error) {
	branch = strings.TrimSpace(branch)
	value = strings.TrimSpace(value)

	var fields []pkgerrors.FieldError
	if branch == "" {
		fields = append(fields, pkgerrors.FieldError{Field: "branch", Message: "不能为空"})
	}
	if value == "" {
		fields = append(fields, pkgerrors.FieldError{Field: "value", Message: "不能为空"})
	}
	if len(fields) > 0 {
		return nil, pkgerrors.NewValidationError(fields...)
	}

	if err := s.repo.Specialization.Append(ctx, branch, value); err != nil {
		s.logger.Error("追加方向失败", zap.String("branch", branch), zap.Error(err))
		return nil, pkgerrors.Store("append_specialization", err)
	}
	return s.ListSpecializations(ctx, branch)
}

// ────────────────────── Subject ──────────────────────

func (s *catalogService) GetSubject(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Store("get_subject", err)
	}
	return ToSubjectResponse(subject), nil
}

func (s *catalogService) ListSubjects(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		Branch:   req.Branch,
		Year:     req.Year,
		Semester: req.Semester,
	})
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, pkgerrors.Store("list_subjects", err)
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *ToSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *catalogService) UpsertSubject(ctx context.Context, id string, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	if err := validateSubject(req); err != nil {
		return nil, err
	}

	subject := buildSubject(req)

	if id == "" {
		subject.ID = uuid.NewString()
		if err := s.repo.Subject.Create(ctx, subject); err != nil {
			s.logger.Error("创建科目失败", zap.String("code", subject.Code), zap.Error(err))
			return nil, pkgerrors.Store("create_subject", err)
		}
		return ToSubjectResponse(subject), nil
	}

	subject.ID = id
	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("更新科目失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Store("update_subject", err)
	}
	return s.GetSubject(ctx, id)
}

func (s *catalogService) DeleteSubject(ctx context.Context, id string) error {
	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return pkgerrors.Store("delete_subject", err)
	}
	return nil
}

// ── 辅助函数 ──

// validateSubject 结构校验 + 学期必须属于学年
func validateSubject(req *dto.SubjectRequest) error {
	fields := validateStruct(req)
	if req.Year > 0 && req.Semester > 0 && !model.SemesterBelongsToYear(req.Year, req.Semester) {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "semester",
			Message: "学期不属于学年 " + strconv.Itoa(req.Year),
		})
	}
	if len(fields) > 0 {
		return pkgerrors.NewValidationError(fields...)
	}
	return nil
}

func buildSubject(req *dto.SubjectRequest) *model.Subject {
	modules := make(model.ModuleList, 0, len(req.Modules))
	for _, m := range req.Modules {
		topics := model.NormalizeTopics(m.Topics)
		if len(m.Topics) == 0 {
			topics = model.ParseTopics(m.TopicsText)
		}
		modules = append(modules, model.Module{Name: strings.TrimSpace(m.Name), Topics: topics})
	}

	return &model.Subject{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.TrimSpace(req.Code),
		Branch:   strings.TrimSpace(req.Branch),
		Year:     req.Year,
		Semester: req.Semester,
		Modules:  modules,
	}
}

// ToSubjectResponse 科目实体转响应 DTO
func ToSubjectResponse(s *model.Subject) *dto.SubjectResponse {
	modules := []model.Module(s.Modules)
	if modules == nil {
		modules = []model.Module{}
	}
	resp := &dto.SubjectResponse{
		ID:       s.ID,
		Name:     s.Name,
		Code:     s.Code,
		Branch:   s.Branch,
		Year:     s.Year,
		Semester: s.Semester,
		Modules:  modules,
	}
	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
