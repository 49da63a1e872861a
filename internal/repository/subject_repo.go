package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// SubjectFilter 科目等值过滤条件，零值字段不参与过滤
type SubjectFilter struct {
	Branch   string
	Year     int
	Semester int
}

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Subject, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// Update 覆盖科目的可编辑字段；记录不存在返回 gorm.ErrRecordNotFound
func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	res := r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Where("id = ?", subject.ID).
		Updates(map[string]interface{}{
			"name":       subject.Name,
			"code":       subject.Code,
			"branch":     subject.Branch,
			"year":       subject.Year,
			"semester":   subject.Semester,
			"modules":    subject.Modules,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Subject{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subjectRepo) List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error) {
	query := r.db.WithContext(ctx).Model(&model.Subject{})
	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}

	var subjects []model.Subject
	err := query.Order("semester ASC, code ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Subject, error) {
	if len(ids) == 0 {
		return []model.Subject{}, nil
	}
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&subjects).Error
	return subjects, err
}
