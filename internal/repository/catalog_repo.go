package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// ── 分支 ──

// BranchRepository 分支数据访问接口
type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) error
	List(ctx context.Context) ([]model.Branch, error)
	Delete(ctx context.Context, name string) error
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepo 创建 BranchRepository 实例
func NewBranchRepo(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch) error {
	return translateError(r.db.WithContext(ctx).Create(branch).Error)
}

func (r *branchRepo) List(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&branches).Error
	return branches, err
}

// Delete 删除分支记录；记录不存在返回 gorm.ErrRecordNotFound
func (r *branchRepo) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&model.Branch{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 学年 ──

// YearRepository 学年数据访问接口
type YearRepository interface {
	Create(ctx context.Context, year *model.Year) error
	List(ctx context.Context) ([]model.Year, error)
	Delete(ctx context.Context, value int) error
}

type yearRepo struct {
	db *gorm.DB
}

// NewYearRepo 创建 YearRepository 实例
func NewYearRepo(db *gorm.DB) YearRepository {
	return &yearRepo{db: db}
}

func (r *yearRepo) Create(ctx context.Context, year *model.Year) error {
	return translateError(r.db.WithContext(ctx).Create(year).Error)
}

func (r *yearRepo) List(ctx context.Context) ([]model.Year, error) {
	var years []model.Year
	err := r.db.WithContext(ctx).
		Order("value ASC").
		Find(&years).Error
	return years, err
}

func (r *yearRepo) Delete(ctx context.Context, value int) error {
	res := r.db.WithContext(ctx).
		Where("value = ?", value).
		Delete(&model.Year{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 方向 ──

// SpecializationRepository 分支方向数据访问接口
type SpecializationRepository interface {
	Get(ctx context.Context, branch string) (*model.Specialization, error)
	Append(ctx context.Context, branch, option string) error
}

type specializationRepo struct {
	db *gorm.DB
}

// NewSpecializationRepo 创建 SpecializationRepository 实例
func NewSpecializationRepo(db *gorm.DB) SpecializationRepository {
	return &specializationRepo{db: db}
}

func (r *specializationRepo) Get(ctx context.Context, branch string) (*model.Specialization, error) {
	var spec model.Specialization
	err := r.db.WithContext(ctx).
		Where("branch = ?", branch).
		First(&spec).Error
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Append 追加方向；分支首次使用时创建文档，已存在的选项不重复追加
func (r *specializationRepo) Append(ctx context.Context, branch, option string) error {
	spec := &model.Specialization{
		Branch:  branch,
		Options: pq.StringArray{option},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "branch"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"options": gorm.Expr(
					"CASE WHEN ? = ANY(specializations.options) THEN specializations.options ELSE array_append(specializations.options, ?) END",
					option, option,
				),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(spec).Error
}
