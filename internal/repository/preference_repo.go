package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// 偏好可合并写入的列
const (
	PreferenceColumnBranch   = "default_branch"
	PreferenceColumnYear     = "default_year"
	PreferenceColumnSemester = "default_semester"
)

// PreferenceRepository 用户偏好数据访问接口
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*model.UserPreference, error)
	Merge(ctx context.Context, pref *model.UserPreference, columns []string) error
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	var p model.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Merge 合并写入：文档不存在时整行插入，存在时只更新 columns 与 last_updated
func (r *preferenceRepo) Merge(ctx context.Context, pref *model.UserPreference, columns []string) error {
	update := make([]string, 0, len(columns)+1)
	update = append(update, columns...)
	update = append(update, "last_updated")

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(update),
		}).
		Create(pref).Error
}
