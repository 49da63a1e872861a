package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// ProgressRepository 用户进度文档数据访问接口
type ProgressRepository interface {
	Get(ctx context.Context, userID string) (*model.UserProgress, error)
	MergeSubject(ctx context.Context, userID, subjectKey string, sp model.SubjectProgress, updatedAt time.Time) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

type progressRepo struct {
	db *gorm.DB
}

// NewProgressRepo 创建 ProgressRepository 实例
func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) Get(ctx context.Context, userID string) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MergeSubject 合并写入单个科目键与 updated_at，文档不存在时创建
// 其它科目键保持不变，同一科目键以最后一次写入为准
func (r *progressRepo) MergeSubject(ctx context.Context, userID, subjectKey string, sp model.SubjectProgress, updatedAt time.Time) error {
	doc := &model.UserProgress{
		UserID:    userID,
		Progress:  datatypes.NewJSONType(model.ProgressRecord{subjectKey: sp}),
		UpdatedAt: updatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"progress":   gorm.Expr("user_progress.progress || EXCLUDED.progress"),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(doc).Error
}

func (r *progressRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserProgress{}).
		Order("updated_at DESC").
		Pluck("user_id", &ids).Error
	return ids, err
}
