package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突（PostgreSQL 23505）
var ErrDuplicate = errors.New("记录已存在")

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Branch         BranchRepository
	Year           YearRepository
	Specialization SpecializationRepository
	Subject        SubjectRepository
	Progress       ProgressRepository
	Preference     PreferenceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Branch:         NewBranchRepo(db),
		Year:           NewYearRepo(db),
		Specialization: NewSpecializationRepo(db),
		Subject:        NewSubjectRepo(db),
		Progress:       NewProgressRepo(db),
		Preference:     NewPreferenceRepo(db),
	}
}

// translateError 将驱动层唯一约束冲突统一为 ErrDuplicate
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
