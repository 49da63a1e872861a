package model

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	subjectKeyPrefix = "subject_"
	moduleKeyPrefix  = "module_"
)

// SubjectProgress 单个科目的稀疏完成标记："module_<i>" → bool
type SubjectProgress map[string]bool

// ProgressRecord 用户进度文档："subject_<id>" → SubjectProgress
// 某个 module_<i> 存在即表示曾被显式切换；缺失视为未完成
type ProgressRecord map[string]SubjectProgress

// UserProgress 用户进度 — 对应 user_progress（首次切换时惰性创建，从不删除）
type UserProgress struct {
	UserID    string                             `gorm:"type:varchar(128);primaryKey" json:"user_id"`
	Progress  datatypes.JSONType[ProgressRecord] `gorm:"type:jsonb;not null"          json:"progress"`
	UpdatedAt time.Time                          `gorm:"not null"                     json:"updated_at"`
}

// TableName 指定表名
func (UserProgress) TableName() string { return "user_progress" }

// Record 返回进度文档，空文档返回非 nil 的空映射
func (p *UserProgress) Record() ProgressRecord {
	if p == nil {
		return ProgressRecord{}
	}
	rec := p.Progress.Data()
	if rec == nil {
		return ProgressRecord{}
	}
	return rec
}

// SubjectKey 生成科目键 subject_<id>
func SubjectKey(subjectID string) string {
	return subjectKeyPrefix + subjectID
}

// ModuleKey 生成模块键 module_<index>
func ModuleKey(index int) string {
	return moduleKeyPrefix + strconv.Itoa(index)
}

// ParseSubjectKey 从 subject_<id> 中取出科目 ID
func ParseSubjectKey(key string) (string, bool) {
	if !strings.HasPrefix(key, subjectKeyPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(key, subjectKeyPrefix)
	return id, id != ""
}
