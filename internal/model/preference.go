package model

import "time"

// UserPreference 用户默认选择 — 对应 user_preferences
type UserPreference struct {
	UserID          string    `gorm:"type:varchar(128);primaryKey" json:"user_id"`
	DefaultBranch   string    `gorm:"type:varchar(100)"            json:"default_branch"`
	DefaultYear     int       `gorm:"not null;default:0"           json:"default_year"`
	DefaultSemester int       `gorm:"not null;default:0"           json:"default_semester"`
	LastUpdated     time.Time `gorm:"not null"                     json:"last_updated"`
}

// TableName 指定表名
func (UserPreference) TableName() string { return "user_preferences" }

// Selection 当前的 分支/学年/学期 选择，零值表示未选
type Selection struct {
	Branch   string `json:"branch"`
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
}

// Selection 将偏好转换为选择
func (p *UserPreference) Selection() Selection {
	if p == nil {
		return Selection{}
	}
	return Selection{Branch: p.DefaultBranch, Year: p.DefaultYear, Semester: p.DefaultSemester}
}
