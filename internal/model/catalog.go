package model

import "github.com/lib/pq"

// Branch 专业分支 — 对应 branches
type Branch struct {
	Name string `gorm:"type:varchar(100);primaryKey" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Branch) TableName() string { return "branches" }

// Year 学年 — 对应 years
type Year struct {
	Value int `gorm:"primaryKey;autoIncrement:false" json:"value"`
	BaseModel
}

// TableName 指定表名
func (Year) TableName() string { return "years" }

// Specialization 分支下的方向列表 — 对应 specializations（只追加）
type Specialization struct {
	Branch  string         `gorm:"type:varchar(100);primaryKey" json:"branch"`
	Options pq.StringArray `gorm:"type:text[];not null"         json:"options"`
	BaseModel
}

// TableName 指定表名
func (Specialization) TableName() string { return "specializations" }
