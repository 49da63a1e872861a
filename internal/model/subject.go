package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Module 科目下的单元，仅按其在 Modules 中的下标寻址
type Module struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// ── JSONB 模块列表 ──

// ModuleList 对应 syllabus.modules JSONB 列，实现 GORM Scanner/Valuer 接口。
type ModuleList []Module

// Scan 将 JSONB 文本解析为有序模块列表。
func (l *ModuleList) Scan(src interface{}) error {
	if src == nil {
		*l = ModuleList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("ModuleList.Scan: unsupported type %T", src)
	}
	var out ModuleList
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ModuleList.Scan: %w", err)
	}
	if out == nil {
		out = ModuleList{}
	}
	*l = out
	return nil
}

// Value 将模块列表序列化为 JSON；nil 写为空数组。
func (l ModuleList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Clone 深拷贝模块列表，复制科目时使用
func (l ModuleList) Clone() ModuleList {
	out := make(ModuleList, len(l))
	for i, m := range l {
		topics := make([]string, len(m.Topics))
		copy(topics, m.Topics)
		out[i] = Module{Name: m.Name, Topics: topics}
	}
	return out
}

// Subject 科目 — 对应 syllabus
type Subject struct {
	ID       string     `gorm:"type:uuid;primaryKey"             json:"id"`
	Name     string     `gorm:"type:varchar(200);not null"       json:"name"`
	Code     string     `gorm:"type:varchar(50);not null"        json:"code"`
	Branch   string     `gorm:"type:varchar(100);not null;index" json:"branch"`
	Year     int        `gorm:"not null;index"                   json:"year"`
	Semester int        `gorm:"not null"                         json:"semester"`
	Modules  ModuleList `gorm:"type:jsonb;not null"              json:"modules"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "syllabus" }

// ParseTopics 将逗号分隔的输入拆分为主题列表（去除首尾空白、过滤空项）
func ParseTopics(input string) []string {
	return NormalizeTopics(strings.Split(input, ","))
}

// NormalizeTopics 去除首尾空白并过滤空项，保持原有顺序
func NormalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
