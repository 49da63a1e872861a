// Package progress 实现与存储无关的进度计算：
// 模块完成判定、科目百分比、乐观切换以及 KPI/KRA 汇总。
package progress

import (
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// IsModuleCompleted 判断模块是否已完成；记录或条目缺失一律视为未完成
func IsModuleCompleted(rec model.ProgressRecord, subjectID string, index int) bool {
	sp, ok := rec[model.SubjectKey(subjectID)]
	if !ok {
		return false
	}
	return sp[model.ModuleKey(index)]
}

// CompletedCount 统计下标 0..total-1 中已完成的模块数，越界的旧标记不计入
func CompletedCount(rec model.ProgressRecord, subjectID string, total int) int {
	n := 0
	for i := 0; i < total; i++ {
		if IsModuleCompleted(rec, subjectID, i) {
			n++
		}
	}
	return n
}

// Percent 计算 round(100 × completed / total)，四舍五入（.5 进位）
// total 为 0 时返回 0
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// CalculateProgress 计算科目完成百分比 [0,100]
// 科目无模块或记录中无该科目条目时返回 0
func CalculateProgress(subject *model.Subject, rec model.ProgressRecord) int {
	total := len(subject.Modules)
	if total == 0 {
		return 0
	}
	if _, ok := rec[model.SubjectKey(subject.ID)]; !ok {
		return 0
	}
	return Percent(CompletedCount(rec, subject.ID, total), total)
}

// ApplyToggle 乐观更新：基于 prev 生成新的进度文档，prev 本身不被修改
//
// 读-改-写 不做比较交换，同一用户同一科目的并发写入以最后一次为准。
func ApplyToggle(prev model.ProgressRecord, subjectID string, index int, completed bool) model.ProgressRecord {
	next := make(model.ProgressRecord, len(prev)+1)
	for k, v := range prev {
		next[k] = v
	}

	key := model.SubjectKey(subjectID)
	sp := make(model.SubjectProgress, len(prev[key])+1)
	for k, v := range prev[key] {
		sp[k] = v
	}
	sp[model.ModuleKey(index)] = completed
	next[key] = sp

	return next
}

// SubjectIDs 返回记录中引用的全部科目 ID（按键排序，保证汇总结果稳定）
func SubjectIDs(rec model.ProgressRecord) []string {
	ids := make([]string, 0, len(rec))
	for _, key := range sortedKeys(rec) {
		if id, ok := model.ParseSubjectKey(key); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
