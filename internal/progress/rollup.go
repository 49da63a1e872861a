package progress

import (
	"fmt"
	"sort"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

// SubjectKPI 科目级 KPI
type SubjectKPI struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Progress  int    `json:"progress"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Year      int    `json:"year"`
	Semester  int    `json:"semester"`
}

// GroupRollup 学期（KRA）或学年的加权汇总
type GroupRollup struct {
	Label            string `json:"label"`
	Year             int    `json:"year"`
	Semester         int    `json:"semester,omitempty"`
	SubjectsCount    int    `json:"subjects_count"`
	TotalModules     int    `json:"total_modules"`
	CompletedModules int    `json:"completed_modules"`
	AvgProgress      int    `json:"avg_progress"`
}

// SubjectKPIs 为记录中每个仍存在于目录的科目生成 KPI，按进度降序
// catalog 中查不到的科目直接跳过
func SubjectKPIs(rec model.ProgressRecord, catalog map[string]*model.Subject) []SubjectKPI {
	kpis := make([]SubjectKPI, 0, len(rec))
	for _, id := range SubjectIDs(rec) {
		subject, ok := catalog[id]
		if !ok || subject == nil {
			continue
		}
		total := len(subject.Modules)
		kpis = append(kpis, SubjectKPI{
			SubjectID: subject.ID,
			Name:      subject.Name,
			Code:      subject.Code,
			Progress:  CalculateProgress(subject, rec),
			Completed: CompletedCount(rec, subject.ID, total),
			Total:     total,
			Year:      subject.Year,
			Semester:  subject.Semester,
		})
	}

	sort.SliceStable(kpis, func(i, j int) bool {
		return kpis[i].Progress > kpis[j].Progress
	})
	return kpis
}

type groupKey struct {
	year     int
	semester int
}

// SemesterKRAs 按 (学年, 学期) 分组
// AvgProgress = round(100 × Σcompleted / Σtotal)，是加权值而非各科百分比的算术平均
func SemesterKRAs(kpis []SubjectKPI) []GroupRollup {
	return rollup(kpis, func(k SubjectKPI) groupKey {
		return groupKey{year: k.Year, semester: k.Semester}
	}, func(g groupKey) string {
		return fmt.Sprintf("Year %d - Semester %d", g.year, g.semester)
	})
}

// YearlyProgress 仅按学年分组，加权规则同 SemesterKRAs
func YearlyProgress(kpis []SubjectKPI) []GroupRollup {
	return rollup(kpis, func(k SubjectKPI) groupKey {
		return groupKey{year: k.Year}
	}, func(g groupKey) string {
		return fmt.Sprintf("Year %d", g.year)
	})
}

func rollup(kpis []SubjectKPI, keyOf func(SubjectKPI) groupKey, labelOf func(groupKey) string) []GroupRollup {
	groups := make(map[groupKey]*GroupRollup)
	for _, k := range kpis {
		gk := keyOf(k)
		g, ok := groups[gk]
		if !ok {
			g = &GroupRollup{Label: labelOf(gk), Year: gk.year, Semester: gk.semester}
			groups[gk] = g
		}
		g.SubjectsCount++
		g.TotalModules += k.Total
		g.CompletedModules += k.Completed
	}

	out := make([]GroupRollup, 0, len(groups))
	for _, g := range groups {
		g.AvgProgress = Percent(g.CompletedModules, g.TotalModules)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Semester < out[j].Semester
	})
	return out
}

func sortedKeys(rec model.ProgressRecord) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
