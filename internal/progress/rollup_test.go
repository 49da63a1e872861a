package progress

import (
	"testing"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
)

func catalogOf(subjects ...*model.Subject) map[string]*model.Subject {
	m := make(map[string]*model.Subject, len(subjects))
	for _, s := range subjects {
		m[s.ID] = s
	}
	return m
}

func TestSubjectKPIs_SkipsMissingAndSortsDesc(t *testing.T) {
	a := subjectWithModules("a", 4)
	b := subjectWithModules("b", 2)
	a.Year, a.Semester = 1, 1
	b.Year, b.Semester = 1, 2

	rec := model.ProgressRecord{}
	rec = completedRecord(rec, "a", 1)       // 25%
	rec = completedRecord(rec, "b", 2)       // 100%
	rec = completedRecord(rec, "deleted", 1) // 目录中已不存在

	kpis := SubjectKPIs(rec, catalogOf(a, b))
	if len(kpis) != 2 {
		t.Fatalf("期望 2 条 KPI（跳过已删除科目），实际 %d", len(kpis))
	}
	if kpis[0].SubjectID != "b" || kpis[0].Progress != 100 {
		t.Errorf("第一条应为进度最高的 b，实际 %+v", kpis[0])
	}
	if kpis[1].Completed != 1 || kpis[1].Total != 4 || kpis[1].Progress != 25 {
		t.Errorf("a 的统计错误: %+v", kpis[1])
	}
}

func TestSemesterKRAs_WeightedNotMean(t *testing.T) {
	small := subjectWithModules("small", 2)
	large := subjectWithModules("large", 8)
	small.Year, small.Semester = 2, 3
	large.Year, large.Semester = 2, 3

	rec := model.ProgressRecord{}
	rec = completedRecord(rec, "small", 1) // 50%
	rec = completedRecord(rec, "large", 2) // 25%

	kras := SemesterKRAs(SubjectKPIs(rec, catalogOf(small, large)))
	if len(kras) != 1 {
		t.Fatalf("期望 1 个分组，实际 %d", len(kras))
	}
	g := kras[0]
	if g.AvgProgress != 30 {
		t.Errorf("加权平均期望 30（而非算术平均 37.5），实际 %d", g.AvgProgress)
	}
	if g.Label != "Year 2 - Semester 3" {
		t.Errorf("标签错误: %s", g.Label)
	}
	if g.SubjectsCount != 2 || g.TotalModules != 10 || g.CompletedModules != 3 {
		t.Errorf("分组统计错误: %+v", g)
	}
}

func TestYearlyProgress_GroupsAcrossSemesters(t *testing.T) {
	s1 := subjectWithModules("s1", 3)
	s2 := subjectWithModules("s2", 3)
	s3 := subjectWithModules("s3", 4)
	s1.Year, s1.Semester = 1, 1
	s2.Year, s2.Semester = 1, 2
	s3.Year, s3.Semester = 2, 3

	rec := model.ProgressRecord{}
	rec = completedRecord(rec, "s1", 3)
	rec = completedRecord(rec, "s2", 0)
	rec = ApplyToggle(rec, "s2", 0, false) // 有条目但未完成
	rec = completedRecord(rec, "s3", 1)

	kpis := SubjectKPIs(rec, catalogOf(s1, s2, s3))

	years := YearlyProgress(kpis)
	if len(years) != 2 {
		t.Fatalf("期望 2 个学年分组，实际 %d", len(years))
	}
	if years[0].Label != "Year 1" || years[0].AvgProgress != 50 {
		t.Errorf("Year 1 期望 50%%，实际 %+v", years[0])
	}
	if years[1].Label != "Year 2" || years[1].AvgProgress != 25 {
		t.Errorf("Year 2 期望 25%%，实际 %+v", years[1])
	}

	kras := SemesterKRAs(kpis)
	if len(kras) != 3 {
		t.Fatalf("期望 3 个学期分组，实际 %d", len(kras))
	}
	if kras[0].Semester != 1 || kras[1].Semester != 2 || kras[2].Semester != 3 {
		t.Errorf("学期分组应按 (学年, 学期) 升序: %+v", kras)
	}
}

func TestRollups_EmptyRecord(t *testing.T) {
	kpis := SubjectKPIs(model.ProgressRecord{}, catalogOf())
	if len(kpis) != 0 {
		t.Error("无科目键时 KPI 应为空")
	}
	if len(SemesterKRAs(kpis)) != 0 || len(YearlyProgress(kpis)) != 0 {
		t.Error("无科目键时汇总应为空")
	}
}

func TestRollups_ZeroModuleGroup(t *testing.T) {
	empty := subjectWithModules("e", 0)
	empty.Year, empty.Semester = 3, 5
	rec := model.ProgressRecord{"subject_e": {}}

	kras := SemesterKRAs(SubjectKPIs(rec, catalogOf(empty)))
	if len(kras) != 1 || kras[0].AvgProgress != 0 {
		t.Errorf("总模块数为 0 的分组应为 0%%，实际 %+v", kras)
	}
}
