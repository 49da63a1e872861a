package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/progress"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
)

// ── 分析模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// trackedUserConcurrency 汇总用户列表时的并发上限
const trackedUserConcurrency = 8

// AnalyticsService 管理端进度分析接口
//
// 所有汇总都基于用户进度文档中的 subject_* 键；
// 目录中已被删除的科目直接跳过，不报错。
type AnalyticsService interface {
	ListTrackedUsers(ctx context.Context) ([]dto.TrackedUserResponse, error)
	SubjectKPIs(ctx context.Context, userID string) ([]progress.SubjectKPI, error)
	SemesterKRAs(ctx context.Context, userID string) ([]progress.GroupRollup, error)
	YearlyProgress(ctx context.Context, userID string) ([]progress.GroupRollup, error)
	Report(ctx context.Context, userID string) (*dto.AnalyticsReport, error)
	// ExportReport 导出为 Excel，返回内容与建议文件名
	ExportReport(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type analyticsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(repo *repository.Repository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

// ────────────────────── ListTrackedUsers ──────────────────────

func (s *analyticsService) ListTrackedUsers(ctx context.Context) ([]dto.TrackedUserResponse, error) {
	ids, err := s.repo.Progress.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error("列出进度用户失败", zap.Error(err))
		return nil, pkgerrors.Store("list_progress_users", err)
	}

	result := make([]dto.TrackedUserResponse, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(trackedUserConcurrency)

	for i, uid := range ids {
		g.Go(func() error {
			doc, kpis, err := s.load(gctx, uid)
			if err != nil {
				return err
			}
			summary := dto.TrackedUserResponse{UserID: uid, SubjectsTracked: len(kpis)}
			for _, k := range kpis {
				summary.CompletedModules += k.Completed
				summary.TotalModules += k.Total
			}
			summary.OverallProgress = progress.Percent(summary.CompletedModules, summary.TotalModules)
			if doc != nil {
				summary.UpdatedAt = doc.UpdatedAt.Format(time.RFC3339)
			}
			result[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ────────────────────── KPI / KRA ──────────────────────

func (s *analyticsService) SubjectKPIs(ctx context.Context, userID string) ([]progress.SubjectKPI, error) {
	_, kpis, err := s.load(ctx, userID)
	return kpis, err
}

func (s *analyticsService) SemesterKRAs(ctx context.Context, userID string) ([]progress.GroupRollup, error) {
	_, kpis, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.SemesterKRAs(kpis), nil
}

func (s *analyticsService) YearlyProgress(ctx context.Context, userID string) ([]progress.GroupRollup, error) {
	_, kpis, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.YearlyProgress(kpis), nil
}

func (s *analyticsService) Report(ctx context.Context, userID string) (*dto.AnalyticsReport, error) {
	_, kpis, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyticsReport{
		UserID: userID,
		KPIs:   kpis,
		KRAs:   progress.SemesterKRAs(kpis),
		Yearly: progress.YearlyProgress(kpis),
	}, nil
}

// load 读取进度文档并按引用的科目 ID 批量取目录
func (s *analyticsService) load(ctx context.Context, userID string) (*model.UserProgress, []progress.SubjectKPI, error) {
	doc, err := s.repo.Progress.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []progress.SubjectKPI{}, nil
		}
		s.logger.Error("读取进度失败", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, pkgerrors.Store("get_progress", err)
	}

	rec := doc.Record()
	ids := progress.SubjectIDs(rec)
	if len(ids) == 0 {
		return doc, []progress.SubjectKPI{}, nil
	}

	subjects, err := s.repo.Subject.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询科目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, pkgerrors.Store("list_subjects_by_ids", err)
	}

	catalog := make(map[string]*model.Subject, len(subjects))
	for i := range subjects {
		catalog[subjects[i].ID] = &subjects[i]
	}
	return doc, progress.SubjectKPIs(rec, catalog), nil
}

// ═══════════════════════════════════════════════════════════
// ExportReport — 导出分析报告为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "科目KPI"：科目代码 | 科目名称 | 学年 | 学期 | 已完成 | 模块数 | 进度%
//   - Sheet "学期KRA"：分组 | 科目数 | 已完成 | 模块数 | 加权进度%
//   - Sheet "学年进度"：同上，按学年分组

func (s *analyticsService) ExportReport(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	report, err := s.Report(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 科目 KPI
	kpiSheet := "科目KPI"
	idx, _ := f.NewSheet(kpiSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	writeHeader(f, kpiSheet, headerStyle, "科目代码", "科目名称", "学年", "学期", "已完成", "模块数", "进度%")
	f.SetColWidth(kpiSheet, "A", "A", 14)
	f.SetColWidth(kpiSheet, "B", "B", 32)
	for i, k := range report.KPIs {
		row := i + 2
		f.SetCellValue(kpiSheet, cell("A", row), k.Code)
		f.SetCellValue(kpiSheet, cell("B", row), k.Name)
		f.SetCellValue(kpiSheet, cell("C", row), k.Year)
		f.SetCellValue(kpiSheet, cell("D", row), k.Semester)
		f.SetCellValue(kpiSheet, cell("E", row), k.Completed)
		f.SetCellValue(kpiSheet, cell("F", row), k.Total)
		f.SetCellValue(kpiSheet, cell("G", row), k.Progress)
	}

	writeRollupSheet(f, "学期KRA", headerStyle, report.KRAs)
	writeRollupSheet(f, "学年进度", headerStyle, report.Yearly)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("progress_report_%s.xlsx", userID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func writeRollupSheet(f *excelize.File, sheet string, headerStyle int, groups []progress.GroupRollup) {
	f.NewSheet(sheet)
	writeHeader(f, sheet, headerStyle, "分组", "科目数", "已完成", "模块数", "加权进度%")
	f.SetColWidth(sheet, "A", "A", 24)
	for i, g := range groups {
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), g.Label)
		f.SetCellValue(sheet, cell("B", row), g.SubjectsCount)
		f.SetCellValue(sheet, cell("C", row), g.CompletedModules)
		f.SetCellValue(sheet, cell("D", row), g.TotalModules)
		f.SetCellValue(sheet, cell("E", row), g.AvgProgress)
	}
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		f.SetCellValue(sheet, cell(colName(i), 1), title)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
