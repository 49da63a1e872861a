package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsHandler 管理端进度分析 HTTP 处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// ListUsers 拥有进度文档的用户
// GET /api/v1/admin/analytics/users
func (h *AnalyticsHandler) ListUsers(c *gin.Context) {
	users, err := h.analyticsSvc.ListTrackedUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// SubjectKPIs 科目 KPI
// GET /api/v1/admin/analytics/users/:uid/kpis
func (h *AnalyticsHandler) SubjectKPIs(c *gin.Context) {
	kpis, err := h.analyticsSvc.SubjectKPIs(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": kpis})
}

// SemesterKRAs 学期 KRA
// GET /api/v1/admin/analytics/users/:uid/kras
func (h *AnalyticsHandler) SemesterKRAs(c *gin.Context) {
	kras, err := h.analyticsSvc.SemesterKRAs(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": kras})
}

// YearlyProgress 学年进度
// GET /api/v1/admin/analytics/users/:uid/yearly
func (h *AnalyticsHandler) YearlyProgress(c *gin.Context) {
	yearly, err := h.analyticsSvc.YearlyProgress(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": yearly})
}

// Report 完整分析报告
// GET /api/v1/admin/analytics/users/:uid/report
func (h *AnalyticsHandler) Report(c *gin.Context) {
	report, err := h.analyticsSvc.Report(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, report)
}

// Export 导出分析报告
// GET /api/v1/admin/analytics/users/:uid/export
func (h *AnalyticsHandler) Export(c *gin.Context) {
	buf, filename, err := h.analyticsSvc.ExportReport(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
