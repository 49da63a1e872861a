package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// ProgressHandler 学习进度 HTTP 处理器
type ProgressHandler struct {
	progressSvc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// GetProgress 当前用户的进度文档
// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	record, err := h.progressSvc.GetRecord(c.Request.Context(), id.UID)
	if err != nil {
		h.handleProgressError(c, err)
		return
	}
	response.OK(c, record)
}

// Dashboard 我的进度
// GET /api/v1/progress/dashboard?branch=&year=&semester=
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.DashboardRequest
	if !bindQuery(c, &req) {
		return
	}

	dashboard, err := h.progressSvc.Dashboard(c.Request.Context(), id.UID, &req)
	if err != nil {
		h.handleProgressError(c, err)
		return
	}
	response.OK(c, dashboard)
}

// UpdateModuleStatus 切换模块完成状态
// PUT /api/v1/progress/subjects/:id/modules/:index
func (h *ProgressHandler) UpdateModuleStatus(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	subjectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	var req dto.UpdateModuleStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.progressSvc.UpdateModuleStatus(c.Request.Context(), id.UID, subjectID, index, *req.Completed)
	if err != nil {
		h.handleProgressError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ProgressHandler) handleProgressError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 21001, "科目不存在")
	default:
		response.InternalError(c)
	}
}
