package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// CopyHandler 批量复制 HTTP 处理器
type CopyHandler struct {
	copySvc service.CopyService
}

// NewCopyHandler 创建 CopyHandler
func NewCopyHandler(copySvc service.CopyService) *CopyHandler {
	return &CopyHandler{copySvc: copySvc}
}

// ListCandidates 源坐标下可复制的科目
// GET /api/v1/admin/copy/candidates?branch=&year=&semester=
func (h *CopyHandler) ListCandidates(c *gin.Context) {
	var req dto.CopyCandidatesRequest
	if !bindQuery(c, &req) {
		return
	}

	subjects, err := h.copySvc.ListCandidates(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	list := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		list = append(list, *service.ToSubjectResponse(&subjects[i]))
	}
	response.OK(c, gin.H{"list": list})
}

// Copy 执行批量复制；中途失败返回 207 与逐项结果
// POST /api/v1/admin/copy
func (h *CopyHandler) Copy(c *gin.Context) {
	var req dto.CopyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.copySvc.CopyFromSource(c.Request.Context(), &req)
	if err != nil {
		if respondValidation(c, err) {
			return
		}
		if result != nil {
			response.MultiStatus(c, "复制中途失败，已终止", result)
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
