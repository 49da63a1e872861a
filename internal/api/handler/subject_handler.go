package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// SubjectHandler 科目 HTTP 处理器
type SubjectHandler struct {
	catalogSvc service.CatalogService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(catalogSvc service.CatalogService) *SubjectHandler {
	return &SubjectHandler{catalogSvc: catalogSvc}
}

// ListSubjects 按 分支/学年/学期 过滤科目
// GET /api/v1/subjects?branch=&year=&semester=
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	var req dto.SubjectListRequest
	if !bindQuery(c, &req) {
		return
	}

	subjects, err := h.catalogSvc.ListSubjects(c.Request.Context(), &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": subjects})
}

// GetSubject 获取科目详情
// GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	subject, err := h.catalogSvc.GetSubject(c.Request.Context(), id)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// CreateSubject 新建科目
// POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req dto.SubjectRequest
	if !bindJSON(c, &req) {
		return
	}

	subject, err := h.catalogSvc.UpsertSubject(c.Request.Context(), "", &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.Created(c, subject)
}

// UpdateSubject 覆盖科目
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubjectRequest
	if !bindJSON(c, &req) {
		return
	}

	subject, err := h.catalogSvc.UpsertSubject(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// DeleteSubject 删除科目
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
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
