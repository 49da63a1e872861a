package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// CatalogHandler 目录层级 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ── 分支 ──

// ListBranches 获取分支列表
// GET /api/v1/catalog/branches
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	branches, err := h.catalogSvc.ListBranches(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": branches})
}

// AddBranch 新增分支
// POST /api/v1/catalog/branches
func (h *CatalogHandler) AddBranch(c *gin.Context) {
	var req dto.AddBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	branch, err := h.catalogSvc.AddBranch(c.Request.Context(), req.Name)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, branch)
}

// DeleteBranch 删除分支并级联删除其下科目
// DELETE /api/v1/catalog/branches/:name
func (h *CatalogHandler) DeleteBranch(c *gin.Context) {
	result, err := h.catalogSvc.DeleteBranch(c.Request.Context(), c.Param("name"))
	h.respondBatch(c, result, err, service.ErrBranchNotFound)
}

// ListSpecializations 获取分支方向
// GET /api/v1/catalog/branches/:name/specializations
func (h *CatalogHandler) ListSpecializations(c *gin.Context) {
	spec, err := h.catalogSvc.ListSpecializations(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, spec)
}

// AddSpecialization 追加分支方向
// POST /api/v1/catalog/branches/:name/specializations
func (h *CatalogHandler) AddSpecialization(c *gin.Context) {
	var req dto.AddSpecializationRequest
	if !bindJSON(c, &req) {
		return
	}

	spec, err := h.catalogSvc.AddSpecialization(c.Request.Context(), c.Param("name"), req.Value)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, spec)
}

// ── 学年 ──

// ListYears 获取学年列表
// GET /api/v1/catalog/years
func (h *CatalogHandler) ListYears(c *gin.Context) {
	years, err := h.catalogSvc.ListYears(c.Request.Context())
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": years})
}

// AddYear 新增学年
// POST /api/v1/catalog/years
func (h *CatalogHandler) AddYear(c *gin.Context) {
	var req dto.AddYearRequest
	if !bindJSON(c, &req) {
		return
	}

	year, err := h.catalogSvc.AddYear(c.Request.Context(), req.Value)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.Created(c, year)
}

// DeleteYear 删除学年并级联删除其下科目
// DELETE /api/v1/catalog/years/:year
func (h *CatalogHandler) DeleteYear(c *gin.Context) {
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	result, err := h.catalogSvc.DeleteYear(c.Request.Context(), year)
	h.respondBatch(c, result, err, service.ErrYearNotFound)
}

// ListSemesters 学年对应的学期
// GET /api/v1/catalog/years/:year/semesters
func (h *CatalogHandler) ListSemesters(c *gin.Context) {
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	response.OK(c, dto.SemestersResponse{Year: year, Semesters: h.catalogSvc.AvailableSemesters(year)})
}

// respondBatch 级联删除结果：全部成功 200，部分失败 207，记录不存在且无科目 404
func (h *CatalogHandler) respondBatch(c *gin.Context, result *dto.BatchResult, err error, notFound error) {
	if result == nil {
		h.handleCatalogError(c, err)
		return
	}
	if errors.Is(err, notFound) && len(result.Items) == 0 {
		h.handleCatalogError(c, err)
		return
	}
	if result.HasFailure() {
		response.MultiStatus(c, "部分删除失败", result)
		return
	}
	response.OK(c, result)
}

func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrBranchExists):
		response.Conflict(c, 20001, "分支已存在")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 20002, "分支不存在")
	case errors.Is(err, service.ErrYearExists):
		response.Conflict(c, 20003, "学年已存在")
	case errors.Is(err, service.ErrYearNotFound):
		response.NotFound(c, 20004, "学年不存在")
	default:
		response.InternalError(c)
	}
}
