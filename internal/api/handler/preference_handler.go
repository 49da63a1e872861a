package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/service"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// PreferenceHandler 用户偏好 HTTP 处理器
type PreferenceHandler struct {
	prefSvc service.PreferenceService
}

// NewPreferenceHandler 创建 PreferenceHandler
func NewPreferenceHandler(prefSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefSvc: prefSvc}
}

// LoadPreferences 加载偏好会话，查询参数为客户端当前选择
// GET /api/v1/preferences?branch=&year=&semester=
func (h *PreferenceHandler) LoadPreferences(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.PreferenceLoadRequest
	if !bindQuery(c, &req) {
		return
	}

	current := model.Selection{Branch: req.Branch, Year: req.Year, Semester: req.Semester}
	pref, err := h.prefSvc.Load(c.Request.Context(), id.UID, current)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, pref)
}

// ChangePreferences 变更选择，落库经过防抖
// PUT /api/v1/preferences
func (h *PreferenceHandler) ChangePreferences(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.PreferenceChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	pref, err := h.prefSvc.Change(c.Request.Context(), id.UID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Accepted(c, pref)
}
