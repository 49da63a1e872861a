package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/api/middleware"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/identity"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// MustGetIdentity 从 Gin 上下文中安全提取当前身份。
// 如果 JWT 中间件未正确注入身份，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(middleware.IdentityKey)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	if !ok || id == nil || id.UID == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return nil, false
	}
	return id, true
}

// bindJSON 绑定 JSON 请求体；失败时写入 400，超出大小限制写入 413
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			return false
		}
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return false
	}
	return true
}

// bindQuery 绑定查询参数；失败时写入 400
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return false
	}
	return true
}

// intParam 解析路径中的整数参数
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.BadRequest(c, response.CodeInvalidParam, name+" 必须为整数")
		return 0, false
	}
	return v, true
}

// uuidParam 解析路径中的 UUID 参数并返回规范写法；格式错误时写入 400
func uuidParam(c *gin.Context, name string) (string, bool) {
	u, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, response.CodeInvalidParam, name+" 格式无效")
		return "", false
	}
	return u.String(), true
}

// respondValidation 如果 err 为 ValidationError，写入 400 与字段详情
func respondValidation(c *gin.Context, err error) bool {
	ve, ok := pkgerrors.AsValidation(err)
	if !ok {
		return false
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidParam, "参数校验失败", ve.Fields)
	return true
}
