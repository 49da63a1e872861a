package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/identity"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/jwt"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/response"
)

// IdentityKey gin.Context 中存放 *identity.Identity 的键
const IdentityKey = "identity"

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取身份令牌，经 Resolver 计算能力集后
// 同时注入 gin.Context 与 request context
func JWTAuth(jwtMgr *jwt.Manager, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "Token 无效"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token 已过期"
			}
			response.Unauthorized(c, response.CodeUnauthorized, msg)
			c.Abort()
			return
		}

		id := resolver.Resolve(claims.UID, claims.Email, claims.DisplayName, claims.PhotoURL)
		c.Set(IdentityKey, id)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// RequireAdmin 管理员能力校验，须挂在 JWTAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(IdentityKey)
		if !exists {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		id, ok := v.(*identity.Identity)
		if !ok || !id.IsAdmin() {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
