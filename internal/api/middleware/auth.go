package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsportal/pkg/response"
	"github.com/d60-Lab/newsportal/pkg/token"
)

// ContextUserID 认证通过后挂在 gin context 上的账号标识键。
// handler 只信这里的值，绝不信请求体里的 userId。
const ContextUserID = "auth_user_id"

// Auth bearer token 校验。缺失返回 401，无效/过期返回 403，
// 两种状态码区分“请登录”与“会话已失效”；失败一律短路，不触达存储。
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Authentication token required")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == header {
			response.Unauthorized(c, "Authentication token required")
			c.Abort()
			return
		}
		userID, err := tokens.Verify(raw)
		if err != nil {
			response.Forbidden(c, "Invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID 取出已验证的账号标识
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
