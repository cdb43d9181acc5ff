package middleware

import (
	"eco-report/internal/dto"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			utils.AbortWithError(c, dto.CodeForbidden, dto.MsgAdminRequired)
			return
		}
		c.Next()
	}
}
