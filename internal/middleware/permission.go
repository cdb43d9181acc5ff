package middleware

import (
	"eco-report/internal/dto"
	"eco-report/internal/permission"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequirePermission 要求当前用户拥有任意一个权限
func RequirePermission(table *permission.Table, perms []permission.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !table.Allowed(CurrentUser(c), perms) {
			utils.AbortWithError(c, dto.CodeForbidden, dto.MsgForbidden)
			return
		}
		c.Next()
	}
}
