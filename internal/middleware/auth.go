package middleware

import (
	"errors"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/repository"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// AuthMiddleware JWT认证中间件, 通过后把当前用户存入上下文
func AuthMiddleware(jwtManager *utils.JWTManager, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, dto.CodeUnauthorized, dto.MsgNotLoggedIn)
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.AbortWithError(c, dto.CodeUnauthorized, dto.MsgTokenInvalid)
			return
		}

		// 验证Token
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.AbortWithError(c, dto.CodeUnauthorized, dto.MsgTokenInvalid)
			return
		}

		// 角色和社区以数据库为准
		user, err := userRepo.GetByID(claims.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.AbortWithError(c, dto.CodeUnauthorized, dto.MsgTokenInvalid)
			return
		}
		if err != nil {
			utils.AbortWithError(c, dto.CodeInternal, "查询用户失败")
			return
		}

		c.Set(userIDKey, user.UserID)
		c.Set(userKey, user)

		c.Next()
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// CurrentUser 从上下文获取当前用户, 未登录时为 nil
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
