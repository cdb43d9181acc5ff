package handler

import (
	"errors"

	"eco-report/internal/service"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MsgBadRequest 请求体无法解析
const MsgBadRequest = "请求参数错误"

// checker 能自行给出业务提示的请求
type checker interface {
	Check() string
}

// bindJSON 绑定请求体, 失败时写入400响应并返回false
// 提示优先取请求自身的检查结果, 其次按 "字段.规则" 或 "字段" 查 messages
func bindJSON(c *gin.Context, req interface{}, messages map[string]string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		utils.BadRequest(c, MsgBadRequest)
		return false
	}
	if ck, ok := req.(checker); ok {
		if msg := ck.Check(); msg != "" {
			utils.BadRequest(c, msg)
			return false
		}
	}
	if field, tag, ok := utils.FirstFieldError(err); ok {
		if msg, found := messages[field+"."+tag]; found {
			utils.BadRequest(c, msg)
			return false
		}
		if msg, found := messages[field]; found {
			utils.BadRequest(c, msg)
			return false
		}
	}
	utils.BadRequest(c, utils.FormatBindError(err))
	return false
}

// fail 把业务错误写入响应, 未知错误记入上下文由日志中间件输出
func fail(c *gin.Context, err error) {
	code, message := service.Code(err)
	if code >= 500 {
		_ = c.Error(err)
	}
	utils.ErrorResponse(c, code, message)
}
