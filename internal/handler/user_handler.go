package handler

import (
	"eco-report/internal/dto"
	"eco-report/internal/middleware"
	"eco-report/internal/service"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// SendSMS 发送验证码
// @Summary 发送短信验证码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.SendSMSRequest true "手机号"
// @Success 200 {object} utils.Response
// @Router /api/user/send-sms [post]
func (h *UserHandler) SendSMS(c *gin.Context) {
	var req dto.SendSMSRequest
	if !bindJSON(c, &req, map[string]string{"Phone": dto.MsgInvalidPhone}) {
		return
	}

	if err := h.authService.SendSMS(c.Request.Context(), req.Phone); err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgCodeSent, nil)
}

// Login 手机号验证码登录
// @Summary 手机号登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.PhoneLoginRequest true "登录信息"
// @Success 200 {object} utils.Response{data=dto.LoginResult}
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.PhoneLoginRequest
	if !bindJSON(c, &req, map[string]string{
		"Phone": dto.MsgInvalidPhone,
		"Code":  dto.MsgInvalidCode,
	}) {
		return
	}

	result, err := h.authService.LoginByPhone(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgLoginSuccess, result)
}

// WechatLogin 微信登录
// @Summary 微信登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.WechatLoginRequest true "登录凭证"
// @Success 200 {object} utils.Response{data=dto.LoginResult}
// @Router /api/user/wechat-login [post]
func (h *UserHandler) WechatLogin(c *gin.Context) {
	var req dto.WechatLoginRequest
	if !bindJSON(c, &req, map[string]string{"Code": dto.MsgWechatCodeRequired}) {
		return
	}

	result, err := h.authService.LoginByWechat(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgLoginSuccess, result)
}

// Info 当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=models.User}
// @Router /api/user/info [get]
func (h *UserHandler) Info(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.authService.GetUser(userID)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// Update 修改个人信息
// @Summary 修改当前用户信息
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "修改内容"
// @Success 200 {object} utils.Response{data=models.User}
// @Router /api/user/update [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req, map[string]string{"Phone": dto.MsgInvalidPhone}) {
		return
	}

	userID, _ := middleware.GetUserID(c)
	user, err := h.authService.UpdateUser(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgUpdated, user)
}
