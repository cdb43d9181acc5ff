package dto

import "eco-report/internal/models"

// SendSMSRequest 发送验证码请求
type SendSMSRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// PhoneLoginRequest 手机号登录请求
type PhoneLoginRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// WechatLoginRequest 微信登录请求
type WechatLoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// LoginResult 登录结果
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UpdateUserRequest 修改个人信息, 只更新非空字段
type UpdateUserRequest struct {
	Nickname    *string `json:"nickname,omitempty" binding:"omitempty,max=64"`
	Avatar      *string `json:"avatar,omitempty" binding:"omitempty,max=255"`
	Phone       *string `json:"phone,omitempty" binding:"omitempty,phone"`
	CommunityID *string `json:"community_id,omitempty" binding:"omitempty,max=32"`
}

// Apply 把修改写入用户
func (r UpdateUserRequest) Apply(u *models.User) {
	if r.Nickname != nil {
		u.Nickname = *r.Nickname
	}
	if r.Avatar != nil {
		u.Avatar = *r.Avatar
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
	}
	if r.CommunityID != nil {
		u.CommunityID = *r.CommunityID
	}
}
