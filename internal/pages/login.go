package pages

import (
	"context"
	"strings"

	"eco-report/internal/dto"
)

// 登录页提示
const (
	MsgPhoneRequired = "请输入手机号"
	MsgPhoneInvalid  = "请输入正确的手机号"
	MsgSendFailed    = "发送失败，请重试"
	MsgCodeRequired  = "请输入验证码"
	MsgCodeInvalid   = "请输入6位验证码"
	MsgLoginFailed   = "登录失败，请重试"
)

var loginMessages = map[string]string{
	"Phone.required": MsgPhoneRequired,
	"Phone.phone":    MsgPhoneInvalid,
	"Code.required":  MsgCodeRequired,
	"Code":           MsgCodeInvalid,
}

type phoneForm struct {
	Phone string `validate:"required,phone"`
}

type loginForm struct {
	Phone string `validate:"required,phone"`
	Code  string `validate:"required,len=6,numeric"`
}

// LoginPage 登录页
type LoginPage struct {
	env      *Env
	Phone    string
	Code     string
	CodeSent bool
}

// NewLoginPage 创建登录页
func NewLoginPage(env *Env) *LoginPage {
	return &LoginPage{env: env}
}

// OnShow 已登录时直接进入角色首页
func (p *LoginPage) OnShow() bool {
	if !p.env.Auth.IsLoggedIn() {
		return false
	}
	p.env.Auth.Navigator().SwitchTab(p.env.Auth.DefaultPageForRole())
	return true
}

// SendCode 发送验证码
func (p *LoginPage) SendCode(ctx context.Context) bool {
	p.Phone = strings.TrimSpace(p.Phone)
	if msg := validateForm(phoneForm{Phone: p.Phone}, loginMessages); msg != "" {
		p.env.Toast(msg)
		return false
	}

	resp, err := p.env.API.User.SendSMS(ctx, p.Phone)
	if !p.env.accept("send_sms", resp.Code, resp.Message, err, MsgSendFailed) {
		return false
	}
	p.CodeSent = true
	p.env.Toast(dto.MsgCodeSent)
	return true
}

// Login 手机号登录, 成功时返回落地页
func (p *LoginPage) Login(ctx context.Context) (string, bool) {
	p.Phone = strings.TrimSpace(p.Phone)
	p.Code = strings.TrimSpace(p.Code)
	if msg := validateForm(loginForm{Phone: p.Phone, Code: p.Code}, loginMessages); msg != "" {
		p.env.Toast(msg)
		return "", false
	}

	resp, err := p.env.API.User.LoginByPhone(ctx, p.Phone, p.Code)
	if !p.env.accept("login_phone", resp.Code, resp.Message, err, MsgLoginFailed) {
		return "", false
	}
	return p.finish(resp.Data)
}

// LoginWithWechat 微信登录
func (p *LoginPage) LoginWithWechat(ctx context.Context, code, nickname, avatar string) (string, bool) {
	if strings.TrimSpace(code) == "" {
		p.env.Toast(dto.MsgWechatCodeRequired)
		return "", false
	}

	req := dto.WechatLoginRequest{Code: code, Nickname: nickname, Avatar: avatar}
	resp, err := p.env.API.User.LoginByWechat(ctx, req)
	if !p.env.accept("login_wechat", resp.Code, resp.Message, err, MsgLoginFailed) {
		return "", false
	}
	return p.finish(resp.Data)
}

func (p *LoginPage) finish(result dto.LoginResult) (string, bool) {
	user := result.User
	if err := p.env.Session().Save(result.Token, &user); err != nil {
		p.env.Logger.WithError(err).Error("保存会话失败")
		p.env.Toast(MsgLoginFailed)
		return "", false
	}

	p.env.Logger.WithField("user_id", user.UserID).Info("登录成功")
	p.env.Toast(dto.MsgLoginSuccess)
	p.Code = ""
	landing := p.env.Auth.DefaultPageForRole()
	p.env.Auth.Navigator().SwitchTab(landing)
	return landing, true
}
