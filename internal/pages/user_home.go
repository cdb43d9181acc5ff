package pages

import (
	"context"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// UserHomePage 个人中心
type UserHomePage struct {
	env       *Env
	User      *models.User
	Stats     dto.ProblemStats
	Community string
	Tabs      []Tab
	Selected  int
}

// NewUserHomePage 创建个人中心
func NewUserHomePage(env *Env) *UserHomePage {
	return &UserHomePage{env: env}
}

// Load 刷新用户信息和所在社区的统计
func (p *UserHomePage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageUserHome) {
		return false
	}

	info, err := p.env.API.User.Info(ctx)
	if !p.env.accept("user_info", info.Code, info.Message, err, MsgLoadFailed) {
		return false
	}
	user := info.Data
	if err := p.env.Session().SetUser(&user); err != nil {
		p.env.Logger.WithError(err).Warn("更新会话用户失败")
	}
	p.User = &user
	p.Tabs = Tabs(user.Role)
	p.Selected = SelectedTab(p.Tabs, permission.PageUserHome)

	communityID := p.env.communityFor(&user)
	if communityID != "" {
		if c, err := p.env.API.Community.Get(ctx, communityID); err == nil && c.OK() {
			p.Community = c.Data.CommunityText
		}
	}

	stats, err := p.env.API.Problem.Stats(ctx, communityID)
	if !p.env.accept("user_stats", stats.Code, stats.Message, err, MsgLoadFailed) {
		return false
	}
	p.Stats = stats.Data
	return true
}

// UpdateProfile 修改昵称和头像
func (p *UserHomePage) UpdateProfile(ctx context.Context, nickname, avatar string) bool {
	req := dto.UpdateUserRequest{}
	if nickname != "" {
		req.Nickname = &nickname
	}
	if avatar != "" {
		req.Avatar = &avatar
	}

	resp, err := p.env.API.User.Update(ctx, req)
	if !p.env.accept("user_update", resp.Code, resp.Message, err, MsgSubmitFailed) {
		return false
	}
	user := resp.Data
	if err := p.env.Session().SetUser(&user); err != nil {
		p.env.Logger.WithError(err).Warn("更新会话用户失败")
	}
	p.User = &user
	p.env.Toast(dto.MsgUpdated)
	return true
}

// Logout 退出登录并回到登录页
func (p *UserHomePage) Logout() bool {
	if err := p.env.Auth.Logout(); err != nil {
		p.env.Logger.WithError(err).Error("退出登录失败")
		return false
	}
	p.User = nil
	p.env.Toast(MsgLoggedOut)
	p.env.Auth.Navigator().RedirectTo(permission.PageLogin)
	return true
}
