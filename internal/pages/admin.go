package pages

import (
	"context"

	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// MsgAdminRequired 非管理员进入管理页
const MsgAdminRequired = "需要管理员权限"

// AdminPage 管理员首页
type AdminPage struct {
	env           *Env
	Community     *models.Community
	TodayNew      int64
	TodayResolved int64
	Pending       int64
	FixRate       float64
	Tabs          []Tab
	Selected      int
}

// NewAdminPage 创建管理员首页
func NewAdminPage(env *Env) *AdminPage {
	return &AdminPage{env: env}
}

// Load 读取选中社区的当日统计
func (p *AdminPage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageAdminHome) {
		return false
	}
	if !p.env.Auth.IsAdmin() {
		p.env.Toast(MsgAdminRequired)
		p.env.Auth.Navigator().SwitchTab(permission.PageIndex)
		return false
	}

	p.Tabs = Tabs(models.RoleAdmin)
	p.Selected = SelectedTab(p.Tabs, permission.PageAdminHome)
	p.Community = p.env.Session().SelectedCommunity()

	communityID := ""
	if p.Community != nil {
		communityID = p.Community.CommunityID
	}
	resp, err := p.env.API.Problem.Stats(ctx, communityID)
	if !p.env.accept("admin_stats", resp.Code, resp.Message, err, MsgLoadFailed) {
		return false
	}
	p.TodayNew = resp.Data.TodayTotal
	p.TodayResolved = resp.Data.TodayResolved
	p.Pending = resp.Data.Unresolved
	p.FixRate = resp.Data.FixRate
	return true
}

// CanUpload 是否显示上报入口
func (p *AdminPage) CanUpload() bool {
	return p.env.Auth.HasPermission(permission.AdminUploadProblem)
}

// CanMonitor 是否显示监控入口
func (p *AdminPage) CanMonitor() bool {
	return p.env.Auth.HasPermission(permission.AdminMonitor)
}
