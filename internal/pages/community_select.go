package pages

import (
	"context"
	"strings"

	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// CommunitySelectPage 管理员选择社区
type CommunitySelectPage struct {
	env         *Env
	Communities []models.Community
	Keyword     string
	SelectedID  string
}

// NewCommunitySelectPage 创建社区选择页
func NewCommunitySelectPage(env *Env) *CommunitySelectPage {
	return &CommunitySelectPage{env: env}
}

// Load 读取社区列表, 标记当前选中的社区
func (p *CommunitySelectPage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageCommunitySelect) {
		return false
	}

	resp, err := p.env.API.Community.List(ctx)
	if !p.env.accept("community_list", resp.Code, resp.Message, err, MsgLoadFailed) {
		return false
	}
	p.Communities = resp.Data
	if c := p.env.Session().SelectedCommunity(); c != nil {
		p.SelectedID = c.CommunityID
	}
	return true
}

// Filtered 按名称或地址搜索
func (p *CommunitySelectPage) Filtered() []models.Community {
	kw := strings.TrimSpace(p.Keyword)
	if kw == "" {
		return p.Communities
	}
	var out []models.Community
	for _, c := range p.Communities {
		if strings.Contains(c.CommunityText, kw) || strings.Contains(c.Address, kw) {
			out = append(out, c)
		}
	}
	return out
}

// Select 选中社区
func (p *CommunitySelectPage) Select(communityID string) {
	p.SelectedID = communityID
}

// Confirm 保存选中的社区并返回管理首页
func (p *CommunitySelectPage) Confirm() bool {
	var chosen *models.Community
	for i := range p.Communities {
		if p.Communities[i].CommunityID == p.SelectedID {
			chosen = &p.Communities[i]
			break
		}
	}
	if chosen == nil {
		p.env.Toast(MsgSelectFirst)
		return false
	}

	if err := p.env.Session().SetSelectedCommunity(chosen); err != nil {
		p.env.Logger.WithError(err).Error("保存选中社区失败")
		p.env.Toast(MsgSubmitRetry)
		return false
	}
	p.env.Toast(MsgSelected)
	p.env.Auth.Navigator().SwitchTab(permission.PageAdminHome)
	return true
}
