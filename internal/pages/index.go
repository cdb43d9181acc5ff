package pages

import (
	"context"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// RecentSize 首页展示的最近问题数
const RecentSize = 5

// IndexPage 首页
type IndexPage struct {
	env    *Env
	User   *models.User
	Stats  dto.ProblemStats
	Recent []ProblemView
	Tabs   []Tab
}

// NewIndexPage 创建首页
func NewIndexPage(env *Env) *IndexPage {
	return &IndexPage{env: env}
}

// Load 未登录时跳转登录页
func (p *IndexPage) Load(ctx context.Context) bool {
	if !p.env.Auth.IsLoggedIn() {
		p.env.Auth.Navigator().RedirectTo(permission.PageLogin)
		return false
	}

	p.User = p.env.Auth.CurrentUser()
	p.Tabs = Tabs(p.User.Role)
	communityID := p.env.communityFor(p.User)

	stats, err := p.env.API.Problem.Stats(ctx, communityID)
	if !p.env.accept("index_stats", stats.Code, stats.Message, err, MsgLoadFailed) {
		return false
	}
	p.Stats = stats.Data

	list, err := p.env.API.Problem.List(ctx, dto.ProblemQuery{CommunityID: communityID, Page: 1, PageSize: RecentSize})
	if !p.env.accept("index_recent", list.Code, list.Message, err, MsgLoadFailed) {
		return false
	}
	p.Recent = p.env.loadCatalog(ctx).views(list.Data)
	return true
}
