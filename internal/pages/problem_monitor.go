package pages

import (
	"context"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// ProblemMonitorPage 管理员问题监控页
type ProblemMonitorPage struct {
	*Pager
	Stats dto.ProblemStats
}

// NewProblemMonitorPage 创建监控页
func NewProblemMonitorPage(env *Env) *ProblemMonitorPage {
	return &ProblemMonitorPage{Pager: newPager(env, "problem_monitor", dto.DefaultPageSize)}
}

// Load 默认查看选中社区, 未选中时查看全部
func (p *ProblemMonitorPage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageProblemMonitor) {
		return false
	}
	p.Query.CommunityID = p.env.communityFor(p.env.Auth.CurrentUser())
	return p.refresh(ctx)
}

// SetCommunity 切换社区
func (p *ProblemMonitorPage) SetCommunity(ctx context.Context, communityID string) bool {
	p.Query.CommunityID = permission.ScopeCommunity(p.env.Auth.CurrentUser(), communityID)
	return p.refresh(ctx)
}

// SetStatus 按状态筛选
func (p *ProblemMonitorPage) SetStatus(ctx context.Context, status *models.ProblemStatus) bool {
	p.Query.Status = status
	return p.Reload(ctx)
}

// SetKeyword 按关键字筛选
func (p *ProblemMonitorPage) SetKeyword(ctx context.Context, keyword string) bool {
	p.Query.Keyword = keyword
	return p.Reload(ctx)
}

// MarkResolved 标记问题为已整改
func (p *ProblemMonitorPage) MarkResolved(ctx context.Context, problemID string) bool {
	if !p.env.Auth.HasAnyPermission(permission.StatusUpdate...) {
		p.env.Toast(dto.MsgForbidden)
		return false
	}

	resp, err := p.env.API.Problem.UpdateStatus(ctx, problemID, models.StatusResolved)
	if !p.env.accept("mark_resolved", resp.Code, resp.Message, err, MsgSubmitFailed) {
		return false
	}
	p.replace(p.env.loadCatalog(ctx).view(resp.Data))
	p.env.Toast(MsgMarkedResolved)
	p.loadStats(ctx)
	return true
}

func (p *ProblemMonitorPage) refresh(ctx context.Context) bool {
	if !p.loadStats(ctx) {
		return false
	}
	return p.Reload(ctx)
}

func (p *ProblemMonitorPage) loadStats(ctx context.Context) bool {
	resp, err := p.env.API.Problem.Stats(ctx, p.Query.CommunityID)
	if !p.env.accept("monitor_stats", resp.Code, resp.Message, err, MsgLoadFailed) {
		return false
	}
	p.Stats = resp.Data
	return true
}
