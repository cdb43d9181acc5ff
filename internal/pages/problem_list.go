package pages

import (
	"context"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// Pager 分页加载的问题列表
// 加载失败时保留已有数据
type Pager struct {
	env      *Env
	op       string
	Query    dto.ProblemQuery
	Items    []ProblemView
	Total    int64
	HasMore  bool
	pageSize int
}

func newPager(env *Env, op string, pageSize int) *Pager {
	return &Pager{env: env, op: op, pageSize: pageSize}
}

// Reload 从第一页重新加载
func (p *Pager) Reload(ctx context.Context) bool {
	return p.fetch(ctx, 1)
}

// LoadMore 加载下一页
func (p *Pager) LoadMore(ctx context.Context) bool {
	if !p.HasMore {
		return false
	}
	return p.fetch(ctx, p.Query.Page+1)
}

func (p *Pager) fetch(ctx context.Context, page int) bool {
	q := p.Query
	q.Page = page
	q.PageSize = p.pageSize

	resp, err := p.env.API.Problem.List(ctx, q)
	if !p.env.accept(p.op, resp.Code, resp.Message, err, MsgLoadFailed) {
		return false
	}

	views := p.env.loadCatalog(ctx).views(resp.Data)
	if page == 1 {
		p.Items = views
	} else {
		p.Items = append(p.Items, views...)
	}
	p.Query = q
	if resp.Pagination != nil {
		p.Total = resp.Pagination.Total
		p.HasMore = page < resp.Pagination.TotalPages
	} else {
		p.Total = int64(len(p.Items))
		p.HasMore = false
	}
	return true
}

// replace 用新数据替换列表中的同一问题
func (p *Pager) replace(v ProblemView) {
	for i := range p.Items {
		if p.Items[i].ProblemID == v.ProblemID {
			p.Items[i] = v
			return
		}
	}
}

// ProblemListPage 普通用户的社区问题列表
type ProblemListPage struct {
	*Pager
}

// NewProblemListPage 创建问题列表页
func NewProblemListPage(env *Env) *ProblemListPage {
	return &ProblemListPage{Pager: newPager(env, "problem_list", dto.DefaultPageSize)}
}

// Load 只显示本社区的问题
func (p *ProblemListPage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageProblemList) {
		return false
	}
	p.Query.CommunityID = p.env.communityFor(p.env.Auth.CurrentUser())
	return p.Reload(ctx)
}

// SetStatus 按状态筛选, nil 为全部
func (p *ProblemListPage) SetStatus(ctx context.Context, status *models.ProblemStatus) bool {
	p.Query.Status = status
	return p.Reload(ctx)
}
