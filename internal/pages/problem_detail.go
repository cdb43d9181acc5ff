package pages

import (
	"context"
	"strings"

	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// ProblemDetailPage 问题详情页
type ProblemDetailPage struct {
	env     *Env
	Problem ProblemView
	CanFix  bool
}

// NewProblemDetailPage 创建详情页
func NewProblemDetailPage(env *Env) *ProblemDetailPage {
	return &ProblemDetailPage{env: env}
}

// Load 读取问题详情
func (p *ProblemDetailPage) Load(ctx context.Context, problemID string) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageProblemDetail) {
		return false
	}
	if strings.TrimSpace(problemID) == "" {
		p.env.Toast(MsgBadParam)
		return false
	}

	resp, err := p.env.API.Problem.Get(ctx, problemID)
	if !p.env.accept("problem_detail", resp.Code, resp.Message, err, MsgLoadFailed) {
		return false
	}
	p.Problem = p.env.loadCatalog(ctx).view(resp.Data)
	p.CanFix = resp.Data.Status == models.StatusUnresolved &&
		p.env.Auth.HasAnyPermission(permission.FixUpload...)
	return true
}
