package pages

import (
	"context"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// 整改页提示
const (
	MsgLoadRetry       = "加载失败，请重试"
	MsgFixPhotoMissing = "请至少上传一张整改照片"
)

// UploadFixPage 提交整改页
type UploadFixPage struct {
	env         *Env
	Problem     ProblemView
	Photos      []string
	Description string
	Done        bool
}

// NewUploadFixPage 创建整改页
func NewUploadFixPage(env *Env) *UploadFixPage {
	return &UploadFixPage{env: env}
}

// Load 读取待整改的问题
func (p *UploadFixPage) Load(ctx context.Context, problemID string) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageUploadFix) {
		return false
	}
	if strings.TrimSpace(problemID) == "" {
		p.env.Toast(MsgBadParam)
		return false
	}

	resp, err := p.env.API.Problem.Get(ctx, problemID)
	if err != nil {
		p.env.Logger.WithError(err).Error("读取问题失败")
		p.env.Toast(MsgLoadRetry)
		return false
	}
	if !p.env.accept("fix_load", resp.Code, resp.Message, nil, MsgLoadRetry) {
		return false
	}
	p.Problem = p.env.loadCatalog(ctx).view(resp.Data)
	p.Done = resp.Data.Status == models.StatusResolved
	return true
}

// AddPhotos 添加整改照片, 最多9张
func (p *UploadFixPage) AddPhotos(paths ...string) {
	p.Photos = p.env.addPhotos(p.Photos, paths...)
}

// RemovePhoto 删除整改照片
func (p *UploadFixPage) RemovePhoto(i int) {
	p.Photos = removeAt(p.Photos, i)
}

// Submit 上传整改照片并提交
func (p *UploadFixPage) Submit(ctx context.Context) bool {
	if p.Problem.ProblemID == "" {
		p.env.Toast(MsgBadParam)
		return false
	}
	if len(p.Photos) == 0 {
		p.env.Toast(MsgFixPhotoMissing)
		return false
	}

	uploaded, err := p.env.API.Upload.UploadMany(ctx, p.Photos)
	if !p.env.accept("fix_photos", uploaded.Code, uploaded.Message, err, MsgUploadFailed) {
		return false
	}

	req := dto.FixProblemRequest{
		ResolvedImagePaths: uploaded.Data.URLs,
		FixDescription:     strings.TrimSpace(p.Description),
	}
	resp, err := p.env.API.Problem.Fix(ctx, p.Problem.ProblemID, req)
	if err != nil {
		p.env.Logger.WithError(err).Error("提交整改失败")
		p.env.Toast(MsgSubmitRetry)
		return false
	}
	if !p.env.accept("fix_submit", resp.Code, resp.Message, nil, MsgSubmitFailed) {
		return false
	}

	p.Problem.Problem = resp.Data
	p.Problem.StatusText = resp.Data.Status.Text()
	p.Done = true
	p.Photos = nil
	p.env.Toast(MsgSubmitSuccess)
	return true
}
