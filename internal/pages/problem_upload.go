package pages

import (
	"context"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// 上报页提示
const (
	MsgChooseCommunity = "请选择社区"
	MsgChooseType      = "请选择问题类型"
	MsgTitleRequired   = "请填写问题标题"
	MsgTitleTooLong    = "问题标题不能超过128个字"
	MsgLocationNeeded  = "请填写问题位置"
	MsgSubmitRetry     = "提交失败，请重试"
)

var uploadMessages = map[string]string{
	"CommunityID": MsgChooseCommunity,
	"TypeID":      MsgChooseType,
	"Title.max":   MsgTitleTooLong,
	"Title":       MsgTitleRequired,
	"Location":    MsgLocationNeeded,
	"Severity":    dto.MsgProblemInvalid,
	"Photos.max":  dto.MsgPhotoTooMany,
	"Photos":      dto.MsgPhotoRequired,
}

// UploadForm 上报表单
type UploadForm struct {
	CommunityID string          `validate:"required"`
	TypeID      string          `validate:"required"`
	Title       string          `validate:"required,max=128"`
	Location    string          `validate:"required"`
	Severity    models.Severity `validate:"omitempty,oneof=low medium high"`
	Photos      []string        `validate:"min=1,max=9"`
	Description string
	Latitude    float64
	Longitude   float64
}

// ProblemUploadPage 管理员上报问题页
type ProblemUploadPage struct {
	env         *Env
	Form        UploadForm
	Communities []models.Community
	Types       []models.ProblemType
}

// NewProblemUploadPage 创建上报页
func NewProblemUploadPage(env *Env) *ProblemUploadPage {
	return &ProblemUploadPage{env: env}
}

// Load 读取社区和类型, 默认选中会话中的社区
func (p *ProblemUploadPage) Load(ctx context.Context) bool {
	if !p.env.Auth.CheckPagePermission(permission.PageProblemUpload) {
		return false
	}

	communities, err := p.env.API.Community.List(ctx)
	if !p.env.accept("upload_communities", communities.Code, communities.Message, err, MsgLoadFailed) {
		return false
	}
	types, err := p.env.API.ProblemType.List(ctx)
	if !p.env.accept("upload_types", types.Code, types.Message, err, MsgLoadFailed) {
		return false
	}
	p.Communities = communities.Data
	p.Types = types.Data

	if p.Form.CommunityID == "" {
		if c := p.env.Session().SelectedCommunity(); c != nil {
			p.Form.CommunityID = c.CommunityID
		}
	}
	return true
}

// AddPhotos 添加照片, 最多9张
func (p *ProblemUploadPage) AddPhotos(paths ...string) {
	p.Form.Photos = p.env.addPhotos(p.Form.Photos, paths...)
}

// RemovePhoto 删除照片
func (p *ProblemUploadPage) RemovePhoto(i int) {
	p.Form.Photos = removeAt(p.Form.Photos, i)
}

// Submit 校验表单, 上传照片后提交问题
// 校验失败时不发起任何请求
func (p *ProblemUploadPage) Submit(ctx context.Context) (*models.Problem, bool) {
	f := &p.Form
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	if msg := validateForm(*f, uploadMessages); msg != "" {
		p.env.Toast(msg)
		return nil, false
	}

	uploaded, err := p.env.API.Upload.UploadMany(ctx, f.Photos)
	if !p.env.accept("upload_photos", uploaded.Code, uploaded.Message, err, MsgUploadFailed) {
		return nil, false
	}

	req := dto.CreateProblemRequest{
		CommunityID: f.CommunityID,
		TypeID:      f.TypeID,
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Severity:    f.Severity,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		ImagePaths:  uploaded.Data.URLs,
	}
	resp, err := p.env.API.Problem.Create(ctx, req)
	if err != nil {
		p.env.Logger.WithError(err).Error("提交问题失败")
		p.env.Toast(MsgSubmitRetry)
		return nil, false
	}
	if !p.env.accept("create_problem", resp.Code, resp.Message, nil, MsgSubmitFailed) {
		return nil, false
	}

	p.env.Toast(MsgSubmitSuccess)
	p.Form = UploadForm{CommunityID: f.CommunityID}
	problem := resp.Data
	return &problem, true
}
