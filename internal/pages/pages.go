// Package pages 页面逻辑: 权限守卫、取数与表单校验
package pages

import (
	"context"
	"strings"
	"sync"

	"eco-report/internal/api"
	"eco-report/internal/auth"
	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
	"eco-report/internal/session"
	"eco-report/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// 页面提示
const (
	MsgNetworkError   = "网络异常，请稍后重试"
	MsgSubmitSuccess  = "提交成功"
	MsgSubmitFailed   = "提交失败"
	MsgLoadFailed     = "加载失败"
	MsgUploadFailed   = "图片上传失败"
	MsgBadParam       = "参数错误"
	MsgCheckForm      = "请检查填写内容"
	MsgLoggedOut      = "已退出登录"
	MsgSelectFirst    = "请先选择社区"
	MsgSelected       = "选择成功"
	MsgMarkedResolved = "已标记为已整改"
)

// Env 页面共享的依赖
type Env struct {
	Auth   *auth.Manager
	API    *api.Client
	Logger *logrus.Logger
}

// NewEnv 创建页面依赖
func NewEnv(authManager *auth.Manager, client *api.Client, logger *logrus.Logger) *Env {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Env{Auth: authManager, API: client, Logger: logger}
}

// Session 会话
func (e *Env) Session() *session.Service {
	return e.Auth.Session()
}

// Toast 显示提示
func (e *Env) Toast(msg string) {
	e.Auth.Navigator().ShowToast(msg)
}

// accept 检查一次调用的结果, 失败时提示并返回 false
// 登录失效时清除会话并跳转登录页
func (e *Env) accept(op string, code int, message string, err error, fallback string) bool {
	if err != nil {
		e.Logger.WithError(err).WithField("op", op).Error("请求失败")
		e.Toast(MsgNetworkError)
		return false
	}
	if code == dto.CodeSuccess {
		return true
	}

	e.Logger.WithFields(logrus.Fields{"op": op, "code": code, "message": message}).Warn("请求未成功")
	if message == "" {
		message = fallback
	}
	e.Toast(message)

	if code == dto.CodeUnauthorized {
		_ = e.Auth.Logout()
		e.Auth.Navigator().RedirectTo(permission.PageLogin)
	}
	return false
}

// validateForm 返回第一个失败字段对应的提示, 通过时为空
// messages 的键为 "字段.规则" 或 "字段"
func validateForm(form interface{}, messages map[string]string) string {
	err := utils.GetValidator().Struct(form)
	if err == nil {
		return ""
	}
	field, tag, ok := utils.FirstFieldError(err)
	if !ok {
		return MsgCheckForm
	}
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := messages[field]; ok {
		return m
	}
	return MsgCheckForm
}

// ProblemView 问题展示数据
type ProblemView struct {
	models.Problem
	CommunityText string `json:"community_text"`
	TypeText      string `json:"type_text"`
	StatusText    string `json:"status_text"`
	SeverityText  string `json:"severity_text,omitempty"`
}

// catalog 社区和类型名称
type catalog struct {
	communities map[string]string
	types       map[string]string
}

// loadCatalog 并发读取社区和类型, 失败时名称为空但不影响页面
func (e *Env) loadCatalog(ctx context.Context) catalog {
	cat := catalog{communities: map[string]string{}, types: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := e.API.Community.List(gctx)
		if err != nil || !resp.OK() {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, c := range resp.Data {
			cat.communities[c.CommunityID] = c.CommunityText
		}
		return nil
	})
	g.Go(func() error {
		resp, err := e.API.ProblemType.List(gctx)
		if err != nil || !resp.OK() {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, t := range resp.Data {
			cat.types[t.TypeID] = t.TypeText
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.Logger.WithError(err).Warn("加载社区和类型失败")
	}
	return cat
}

func (c catalog) view(p models.Problem) ProblemView {
	v := ProblemView{
		Problem:       p,
		CommunityText: c.communities[p.CommunityID],
		TypeText:      c.types[p.TypeID],
		StatusText:    p.Status.Text(),
	}
	if p.Severity != "" {
		v.SeverityText = p.Severity.Text()
	}
	return v
}

func (c catalog) views(list []models.Problem) []ProblemView {
	out := make([]ProblemView, 0, len(list))
	for _, p := range list {
		out = append(out, c.view(p))
	}
	return out
}

// addPhotos 追加照片, 超出上限的部分丢弃并提示
func (e *Env) addPhotos(photos []string, paths ...string) []string {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if len(photos) >= dto.MaxPhotos {
			e.Toast(dto.MsgPhotoTooMany)
			break
		}
		photos = append(photos, p)
	}
	return photos
}

func removeAt(photos []string, i int) []string {
	if i < 0 || i >= len(photos) {
		return photos
	}
	return append(photos[:i:i], photos[i+1:]...)
}

// communityFor 按角色确定查询的社区: 普通用户为自己的社区, 管理员为选中的社区
func (e *Env) communityFor(u *models.User) string {
	requested := ""
	if c := e.Session().SelectedCommunity(); c != nil {
		requested = c.CommunityID
	}
	return permission.ScopeCommunity(u, requested)
}
