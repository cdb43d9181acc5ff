package main

import (
	"context"
	"fmt"

	"eco-report/internal/models"
	"eco-report/internal/pages"

	"github.com/spf13/pflag"
)

// result 页面状态与执行结果
type result struct {
	OK   bool        `json:"ok"`
	Page string      `json:"page,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

func done(ok bool, data interface{}) (interface{}, error) {
	return result{OK: ok, Data: data}, nil
}

func flags(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

// statusFlag 解析 --status, 未指定时返回 nil
func statusFlag(fs *pflag.FlagSet, value int) (*models.ProblemStatus, error) {
	if !fs.Changed("status") {
		return nil, nil
	}
	s := models.ProblemStatus(value)
	if !s.Valid() {
		return nil, fmt.Errorf("无效的状态: %d", value)
	}
	return &s, nil
}

func oneArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("需要%s", what)
	}
	return fs.Arg(0), nil
}

func sendCode(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("send-code")
	page := pages.NewLoginPage(env)
	fs.StringVar(&page.Phone, "phone", "", "手机号")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return done(page.SendCode(ctx), nil)
}

func login(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("login")
	page := pages.NewLoginPage(env)
	fs.StringVar(&page.Phone, "phone", "", "手机号")
	fs.StringVar(&page.Code, "code", "", "验证码")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	landing, ok := page.Login(ctx)
	return result{OK: ok, Page: landing, Data: env.Session().User()}, nil
}

func wechatLogin(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("wechat")
	code := fs.String("code", "", "微信登录凭证")
	nickname := fs.String("nickname", "", "昵称")
	avatar := fs.String("avatar", "", "头像地址")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	landing, ok := pages.NewLoginPage(env).LoginWithWechat(ctx, *code, *nickname, *avatar)
	return result{OK: ok, Page: landing, Data: env.Session().User()}, nil
}

func home(ctx context.Context, env *pages.Env, _ []string) (interface{}, error) {
	page := pages.NewIndexPage(env)
	return done(page.Load(ctx), page)
}

func me(ctx context.Context, env *pages.Env, _ []string) (interface{}, error) {
	page := pages.NewUserHomePage(env)
	return done(page.Load(ctx), page)
}

func profile(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("profile")
	nickname := fs.String("nickname", "", "昵称")
	avatar := fs.String("avatar", "", "头像地址")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	page := pages.NewUserHomePage(env)
	if !page.Load(ctx) {
		return done(false, nil)
	}
	return done(page.UpdateProfile(ctx, *nickname, *avatar), page.User)
}

func logout(_ context.Context, env *pages.Env, _ []string) (interface{}, error) {
	return done(pages.NewUserHomePage(env).Logout(), nil)
}

func list(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("list")
	status := fs.Int("status", 0, "状态 0未整改 1已整改")
	more := fs.Int("page", 1, "加载到第几页")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	filter, err := statusFlag(fs, *status)
	if err != nil {
		return nil, err
	}

	page := pages.NewProblemListPage(env)
	ok := page.Load(ctx)
	if ok && filter != nil {
		ok = page.SetStatus(ctx, filter)
	}
	for i := 1; ok && i < *more && page.HasMore; i++ {
		ok = page.LoadMore(ctx)
	}
	return done(ok, page.Pager)
}

func detail(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("detail")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	id, err := oneArg(fs, "问题ID")
	if err != nil {
		return nil, err
	}
	page := pages.NewProblemDetailPage(env)
	return done(page.Load(ctx, id), page)
}

func fix(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("fix")
	photos := fs.StringArray("photo", nil, "整改照片, 可重复")
	desc := fs.String("desc", "", "整改说明")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	id, err := oneArg(fs, "问题ID")
	if err != nil {
		return nil, err
	}

	page := pages.NewUploadFixPage(env)
	if !page.Load(ctx, id) {
		return done(false, nil)
	}
	page.AddPhotos(*photos...)
	page.Description = *desc
	return done(page.Submit(ctx), page.Problem)
}

func admin(ctx context.Context, env *pages.Env, _ []string) (interface{}, error) {
	page := pages.NewAdminPage(env)
	return done(page.Load(ctx), page)
}

func communities(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("communities")
	keyword := fs.String("keyword", "", "按名称过滤")
	selected := fs.String("select", "", "选择并确认社区")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	page := pages.NewCommunitySelectPage(env)
	if !page.Load(ctx) {
		return done(false, nil)
	}
	if *selected != "" {
		page.Select(*selected)
		return done(page.Confirm(), env.Session().SelectedCommunity())
	}
	page.Keyword = *keyword
	return done(true, page.Filtered())
}

func upload(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	page := pages.NewProblemUploadPage(env)
	if !page.Load(ctx) {
		return done(false, nil)
	}

	fs := flags("upload")
	form := &page.Form
	fs.StringVar(&form.CommunityID, "community", form.CommunityID, "社区ID")
	fs.StringVar(&form.TypeID, "type", "", "问题类型ID")
	fs.StringVar(&form.Title, "title", "", "标题")
	fs.StringVar(&form.Location, "location", "", "位置")
	fs.StringVar(&form.Description, "desc", "", "描述")
	severity := fs.String("severity", "", "严重程度 low|medium|high")
	fs.Float64Var(&form.Latitude, "lat", 0, "纬度")
	fs.Float64Var(&form.Longitude, "lng", 0, "经度")
	photos := fs.StringArray("photo", nil, "问题照片, 可重复")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	form.Severity = models.Severity(*severity)
	page.AddPhotos(*photos...)

	p, ok := page.Submit(ctx)
	return done(ok, p)
}

func monitor(ctx context.Context, env *pages.Env, args []string) (interface{}, error) {
	fs := flags("monitor")
	community := fs.String("community", "", "社区ID")
	status := fs.Int("status", 0, "状态 0未整改 1已整改")
	keyword := fs.String("keyword", "", "关键字")
	resolve := fs.String("resolve", "", "标记为已整改的问题ID")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	filter, err := statusFlag(fs, *status)
	if err != nil {
		return nil, err
	}

	page := pages.NewProblemMonitorPage(env)
	if !page.Load(ctx) {
		return done(false, nil)
	}
	ok := true
	if *community != "" {
		ok = page.SetCommunity(ctx, *community)
	}
	if ok && filter != nil {
		ok = page.SetStatus(ctx, filter)
	}
	if ok && *keyword != "" {
		ok = page.SetKeyword(ctx, *keyword)
	}
	if ok && *resolve != "" {
		ok = page.MarkResolved(ctx, *resolve)
	}
	return done(ok, page)
}
