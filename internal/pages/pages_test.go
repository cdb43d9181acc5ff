package pages

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"eco-report/internal/api"
	"eco-report/internal/api/mock"
	"eco-report/internal/auth"
	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
	"eco-report/internal/seed"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	elevatorProblem = "25bdba8b635e42da9f3cd902af169b9b"
	residentPhone   = "13142947612"
	adminPhone      = "15294945765"
)

type harness struct {
	env   *Env
	nav   *auth.RecordingNavigator
	sess  *session.Service
	store *session.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := session.NewMemoryStore()
	sess := session.NewService(store, logger)
	nav := &auth.RecordingNavigator{}
	manager := auth.NewManager(sess, permission.Default(), nav, logger)
	backend := mock.New(sess, mock.WithDelay(0), mock.WithLogger(logger))
	return &harness{
		env:   NewEnv(manager, api.NewMock(backend), logger),
		nav:   nav,
		sess:  sess,
		store: store,
	}
}

func (h *harness) loginAs(t *testing.T, userID string) {
	t.Helper()
	for _, u := range seed.Users() {
		if u.UserID == userID {
			require.NoError(t, h.sess.Save("mock_token", &u))
			return
		}
	}
	t.Fatalf("unknown seed user %s", userID)
}

func (h *harness) lastEvent(t *testing.T) auth.NavEvent {
	t.Helper()
	e, ok := h.nav.Last()
	require.True(t, ok, "no navigation recorded")
	return e
}

func (h *harness) lastToast(t *testing.T) string {
	t.Helper()
	toasts := h.nav.Toasts()
	require.NotEmpty(t, toasts)
	return toasts[len(toasts)-1]
}

// countingUpload 记录上传调用次数
type countingUpload struct {
	api.UploadService
	calls atomic.Int32
}

func (c *countingUpload) UploadMany(ctx context.Context, paths []string) (dto.Response[dto.BatchUploadResult], error) {
	c.calls.Add(1)
	return c.UploadService.UploadMany(ctx, paths)
}

// flakyProblems 可切换为网络失败的问题接口
type flakyProblems struct {
	api.ProblemService
	creates atomic.Int32
	down    atomic.Bool
}

func (f *flakyProblems) List(ctx context.Context, q dto.ProblemQuery) (dto.PageResponse[models.Problem], error) {
	if f.down.Load() {
		return dto.PageResponse[models.Problem]{}, errors.New("connection refused")
	}
	return f.ProblemService.List(ctx, q)
}

func (f *flakyProblems) Create(ctx context.Context, req dto.CreateProblemRequest) (dto.Response[models.Problem], error) {
	f.creates.Add(1)
	return f.ProblemService.Create(ctx, req)
}

func TestLoginPageValidation(t *testing.T) {
	h := newHarness(t)
	page := NewLoginPage(h.env)
	ctx := context.Background()

	cases := []struct {
		phone, code, want string
	}{
		{"", "", MsgPhoneRequired},
		{"12345", "", MsgPhoneInvalid},
		{residentPhone, "", MsgCodeRequired},
		{residentPhone, "12", MsgCodeInvalid},
		{residentPhone, "12ab56", MsgCodeInvalid},
	}
	for _, tc := range cases {
		page.Phone, page.Code = tc.phone, tc.code
		_, ok := page.Login(ctx)
		assert.False(t, ok)
		assert.Equal(t, tc.want, h.lastToast(t), "phone=%q code=%q", tc.phone, tc.code)
	}
	assert.False(t, h.env.Auth.IsLoggedIn())

	page.Phone = " 1380013 "
	assert.False(t, page.SendCode(ctx))
	assert.Equal(t, MsgPhoneInvalid, h.lastToast(t))
}

func TestLoginPageLandsByRole(t *testing.T) {
	cases := []struct {
		phone string
		want  string
		role  models.Role
	}{
		{residentPhone, permission.PageUserHome, models.RoleUser},
		{adminPhone, permission.PageAdminHome, models.RoleAdmin},
	}
	for _, tc := range cases {
		h := newHarness(t)
		page := NewLoginPage(h.env)
		ctx := context.Background()

		page.Phone = tc.phone
		require.True(t, page.SendCode(ctx))
		assert.True(t, page.CodeSent)
		assert.Equal(t, dto.MsgCodeSent, h.lastToast(t))

		page.Code = mock.VerifyCode
		landing, ok := page.Login(ctx)
		require.True(t, ok)
		assert.Equal(t, tc.want, landing)
		assert.Equal(t, auth.NavEvent{Action: auth.ActionSwitch, Value: tc.want}, h.lastEvent(t))
		assert.Contains(t, h.nav.Toasts(), dto.MsgLoginSuccess)
		assert.Equal(t, tc.role, h.env.Auth.UserRole())
		assert.NotEmpty(t, h.sess.Token())

		assert.True(t, page.OnShow())
	}
}

func TestLoginPageWrongCodeShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	page := NewLoginPage(h.env)

	page.Phone, page.Code = residentPhone, "000000"
	_, ok := page.Login(context.Background())
	assert.False(t, ok)
	assert.Equal(t, dto.MsgInvalidCode, h.lastToast(t))
	assert.False(t, h.env.Auth.IsLoggedIn())
	assert.False(t, page.OnShow())
}

func TestLoginWithWechat(t *testing.T) {
	h := newHarness(t)
	page := NewLoginPage(h.env)
	ctx := context.Background()

	_, ok := page.LoginWithWechat(ctx, "", "", "")
	assert.False(t, ok)
	assert.Equal(t, dto.MsgWechatCodeRequired, h.lastToast(t))

	landing, ok := page.LoginWithWechat(ctx, "wx-123", "", "")
	require.True(t, ok)
	assert.Equal(t, permission.PageUserHome, landing)
	assert.Equal(t, mock.DefaultWechatNickname, h.env.Auth.CurrentUser().Nickname)
}

func TestTabs(t *testing.T) {
	user := Tabs(models.RoleUser)
	require.Len(t, user, 2)
	assert.Equal(t, permission.PageIndex, user[0].Page)
	assert.Equal(t, permission.PageUserHome, user[1].Page)

	admin := Tabs(models.RoleAdmin)
	require.Len(t, admin, 3)
	assert.Equal(t, permission.PageAdminHome, admin[1].Page)
	assert.Equal(t, 1, SelectedTab(admin, permission.PageAdminHome))
	assert.Equal(t, 2, SelectedTab(admin, permission.PageUserHome))
	assert.Equal(t, 0, SelectedTab(admin, permission.PageProblemDetail))
}

func TestIndexRedirectsWhenLoggedOut(t *testing.T) {
	h := newHarness(t)

	assert.False(t, NewIndexPage(h.env).Load(context.Background()))
	assert.Equal(t, auth.NavEvent{Action: auth.ActionRedirect, Value: permission.PageLogin}, h.lastEvent(t))
}

func TestIndexShowsOwnCommunity(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewIndexPage(h.env)

	require.True(t, page.Load(context.Background()))
	assert.Equal(t, int64(4), page.Stats.Total)
	assert.Equal(t, int64(1), page.Stats.Resolved)
	require.Len(t, page.Recent, 4)
	assert.Equal(t, elevatorProblem, page.Recent[0].ProblemID)
	for _, v := range page.Recent {
		assert.Equal(t, seed.SunshineCommunity, v.CommunityID)
		assert.Equal(t, "阳光小区", v.CommunityText)
		assert.NotEmpty(t, v.TypeText)
	}
	assert.Len(t, page.Tabs, 2)
}

func TestUploadPageZeroPhotosSkipsNetwork(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	uploads := &countingUpload{UploadService: h.env.API.Upload}
	problems := &flakyProblems{ProblemService: h.env.API.Problem}
	h.env.API.Upload = uploads
	h.env.API.Problem = problems

	page := NewProblemUploadPage(h.env)
	require.True(t, page.Load(context.Background()))
	page.Form.CommunityID = seed.SunshineCommunity
	page.Form.TypeID = seed.ProblemTypes()[0].TypeID
	page.Form.Title = "垃圾堆放"
	page.Form.Location = "3号楼"

	_, ok := page.Submit(context.Background())
	assert.False(t, ok)
	assert.Equal(t, dto.MsgPhotoRequired, h.lastToast(t))
	assert.Zero(t, uploads.calls.Load())
	assert.Zero(t, problems.creates.Load())
}

func TestUploadPageValidationOrder(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	page := NewProblemUploadPage(h.env)
	ctx := context.Background()

	steps := []struct {
		fill func(f *UploadForm)
		want string
	}{
		{func(f *UploadForm) {}, MsgChooseCommunity},
		{func(f *UploadForm) { f.CommunityID = seed.SunshineCommunity }, MsgChooseType},
		{func(f *UploadForm) { f.TypeID = seed.ProblemTypes()[1].TypeID }, MsgTitleRequired},
		{func(f *UploadForm) { f.Title = "   " }, MsgTitleRequired},
		{func(f *UploadForm) { f.Title = strings.Repeat("长", 129) }, MsgTitleTooLong},
		{func(f *UploadForm) { f.Title = "井盖缺失" }, MsgLocationNeeded},
		{func(f *UploadForm) { f.Location = "小区东门" }, dto.MsgPhotoRequired},
	}
	for _, s := range steps {
		s.fill(&page.Form)
		_, ok := page.Submit(ctx)
		assert.False(t, ok)
		assert.Equal(t, s.want, h.lastToast(t))
	}
}

func TestUploadPageSubmit(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	wutong := seed.Communities()[4]
	require.NoError(t, h.sess.SetSelectedCommunity(&wutong))

	page := NewProblemUploadPage(h.env)
	ctx := context.Background()
	require.True(t, page.Load(ctx))
	assert.Equal(t, seed.WutongCommunity, page.Form.CommunityID)
	assert.Len(t, page.Communities, 5)
	assert.Len(t, page.Types, 8)

	page.Form.TypeID = seed.ProblemTypes()[0].TypeID
	page.Form.Title = "  垃圾堆放 "
	page.Form.Location = "3号楼"
	page.Form.Severity = models.SeverityHigh
	page.AddPhotos("/tmp/a.jpg", "", "/tmp/b.png")

	problem, ok := page.Submit(ctx)
	require.True(t, ok)
	assert.Equal(t, MsgSubmitSuccess, h.lastToast(t))
	assert.Equal(t, "垃圾堆放", problem.Title)
	assert.Equal(t, seed.AdminUserID, problem.UserID)
	require.Len(t, problem.ImagePaths, 2)
	assert.True(t, strings.HasSuffix(problem.ImagePaths[0], "_a.jpg"))
	assert.True(t, strings.HasSuffix(problem.ImagePaths[1], "_b.png"))

	assert.Equal(t, UploadForm{CommunityID: seed.WutongCommunity}, page.Form)
}

func TestAddPhotosCapsAtNine(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	page := NewProblemUploadPage(h.env)

	for i := 0; i < 10; i++ {
		page.AddPhotos("/tmp/p.jpg")
	}
	assert.Len(t, page.Form.Photos, dto.MaxPhotos)
	assert.Equal(t, dto.MsgPhotoTooMany, h.lastToast(t))

	page.RemovePhoto(0)
	page.RemovePhoto(42)
	assert.Len(t, page.Form.Photos, dto.MaxPhotos-1)
}

func TestAdminPagesDenyResidents(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	ctx := context.Background()

	loads := []func() bool{
		func() bool { return NewProblemUploadPage(h.env).Load(ctx) },
		func() bool { return NewProblemMonitorPage(h.env).Load(ctx) },
		func() bool { return NewCommunitySelectPage(h.env).Load(ctx) },
		func() bool { return NewAdminPage(h.env).Load(ctx) },
	}
	for _, load := range loads {
		h.nav.Reset()
		assert.False(t, load())
		assert.Equal(t, []string{auth.MsgNoPermission}, h.nav.Toasts())
		assert.Equal(t, auth.NavEvent{Action: auth.ActionSwitch, Value: permission.PageIndex}, h.lastEvent(t))
	}
}

func TestProblemListPaging(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewProblemListPage(h.env)
	page.pageSize = 3
	ctx := context.Background()

	require.True(t, page.Load(ctx))
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(4), page.Total)
	assert.True(t, page.HasMore)

	require.True(t, page.LoadMore(ctx))
	assert.Len(t, page.Items, 4)
	assert.False(t, page.HasMore)
	assert.False(t, page.LoadMore(ctx))

	require.True(t, page.SetStatus(ctx, dto.StatusFilter(models.StatusResolved)))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "已整改", page.Items[0].StatusText)
}

func TestProblemListKeepsItemsOnFailure(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	problems := &flakyProblems{ProblemService: h.env.API.Problem}
	h.env.API.Problem = problems
	page := NewProblemListPage(h.env)
	page.pageSize = 2
	ctx := context.Background()

	require.True(t, page.Load(ctx))
	before := append([]ProblemView(nil), page.Items...)

	problems.down.Store(true)
	assert.False(t, page.LoadMore(ctx))
	assert.Equal(t, before, page.Items)
	assert.Equal(t, 1, page.Query.Page)
	assert.Equal(t, MsgNetworkError, h.lastToast(t))
	assert.True(t, h.env.Auth.IsLoggedIn())
}

func TestProblemDetail(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewProblemDetailPage(h.env)
	ctx := context.Background()

	assert.False(t, page.Load(ctx, " "))
	assert.Equal(t, MsgBadParam, h.lastToast(t))

	require.True(t, page.Load(ctx, elevatorProblem))
	assert.Equal(t, "阳光小区", page.Problem.CommunityText)
	assert.Equal(t, "违章搭建", page.Problem.TypeText)
	assert.Equal(t, "未整改", page.Problem.StatusText)
	assert.True(t, page.CanFix)
}

func TestProblemDetailOtherCommunity(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.OtherUserID)

	assert.False(t, NewProblemDetailPage(h.env).Load(context.Background(), elevatorProblem))
	assert.Equal(t, dto.MsgProblemForbidden, h.lastToast(t))
}

func TestUploadFix(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewUploadFixPage(h.env)
	ctx := context.Background()

	require.True(t, page.Load(ctx, elevatorProblem))
	assert.False(t, page.Done)

	assert.False(t, page.Submit(ctx))
	assert.Equal(t, MsgFixPhotoMissing, h.lastToast(t))

	page.AddPhotos("/tmp/fixed.jpg")
	page.Description = " 已更换 "
	require.True(t, page.Submit(ctx))
	assert.True(t, page.Done)
	assert.Equal(t, models.StatusResolved, page.Problem.Status)
	assert.Equal(t, "已整改", page.Problem.StatusText)
	assert.Equal(t, "已更换", page.Problem.FixDescription)
	assert.Equal(t, seed.ResidentUserID, page.Problem.ResolvedBy)
	assert.Empty(t, page.Photos)
	assert.Equal(t, MsgSubmitSuccess, h.lastToast(t))

	page.AddPhotos("/tmp/again.jpg")
	assert.False(t, page.Submit(ctx))
	assert.Equal(t, dto.MsgAlreadyFixed, h.lastToast(t))
}

func TestUploadFixMissingProblem(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewUploadFixPage(h.env)

	assert.False(t, page.Load(context.Background(), "nope"))
	assert.Equal(t, dto.MsgProblemNotFound, h.lastToast(t))
	assert.False(t, page.Submit(context.Background()))
	assert.Equal(t, MsgBadParam, h.lastToast(t))
}

func TestMonitorMarkResolved(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	page := NewProblemMonitorPage(h.env)
	ctx := context.Background()

	require.True(t, page.Load(ctx))
	assert.Equal(t, int64(5), page.Stats.Total)
	assert.Equal(t, int64(4), page.Stats.Unresolved)
	require.Len(t, page.Items, 5)

	require.True(t, page.MarkResolved(ctx, elevatorProblem))
	assert.Equal(t, MsgMarkedResolved, h.lastToast(t))
	assert.Equal(t, int64(3), page.Stats.Unresolved)
	for _, v := range page.Items {
		if v.ProblemID == elevatorProblem {
			assert.Equal(t, models.StatusResolved, v.Status)
			assert.Equal(t, "已整改", v.StatusText)
		}
	}

	require.True(t, page.SetCommunity(ctx, seed.WutongCommunity))
	assert.Zero(t, page.Stats.Total)
	assert.Empty(t, page.Items)

	require.True(t, page.SetCommunity(ctx, ""))
	require.True(t, page.SetKeyword(ctx, "积水"))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "积水严重", page.Items[0].Title)
}

func TestCommunitySelectFlow(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.AdminUserID)
	page := NewCommunitySelectPage(h.env)
	ctx := context.Background()

	require.True(t, page.Load(ctx))
	assert.Len(t, page.Filtered(), 5)

	assert.False(t, page.Confirm())
	assert.Equal(t, MsgSelectFirst, h.lastToast(t))

	page.Keyword = "梧桐"
	require.Len(t, page.Filtered(), 1)
	page.Select(page.Filtered()[0].CommunityID)
	require.True(t, page.Confirm())
	assert.Contains(t, h.nav.Toasts(), MsgSelected)
	assert.Equal(t, auth.NavEvent{Action: auth.ActionSwitch, Value: permission.PageAdminHome}, h.lastEvent(t))

	selected := h.sess.SelectedCommunity()
	require.NotNil(t, selected)
	assert.Equal(t, seed.WutongCommunity, selected.CommunityID)

	admin := NewAdminPage(h.env)
	require.True(t, admin.Load(ctx))
	require.NotNil(t, admin.Community)
	assert.Equal(t, "梧桐苑", admin.Community.CommunityText)
	assert.Zero(t, admin.Pending)
	assert.Equal(t, 1, admin.Selected)
	assert.True(t, admin.CanUpload())
	assert.True(t, admin.CanMonitor())

	reopened := NewCommunitySelectPage(h.env)
	require.True(t, reopened.Load(ctx))
	assert.Equal(t, seed.WutongCommunity, reopened.SelectedID)
}

func TestUserHomeLoadAndLogout(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)
	page := NewUserHomePage(h.env)
	ctx := context.Background()

	require.True(t, page.Load(ctx))
	assert.Equal(t, "施玉兰", page.User.Nickname)
	assert.Equal(t, "阳光小区", page.Community)
	assert.Equal(t, int64(4), page.Stats.Total)
	assert.Equal(t, 1, page.Selected)

	require.True(t, page.UpdateProfile(ctx, "小施", ""))
	assert.Equal(t, "小施", h.env.Auth.CurrentUser().Nickname)
	assert.Equal(t, dto.MsgUpdated, h.lastToast(t))

	require.True(t, page.Logout())
	assert.Contains(t, h.nav.Toasts(), MsgLoggedOut)
	assert.Equal(t, auth.NavEvent{Action: auth.ActionRedirect, Value: permission.PageLogin}, h.lastEvent(t))
	assert.False(t, h.env.Auth.IsLoggedIn())
	assert.Zero(t, h.store.Len())
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, seed.ResidentUserID)

	ok := h.env.accept("probe", dto.CodeUnauthorized, "", nil, MsgLoadFailed)
	assert.False(t, ok)
	assert.Equal(t, []string{MsgLoadFailed}, h.nav.Toasts())
	assert.Equal(t, auth.NavEvent{Action: auth.ActionRedirect, Value: permission.PageLogin}, h.lastEvent(t))
	assert.False(t, h.env.Auth.IsLoggedIn())
}
