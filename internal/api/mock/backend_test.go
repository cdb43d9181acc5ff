package mock

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/seed"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBackend(t *testing.T, opts ...Option) (*Backend, *session.Service, *fakeClock) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	sess := session.NewService(session.NewMemoryStore(), logger)
	clock := &fakeClock{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local)}
	opts = append([]Option{WithDelay(0), WithClock(clock.Now), WithLogger(logger)}, opts...)
	return New(sess, opts...), sess, clock
}

func loginAs(t *testing.T, sess *session.Service, userID string) models.User {
	t.Helper()
	for _, u := range seed.Users() {
		if u.UserID == userID {
			require.NoError(t, sess.Save("mock_token", &u))
			return u
		}
	}
	t.Fatalf("unknown seed user %s", userID)
	return models.User{}
}

func TestLoginUnknownPhoneFallsBackToAdmin(t *testing.T) {
	b, _, _ := newBackend(t)

	resp, err := b.User().LoginByPhone(context.Background(), "13800000000", VerifyCode)
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, models.RoleAdmin, resp.Data.User.Role)
}

func TestLoginKnownPhone(t *testing.T) {
	b, _, _ := newBackend(t)

	resp, err := b.User().LoginByPhone(context.Background(), "13142947612", VerifyCode)
	require.NoError(t, err)
	assert.Equal(t, seed.ResidentUserID, resp.Data.User.UserID)
	assert.Equal(t, models.RoleUser, resp.Data.User.Role)
}

func TestLoginRejectsBadInput(t *testing.T) {
	b, _, _ := newBackend(t)

	resp, err := b.User().LoginByPhone(context.Background(), "13800000000", "000000")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeBadRequest, resp.Code)
	assert.Equal(t, dto.MsgInvalidCode, resp.Message)

	resp, err = b.User().LoginByPhone(context.Background(), "12345", VerifyCode)
	require.NoError(t, err)
	assert.Equal(t, dto.MsgInvalidPhone, resp.Message)

	ack, err := b.User().SendSMS(context.Background(), "1380000")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeBadRequest, ack.Code)
}

func TestWechatLoginCreatesUserOnce(t *testing.T) {
	b, _, _ := newBackend(t)
	ctx := context.Background()

	first, err := b.User().LoginByWechat(ctx, dto.WechatLoginRequest{Code: "wx-code"})
	require.NoError(t, err)
	require.True(t, first.OK())
	assert.Equal(t, models.RoleUser, first.Data.User.Role)
	assert.Equal(t, DefaultWechatNickname, first.Data.User.Nickname)
	assert.Equal(t, seed.DefaultCommunity, first.Data.User.CommunityID)

	second, err := b.User().LoginByWechat(ctx, dto.WechatLoginRequest{Code: "wx-code"})
	require.NoError(t, err)
	assert.Equal(t, first.Data.User.UserID, second.Data.User.UserID)

	missing, err := b.User().LoginByWechat(ctx, dto.WechatLoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeBadRequest, missing.Code)
}

func TestUpdateUserTouchesTimestamp(t *testing.T) {
	b, sess, clock := newBackend(t)
	loginAs(t, sess, seed.ResidentUserID)
	clock.Advance(time.Hour)

	name := "新昵称"
	resp, err := b.User().Update(context.Background(), dto.UpdateUserRequest{Nickname: &name})
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, name, resp.Data.Nickname)
	assert.Equal(t, clock.Now(), resp.Data.UpdatedAt)

	info, err := b.User().Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, name, info.Data.Nickname)
}

func TestRequiresLogin(t *testing.T) {
	b, _, _ := newBackend(t)
	ctx := context.Background()

	list, err := b.Problem().List(ctx, dto.ProblemQuery{})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeUnauthorized, list.Code)

	info, err := b.User().Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.CodeUnauthorized, info.Code)
}

func TestProblemRoundTrip(t *testing.T) {
	b, sess, clock := newBackend(t)
	admin := loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()

	req := dto.CreateProblemRequest{
		CommunityID: seed.WutongCommunity,
		TypeID:      "eba803f7de074eca8da3ee01d61b1850",
		Title:       "垃圾堆放",
		Description: "楼道堆满杂物",
		Location:    "3号楼",
		Severity:    models.SeverityHigh,
		ImagePaths:  []string{"uploads/a.jpg", "uploads/b.jpg"},
	}
	created, err := b.Problem().Create(ctx, req)
	require.NoError(t, err)
	require.True(t, created.OK(), created.Message)
	require.Len(t, created.Data.ProblemID, 32)

	got, err := b.Problem().Get(ctx, created.Data.ProblemID)
	require.NoError(t, err)
	require.True(t, got.OK())

	want := models.Problem{
		ProblemID:   created.Data.ProblemID,
		UserID:      admin.UserID,
		CommunityID: req.CommunityID,
		TypeID:      req.TypeID,
		Severity:    req.Severity,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImagePaths:  models.StringList(req.ImagePaths),
		Status:      models.StatusUnresolved,
		CreatedAt:   clock.Now(),
		UpdatedAt:   clock.Now(),
	}
	assert.Equal(t, want, got.Data)
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)

	ids := map[string]bool{}
	for i := 0; i < 20; i++ {
		resp, err := b.Community().Create(context.Background(), dto.CreateCommunityRequest{CommunityText: "社区" + string(rune('A'+i))})
		require.NoError(t, err)
		require.True(t, resp.OK())
		assert.False(t, ids[resp.Data.CommunityID])
		ids[resp.Data.CommunityID] = true
	}
}

func TestCreateProblemValidation(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()

	base := dto.CreateProblemRequest{
		CommunityID: seed.SunshineCommunity,
		TypeID:      "eba803f7de074eca8da3ee01d61b1850",
		Title:       "t",
		Location:    "l",
		ImagePaths:  []string{"p"},
	}

	noPhotos := base
	noPhotos.ImagePaths = nil
	resp, err := b.Problem().Create(ctx, noPhotos)
	require.NoError(t, err)
	assert.Equal(t, dto.MsgPhotoRequired, resp.Message)

	badCommunity := base
	badCommunity.CommunityID = "nope"
	resp, err = b.Problem().Create(ctx, badCommunity)
	require.NoError(t, err)
	assert.Equal(t, dto.MsgCommunityNotFound, resp.Message)

	noTitle := base
	noTitle.Title = "  "
	resp, err = b.Problem().Create(ctx, noTitle)
	require.NoError(t, err)
	assert.Equal(t, dto.CodeBadRequest, resp.Code)
}

func TestUserListScopedToOwnCommunity(t *testing.T) {
	b, sess, _ := newBackend(t)
	user := loginAs(t, sess, seed.ResidentUserID)

	resp, err := b.Problem().List(context.Background(), dto.ProblemQuery{})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.NotEmpty(t, resp.Data)
	for _, p := range resp.Data {
		assert.Equal(t, user.CommunityID, p.CommunityID)
	}

	// 显式指定其他社区也无效
	resp, err = b.Problem().List(context.Background(), dto.ProblemQuery{CommunityID: "b5ed6c2b4e1d42638c4a57084a12f240"})
	require.NoError(t, err)
	for _, p := range resp.Data {
		assert.Equal(t, user.CommunityID, p.CommunityID)
	}
}

func TestAdminListSeesAllAndPaginates(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)

	resp, err := b.Problem().List(context.Background(), dto.ProblemQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(len(seed.Problems())), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Len(t, resp.Data, 2)
	assert.True(t, resp.Data[0].CreatedAt.After(resp.Data[1].CreatedAt))

	resolved, err := b.Problem().List(context.Background(), dto.ProblemQuery{Status: dto.StatusFilter(models.StatusResolved)})
	require.NoError(t, err)
	require.Len(t, resolved.Data, 1)
	assert.Equal(t, "cf649bf6240a463b99945157a5e20fe4", resolved.Data[0].ProblemID)
}

func TestUserCannotReadOtherCommunity(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.OtherUserID)

	resp, err := b.Problem().Get(context.Background(), "25bdba8b635e42da9f3cd902af169b9b")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeForbidden, resp.Code)
}

func TestNotFound(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()

	p, err := b.Problem().Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeNotFound, p.Code)
	assert.Equal(t, dto.MsgProblemNotFound, p.Message)

	c, err := b.Community().Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeNotFound, c.Code)

	ack, err := b.ProblemType().Delete(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, dto.CodeNotFound, ack.Code)
}

func TestUpdateStatusIdempotent(t *testing.T) {
	b, sess, clock := newBackend(t)
	admin := loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()
	id := "25bdba8b635e42da9f3cd902af169b9b"

	first, err := b.Problem().UpdateStatus(ctx, id, models.StatusResolved)
	require.NoError(t, err)
	require.True(t, first.OK())
	assert.Equal(t, admin.UserID, first.Data.ResolvedBy)
	require.NotNil(t, first.Data.ResolvedAt)

	clock.Advance(10 * time.Minute)
	second, err := b.Problem().UpdateStatus(ctx, id, models.StatusResolved)
	require.NoError(t, err)
	require.True(t, second.OK())
	assert.Equal(t, first.Data, second.Data)

	revert, err := b.Problem().UpdateStatus(ctx, id, models.StatusUnresolved)
	require.NoError(t, err)
	assert.Equal(t, dto.CodeConflict, revert.Code)

	invalid, err := b.Problem().UpdateStatus(ctx, id, models.ProblemStatus(7))
	require.NoError(t, err)
	assert.Equal(t, dto.CodeBadRequest, invalid.Code)
}

func TestUserCannotUpdateStatus(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.ResidentUserID)

	resp, err := b.Problem().UpdateStatus(context.Background(), "25bdba8b635e42da9f3cd902af169b9b", models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, dto.CodeForbidden, resp.Code)
}

func TestFixByResident(t *testing.T) {
	b, sess, clock := newBackend(t)
	user := loginAs(t, sess, seed.ResidentUserID)
	ctx := context.Background()
	id := "5d5f69609cb34ac982c13862ed366afe"

	none, err := b.Problem().Fix(ctx, id, dto.FixProblemRequest{})
	require.NoError(t, err)
	assert.Equal(t, dto.MsgPhotoRequired, none.Message)

	resp, err := b.Problem().Fix(ctx, id, dto.FixProblemRequest{ResolvedImagePaths: []string{"uploads/fix.jpg"}, FixDescription: "已更换灯泡"})
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, models.StatusResolved, resp.Data.Status)
	assert.Equal(t, user.UserID, resp.Data.ResolvedBy)
	assert.Equal(t, clock.Now(), *resp.Data.ResolvedAt)
	assert.Equal(t, models.StringList{"uploads/fix.jpg"}, resp.Data.ResolvedImagePaths)

	again, err := b.Problem().Fix(ctx, id, dto.FixProblemRequest{ResolvedImagePaths: []string{"uploads/x.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeConflict, again.Code)
}

func TestCatalogRequiresAdmin(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.ResidentUserID)
	ctx := context.Background()

	c, err := b.Community().Create(ctx, dto.CreateCommunityRequest{CommunityText: "新社区"})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeForbidden, c.Code)

	pt, err := b.ProblemType().Create(ctx, dto.CreateProblemTypeRequest{TypeText: "新类型"})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeForbidden, pt.Code)
}

func TestCommunityLifecycle(t *testing.T) {
	b, sess, clock := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()

	dup, err := b.Community().Create(ctx, dto.CreateCommunityRequest{CommunityText: "阳光小区"})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeConflict, dup.Code)

	created, err := b.Community().Create(ctx, dto.CreateCommunityRequest{CommunityText: "翠湖苑"})
	require.NoError(t, err)
	require.True(t, created.OK())

	clock.Advance(time.Minute)
	updated, err := b.Community().Update(ctx, created.Data.CommunityID, dto.UpdateCommunityRequest{CommunityText: "翠湖新苑"})
	require.NoError(t, err)
	require.True(t, updated.OK())
	assert.Equal(t, "翠湖新苑", updated.Data.CommunityText)
	assert.True(t, updated.Data.UpdatedAt.After(created.Data.UpdatedAt))

	list, err := b.Community().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Data, len(seed.Communities())+1)

	del, err := b.Community().Delete(ctx, created.Data.CommunityID)
	require.NoError(t, err)
	assert.True(t, del.OK())

	list, err = b.Community().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Data, len(seed.Communities()))
}

func TestStats(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)

	resp, err := b.Problem().Stats(context.Background(), seed.SunshineCommunity)
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, int64(4), resp.Data.Total)
	assert.Equal(t, int64(1), resp.Data.Resolved)
	assert.Equal(t, int64(3), resp.Data.Unresolved)
	assert.Equal(t, 25.0, resp.Data.FixRate)
	assert.Zero(t, resp.Data.TodayTotal)
}

func TestUploadManyPreservesOrder(t *testing.T) {
	b, sess, _ := newBackend(t, WithDelay(20*time.Millisecond))
	loginAs(t, sess, seed.ResidentUserID)

	paths := []string{"/tmp/a.jpg", "/tmp/b.jpg", "/tmp/c.jpg", "/tmp/d.jpg"}
	resp, err := b.Upload().UploadMany(context.Background(), paths)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Len(t, resp.Data.URLs, len(paths))
	for i, url := range resp.Data.URLs {
		assert.True(t, strings.HasSuffix(url, "_"+filepath.Base(paths[i])), url)
	}
}

func TestUploadManyFailsWhole(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.ResidentUserID)

	resp, err := b.Upload().UploadMany(context.Background(), []string{"a.jpg", " ", "c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, dto.CodeInternal, resp.Code)
	assert.Empty(t, resp.Data.URLs)
}

func TestDelayHonoursContext(t *testing.T) {
	b, _, _ := newBackend(t, WithDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.Community().List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	b, sess, _ := newBackend(t)
	loginAs(t, sess, seed.AdminUserID)
	ctx := context.Background()
	id := "25bdba8b635e42da9f3cd902af169b9b"

	resp, err := b.Problem().Get(ctx, id)
	require.NoError(t, err)
	resp.Data.ImagePaths[0] = "tampered"

	again, err := b.Problem().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "uploads/b0da2a3e406c.jpg", again.Data.ImagePaths[0])
}
