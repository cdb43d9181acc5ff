package router_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"eco-report/internal/config"
	"eco-report/internal/dto"
	"eco-report/internal/middleware"
	"eco-report/internal/models"
	"eco-report/internal/router"
	"eco-report/internal/seed"
	"eco-report/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	jwt    *utils.JWTManager
	cfg    *config.Config
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.JWT.SecretKey = "router-secret"
	cfg.CORS.Origins = []string{"http://localhost:5173"}
	cfg.Upload.Dir = filepath.Join(t.TempDir(), "uploads")
	cfg.Database.Path = filepath.Join(t.TempDir(), "router.db")

	db, err := models.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, seed.Apply(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())
	return &testServer{
		engine: router.SetupRouter(cfg, jwtManager, logger, db, rdb),
		jwt:    jwtManager,
		cfg:    cfg,
	}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	for _, u := range seed.Users() {
		if u.UserID == userID {
			u := u
			token, err := s.jwt.GenerateToken(&u)
			require.NoError(t, err)
			return token
		}
	}
	t.Fatalf("unknown seed user %s", userID)
	return ""
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/user/info", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.MsgNotLoggedIn, envelope(t, w).Message)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/user/info", nil), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.MsgTokenInvalid, envelope(t, w).Message)

	ghost, err := s.jwt.GenerateToken(&models.User{UserID: "ghost", Role: models.RoleAdmin})
	require.NoError(t, err)
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/user/info", nil), ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/user/info", nil), s.token(t, seed.ResidentUserID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.MsgSuccess, envelope(t, w).Message)
}

func TestBadJSONBody(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/user/send-sms", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "请求参数错误", envelope(t, w).Message)
}

func TestInvalidStatusQuery(t *testing.T) {
	s := newServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/problems?status=abc", nil), s.token(t, seed.AdminUserID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	s := newServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/admin/problems/export", nil), s.token(t, seed.ResidentUserID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.MsgAdminRequired, envelope(t, w).Message)

	admin := s.token(t, seed.AdminUserID)
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/admin/problems/export", nil), admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/admin/problems/export?format=csv&status=1", nil), admin)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/admin/problems/export?format=doc", nil), admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.MsgExportFormat, envelope(t, w).Message)
}

func uploadRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	s := newServer(t)
	token := s.token(t, seed.ResidentUserID)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	w := s.do(uploadRequest(t, "file", "a.png", img.Bytes()), token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response[dto.UploadResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.Data.URL, "uploads/"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/"+resp.Data.URL, nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, img.Bytes(), w.Body.Bytes())

	w = s.do(uploadRequest(t, "image", "a.png", img.Bytes()), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.MsgFileRequired, envelope(t, w).Message)

	w = s.do(uploadRequest(t, "file", "a.png", []byte("plain text")), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.MsgFileType, envelope(t, w).Message)
}

func TestCORSAndRequestID(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/problems", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := s.do(req, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set(middleware.RequestIDHeader, "abc")
	w = s.do(req, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "abc", w.Header().Get(middleware.RequestIDHeader))
}
