// Package api 业务接口, 按配置在模拟后端与真实后端之间切换
package api

import (
	"context"

	"eco-report/internal/api/httpclient"
	"eco-report/internal/api/mock"
	"eco-report/internal/config"
	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus"
)

// ErrTransport 网络请求失败或响应无法解析
var ErrTransport = httpclient.ErrTransport

// StatusError 服务端返回了非预期的HTTP状态
type StatusError = httpclient.StatusError

// UserService 用户接口
type UserService interface {
	SendSMS(ctx context.Context, phone string) (dto.Ack, error)
	LoginByPhone(ctx context.Context, phone, code string) (dto.Response[dto.LoginResult], error)
	LoginByWechat(ctx context.Context, req dto.WechatLoginRequest) (dto.Response[dto.LoginResult], error)
	Info(ctx context.Context) (dto.Response[models.User], error)
	Update(ctx context.Context, req dto.UpdateUserRequest) (dto.Response[models.User], error)
}

// CommunityService 社区接口
type CommunityService interface {
	List(ctx context.Context) (dto.Response[[]models.Community], error)
	Get(ctx context.Context, id string) (dto.Response[models.Community], error)
	Create(ctx context.Context, req dto.CreateCommunityRequest) (dto.Response[models.Community], error)
	Update(ctx context.Context, id string, req dto.UpdateCommunityRequest) (dto.Response[models.Community], error)
	Delete(ctx context.Context, id string) (dto.Ack, error)
}

// ProblemTypeService 问题类型接口
type ProblemTypeService interface {
	List(ctx context.Context) (dto.Response[[]models.ProblemType], error)
	Create(ctx context.Context, req dto.CreateProblemTypeRequest) (dto.Response[models.ProblemType], error)
	Delete(ctx context.Context, id string) (dto.Ack, error)
}

// ProblemService 问题上报接口
type ProblemService interface {
	List(ctx context.Context, q dto.ProblemQuery) (dto.PageResponse[models.Problem], error)
	Get(ctx context.Context, id string) (dto.Response[models.Problem], error)
	Create(ctx context.Context, req dto.CreateProblemRequest) (dto.Response[models.Problem], error)
	UpdateStatus(ctx context.Context, id string, status models.ProblemStatus) (dto.Response[models.Problem], error)
	Fix(ctx context.Context, id string, req dto.FixProblemRequest) (dto.Response[models.Problem], error)
	Stats(ctx context.Context, communityID string) (dto.Response[dto.ProblemStats], error)
}

// UploadService 上传接口
type UploadService interface {
	Upload(ctx context.Context, path string) (dto.Response[dto.UploadResult], error)
	UploadMany(ctx context.Context, paths []string) (dto.Response[dto.BatchUploadResult], error)
}

// Client 全部业务接口
type Client struct {
	User        UserService
	Community   CommunityService
	ProblemType ProblemTypeService
	Problem     ProblemService
	Upload      UploadService
	Mock        bool
}

// New 按 client.enable_mock 组装模拟或真实实现
func New(cfg config.ClientConfig, sess *session.Service, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if cfg.EnableMock {
		logger.WithField("delay", cfg.GetMockDelay()).Info("使用模拟后端")
		return NewMock(mock.New(sess,
			mock.WithDelay(cfg.GetMockDelay()),
			mock.WithLogger(logger),
			mock.WithUploadConcurrency(cfg.UploadConcurrency),
		))
	}

	logger.WithField("base_url", cfg.APIBaseURL).Info("使用真实后端")
	return NewHTTP(httpclient.New(cfg, sess, logger))
}

// NewMock 使用模拟后端
func NewMock(b *mock.Backend) *Client {
	return &Client{
		User:        b.User(),
		Community:   b.Community(),
		ProblemType: b.ProblemType(),
		Problem:     b.Problem(),
		Upload:      b.Upload(),
		Mock:        true,
	}
}

// NewHTTP 使用真实后端
func NewHTTP(c *httpclient.Client) *Client {
	return &Client{
		User:        c.User(),
		Community:   c.Community(),
		ProblemType: c.ProblemType(),
		Problem:     c.Problem(),
		Upload:      c.Upload(),
	}
}
