// Package httpclient 真实后端的HTTP客户端
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"eco-report/internal/config"
	"eco-report/internal/session"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// ErrTransport 网络请求失败或响应无法解析
var ErrTransport = errors.New("网络请求失败")

// StatusError 服务端返回了非预期的HTTP状态
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s 返回状态 %d", e.Method, e.Path, e.StatusCode)
}

// Client 真实后端客户端, 每个请求都携带会话令牌
type Client struct {
	rc          *resty.Client
	sess        *session.Service
	logger      *logrus.Logger
	uploadLimit int
}

// New 创建客户端
func New(cfg config.ClientConfig, sess *session.Service, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	rc := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("X-Client-Version", cfg.Version)
	if cfg.TimeoutSeconds > 0 {
		rc.SetTimeout(cfg.GetTimeout())
	}

	c := &Client{rc: rc, sess: sess, logger: logger, uploadLimit: cfg.UploadConcurrency}
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if token := c.sess.Token(); token != "" {
			r.SetAuthToken(token)
		}
		return nil
	})
	return c
}

// User 用户接口
func (c *Client) User() *UserService { return &UserService{c: c} }

// Community 社区接口
func (c *Client) Community() *CommunityService { return &CommunityService{c: c} }

// ProblemType 问题类型接口
func (c *Client) ProblemType() *ProblemTypeService { return &ProblemTypeService{c: c} }

// Problem 问题接口
func (c *Client) Problem() *ProblemService { return &ProblemService{c: c} }

// Upload 上传接口
func (c *Client) Upload() *UploadService { return &UploadService{c: c} }

// call 发送请求并解析统一响应
// 2xx 与带有可解析响应体的 4xx 返回响应体; 其余情况返回错误
func call[T any](ctx context.Context, c *Client, method, path string, body interface{}, query url.Values) (T, error) {
	var out T

	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Error("请求失败")
		return out, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}

	return decode[T](c, resp, method, path)
}

func decode[T any](c *Client, resp *resty.Response, method, path string) (T, error) {
	var out T
	status := resp.StatusCode()

	entry := c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  status,
		"latency": resp.Time(),
	})

	if status >= http.StatusInternalServerError || status < http.StatusOK {
		entry.Warn("服务端返回异常状态")
		return out, &StatusError{Method: method, Path: path, StatusCode: status, Body: string(resp.Body())}
	}

	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		entry.WithError(err).Warn("响应解析失败")
		if status >= http.StatusBadRequest {
			return out, &StatusError{Method: method, Path: path, StatusCode: status, Body: string(resp.Body())}
		}
		return out, fmt.Errorf("%w: %s %s: 响应解析失败: %v", ErrTransport, method, path, err)
	}

	entry.Debug("请求完成")
	return out, nil
}
