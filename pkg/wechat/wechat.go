// Package wechat 小程序登录凭证校验
package wechat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL 微信接口地址
const DefaultBaseURL = "https://api.weixin.qq.com"

// ErrInvalidCode 登录凭证无效或已使用
var ErrInvalidCode = errors.New("微信登录凭证无效")

// Session code2session 的返回
type Session struct {
	OpenID     string `json:"openid"`
	UnionID    string `json:"unionid"`
	SessionKey string `json:"session_key"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Client 微信接口客户端
type Client struct {
	rc        *resty.Client
	appID     string
	appSecret string
}

// NewClient 创建客户端
func NewClient(baseURL, appID, appSecret string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc, appID: appID, appSecret: appSecret}
}

// Configured 是否配置了小程序凭证
func (c *Client) Configured() bool {
	return c.appID != "" && c.appSecret != ""
}

// Code2Session 用登录凭证换取openid
func (c *Client) Code2Session(ctx context.Context, code string) (*Session, error) {
	var result Session
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":      c.appID,
			"secret":     c.appSecret,
			"js_code":    code,
			"grant_type": "authorization_code",
		}).
		SetResult(&result).
		ForceContentType("application/json").
		Get("/sns/jscode2session")
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}

	// 检查HTTP状态码
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("API返回错误: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	switch result.ErrCode {
	case 0:
	case 40029, 40163:
		return nil, ErrInvalidCode
	default:
		return nil, fmt.Errorf("API返回错误: errcode=%d, errmsg=%s", result.ErrCode, result.ErrMsg)
	}
	if result.OpenID == "" {
		return nil, ErrInvalidCode
	}
	return &result, nil
}
