package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Wechat   WechatConfig   `mapstructure:"wechat"`
	Upload   UploadConfig   `mapstructure:"upload"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
	PublicURL      string `mapstructure:"public_url"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite 或 mysql
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	Algorithm     string `mapstructure:"algorithm"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// SMSConfig 短信验证码配置
type SMSConfig struct {
	CodeTTLSeconds    int    `mapstructure:"code_ttl_seconds"`
	SendLimit         int    `mapstructure:"send_limit"`
	SendWindowSeconds int    `mapstructure:"send_window_seconds"`
	DevCode           string `mapstructure:"dev_code"` // 非生产模式下的万能验证码
}

// GetCodeTTL 验证码有效期
func (s *SMSConfig) GetCodeTTL() time.Duration {
	return time.Duration(s.CodeTTLSeconds) * time.Second
}

// GetSendWindow 发送频率统计窗口
func (s *SMSConfig) GetSendWindow() time.Duration {
	return time.Duration(s.SendWindowSeconds) * time.Second
}

// WechatConfig 微信小程序配置
type WechatConfig struct {
	AppID      string `mapstructure:"app_id"`
	AppSecret  string `mapstructure:"app_secret"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// GetMaxSize 最大上传字节数
func (u *UploadConfig) GetMaxSize() int64 {
	return int64(u.MaxSizeMB) << 20
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// ClientConfig 客户端配置
type ClientConfig struct {
	EnableMock        bool   `mapstructure:"enable_mock"` // 是否使用模拟后端
	APIBaseURL        string `mapstructure:"api_base_url"`
	MockDelayMS       int    `mapstructure:"mock_delay_ms"`
	UploadConcurrency int    `mapstructure:"upload_concurrency"`
	SessionFile       string `mapstructure:"session_file"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"` // 0 表示不设超时
	Version           string `mapstructure:"version"`
}

// GetMockDelay 模拟延迟
func (c *ClientConfig) GetMockDelay() time.Duration {
	return time.Duration(c.MockDelayMS) * time.Millisecond
}

// GetTimeout 请求超时时间
func (c *ClientConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
