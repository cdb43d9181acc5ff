package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
	configPath   string
)

// LoadConfig 加载配置文件(只加载一次)
func LoadConfig(configFile string) (*Config, error) {
	var err error

	once.Do(func() {
		var cfg *Config
		cfg, err = Load(configFile)
		if err == nil {
			globalConfig = cfg
		}
		configPath = configFile
	})

	return globalConfig, err
}

// Load 从文件和环境变量加载配置
// 未指定文件且默认位置没有配置文件时使用默认值
func Load(configFile string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量: ECO_CLIENT_ENABLE_MOCK 覆盖 client.enable_mock
	v.SetEnvPrefix("ECO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	setDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys 让 Unmarshal 能读取只存在于环境变量中的键
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.production_mode", "server.public_url",
		"database.driver", "database.path", "database.dsn",
		"redis.host", "redis.port", "redis.password",
		"jwt.secret_key",
		"sms.dev_code",
		"wechat.app_id", "wechat.app_secret",
		"upload.dir",
		"client.enable_mock", "client.api_base_url", "client.mock_delay_ms", "client.session_file",
	} {
		_ = v.BindEnv(key)
	}
}

// Default 返回全部使用默认值的配置
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/eco.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379 // 标准 Redis 端口
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 43200 // 30天
	}
	if cfg.SMS.CodeTTLSeconds == 0 {
		cfg.SMS.CodeTTLSeconds = 300
	}
	if cfg.SMS.SendLimit == 0 {
		cfg.SMS.SendLimit = 5
	}
	if cfg.SMS.SendWindowSeconds == 0 {
		cfg.SMS.SendWindowSeconds = 3600
	}
	if cfg.Wechat.APIBaseURL == "" {
		cfg.Wechat.APIBaseURL = "https://api.weixin.qq.com"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./uploads"
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 10
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"*"}
	}
	if cfg.Client.APIBaseURL == "" {
		cfg.Client.APIBaseURL = fmt.Sprintf("http://localhost:%d/api", cfg.Server.Port)
	}
	if cfg.Client.MockDelayMS == 0 {
		cfg.Client.MockDelayMS = 500
	}
	if cfg.Client.UploadConcurrency == 0 {
		cfg.Client.UploadConcurrency = 9
	}
	if cfg.Client.SessionFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Client.SessionFile = filepath.Join(home, ".eco-report", "session.json")
		} else {
			cfg.Client.SessionFile = ".eco-session.json"
		}
	}
	if cfg.Client.Version == "" {
		cfg.Client.Version = "1.0.0"
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}
	if cfg.Client.MockDelayMS < 0 {
		return fmt.Errorf("无效的模拟延迟: %d", cfg.Client.MockDelayMS)
	}
	if cfg.Client.UploadConcurrency < 0 {
		return fmt.Errorf("无效的上传并发数: %d", cfg.Client.UploadConcurrency)
	}
	if !cfg.Client.EnableMock && cfg.Client.APIBaseURL == "" {
		return fmt.Errorf("未启用模拟后端时必须配置 api_base_url")
	}
	return nil
}

// ValidateServer 验证服务端必需的配置
func (c *Config) ValidateServer() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT密钥不能为空")
	}

	if c.Database.Driver == "sqlite" {
		// 检查数据库目录是否存在
		dbDir := filepath.Dir(c.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	}
	if c.Database.Driver == "mysql" && c.Database.DSN == "" {
		return fmt.Errorf("mysql 需要配置 database.dsn")
	}

	if err := os.MkdirAll(c.Upload.Dir, 0755); err != nil {
		return fmt.Errorf("创建上传目录失败: %w", err)
	}
	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return globalConfig
}

// ReloadConfig 重新读取配置文件
func ReloadConfig() (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("未设置配置文件路径")
	}

	return Load(configPath)
}
