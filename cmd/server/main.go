package main

import (
	"context"
	"log"
	"os"
	"time"

	"eco-report/internal/config"
	"eco-report/internal/models"
	"eco-report/internal/router"
	"eco-report/internal/seed"
	"eco-report/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "配置文件路径, 默认读取 ./config.yaml 或 ./config/config.yaml")
	withSeed := pflag.Bool("seed", true, "启动时写入种子数据")
	pflag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("配置验证失败: %v", err)
	}

	// 初始化日志
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	if !cfg.Server.ProductionMode {
		logger.SetLevel(logrus.DebugLevel)
	}

	// 初始化数据库
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	db := models.GetDB()

	if *withSeed {
		if err := seed.Apply(db); err != nil {
			log.Fatalf("写入种子数据失败: %v", err)
		}
	}

	// 初始化Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warnf("Redis连接失败, 验证码功能不可用: %v", err)
	}
	cancel()

	// 初始化工具
	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 设置路由
	r := router.SetupRouter(cfg, jwtManager, logger, db, redisClient)

	// 启动服务器
	addr := cfg.Server.GetAddress()
	logger.Infof("服务器启动在 %s", addr)

	if cfg.Server.ProductionMode {
		logger.Info("生产模式")
	} else {
		logger.Info("开发模式: 验证码输出到日志")
		if cfg.SMS.DevCode != "" {
			logger.Infof("万能验证码: %s", cfg.SMS.DevCode)
		}
	}

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
