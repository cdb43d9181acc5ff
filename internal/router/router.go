package router

import (
	"net/http"
	"time"

	"eco-report/internal/config"
	"eco-report/internal/handler"
	"eco-report/internal/middleware"
	"eco-report/internal/permission"
	"eco-report/internal/repository"
	"eco-report/internal/service"
	"eco-report/internal/utils"
	"eco-report/pkg/wechat"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const wechatTimeout = 10 * time.Second

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.GetMaxSize()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "社区环境问题上报 API",
			"version": "1.0.0",
		})
	})

	// 上传的图片
	r.Static("/uploads", cfg.Upload.Dir)

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	typeRepo := repository.NewProblemTypeRepository(db)
	problemRepo := repository.NewProblemRepository(db)

	// 初始化Service
	wechatClient := wechat.NewClient(cfg.Wechat.APIBaseURL, cfg.Wechat.AppID, cfg.Wechat.AppSecret, wechatTimeout)
	authService := service.NewAuthService(userRepo, jwtManager, redisClient, wechatClient, cfg, logger)
	communityService := service.NewCommunityService(communityRepo, typeRepo)
	problemService := service.NewProblemService(problemRepo, communityRepo, typeRepo)
	exportService := service.NewExportService(problemService, communityService)
	uploadService := service.NewUploadService(cfg, logger)

	// 初始化Handler
	userHandler := handler.NewUserHandler(authService)
	communityHandler := handler.NewCommunityHandler(communityService)
	problemHandler := handler.NewProblemHandler(problemService, exportService)
	uploadHandler := handler.NewUploadHandler(uploadService)

	perms := permission.Default()
	require := func(ps []permission.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(perms, ps)
	}

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/user/send-sms", userHandler.SendSMS)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/wechat-login", userHandler.WechatLogin)

		// 认证路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(jwtManager, userRepo))
		{
			// 用户信息
			authorized.GET("/user/info", userHandler.Info)
			authorized.PUT("/user/update", userHandler.Update)

			// 社区
			authorized.GET("/communities", communityHandler.ListCommunities)
			authorized.GET("/communities/:id", communityHandler.GetCommunity)
			authorized.POST("/communities", require(permission.CatalogManage), communityHandler.CreateCommunity)
			authorized.PUT("/communities/:id", require(permission.CatalogManage), communityHandler.UpdateCommunity)
			authorized.DELETE("/communities/:id", require(permission.CatalogManage), communityHandler.DeleteCommunity)

			// 问题类型
			authorized.GET("/problem-types", communityHandler.ListTypes)
			authorized.POST("/problem-types", require(permission.CatalogManage), communityHandler.CreateType)
			authorized.DELETE("/problem-types/:id", require(permission.CatalogManage), communityHandler.DeleteType)

			// 问题
			authorized.GET("/problems", problemHandler.List)
			authorized.GET("/problems/stats", problemHandler.Stats)
			authorized.GET("/problems/:id", problemHandler.Get)
			authorized.POST("/problems", problemHandler.Create)
			authorized.PUT("/problems/:id/status", require(permission.StatusUpdate), problemHandler.UpdateStatus)
			authorized.PUT("/problems/:id/fix", require(permission.FixUpload), problemHandler.Fix)

			// 上传
			authorized.POST("/upload/image", uploadHandler.UploadImage)

			// 管理员接口
			adminGroup := authorized.Group("/admin")
			adminGroup.Use(middleware.AdminMiddleware())
			{
				adminGroup.GET("/problems/export", require(permission.Export), problemHandler.Export)
			}
		}
	}

	return r
}
