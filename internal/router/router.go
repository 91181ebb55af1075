package router

import (
	"fmt"
	"strings"

	"github.com/bitekart/bitekart/internal/cache"
	"github.com/bitekart/bitekart/internal/config"
	adminhandlers "github.com/bitekart/bitekart/internal/http/handlers/admin"
	publichandlers "github.com/bitekart/bitekart/internal/http/handlers/public"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) (*gin.Engine, error) {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bk"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")

	public := apiV1.Group("/public")
	auth := apiV1.Group("/auth")

	// 用户接口（需鉴权 + 登录门禁）
	user := apiV1.Group("")
	user.Use(
		UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo, c.SessionService),
		GateMiddleware(GateRequirement{RequireAuth: true}, cfg.Routes),
	)

	// 管理端接口（管理员门禁 + RBAC）
	admin := apiV1.Group("/admin")
	admin.Use(
		UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo, c.SessionService),
		GateMiddleware(GateRequirement{RequireAuth: true, RequireAdmin: true}, cfg.Routes),
		UserRBACMiddleware(c.AuthzService),
	)

	mounts, err := resolvePageMounts(cfg.Routes.Pages)
	if err != nil {
		return nil, err
	}
	env := &pageMounts{
		cfg:           cfg,
		public:        public,
		auth:          auth,
		user:          user,
		admin:         admin,
		publicHandler: publicHandler,
		adminHandler:  adminHandler,
		loginLimiter:  RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
	}
	for _, entry := range mounts {
		entry.mount(env)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r, nil
}
