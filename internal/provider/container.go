package provider

import (
	"github.com/bitekart/bitekart/internal/authz"
	"github.com/bitekart/bitekart/internal/cache"
	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/queue"
	"github.com/bitekart/bitekart/internal/repository"
	"github.com/bitekart/bitekart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	SessionService  *service.SessionService
	CartService     *service.CartService
	ProductService  *service.ProductService
	StaffService    *service.StaffService
	CaptchaService  *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.QueueClient)
	c.SessionService = service.NewSessionService(c.UserRepo, c.AuthzService)
	c.CartService = service.NewCartService(c.Config, c.CartRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.StaffService = service.NewStaffService(c.UserRepo, c.AuthzService)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
}
