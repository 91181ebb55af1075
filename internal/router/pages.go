package router

import (
	"fmt"

	"github.com/bitekart/bitekart/internal/config"
	adminhandlers "github.com/bitekart/bitekart/internal/http/handlers/admin"
	publichandlers "github.com/bitekart/bitekart/internal/http/handlers/public"

	"github.com/gin-gonic/gin"
)

// pageMounts 页面挂载所需的路由组与处理器集合
type pageMounts struct {
	cfg           *config.Config
	public        *gin.RouterGroup // /api/v1/public
	auth          *gin.RouterGroup // /api/v1/auth
	user          *gin.RouterGroup // 需登录
	admin         *gin.RouterGroup // 管理端（已带门禁与 RBAC）
	publicHandler *publichandlers.Handler
	adminHandler  *adminhandlers.Handler
	loginLimiter  gin.HandlerFunc
}

// pageMount 单个页面的注册项
type pageMount struct {
	key   string
	mount func(*pageMounts)
}

// pageRegistry 显式页面注册表，新页面必须在此登记
var pageRegistry = []pageMount{
	{key: "menu", mount: mountMenuPage},
	{key: "auth", mount: mountAuthPage},
	{key: "account", mount: mountAccountPage},
	{key: "cart", mount: mountCartPage},
	{key: "admin-menu", mount: mountAdminMenuPage},
	{key: "admin-staff", mount: mountAdminStaffPage},
}

// resolvePageMounts 按配置筛选启用页面，空列表表示全部启用；
// 未登记的 key 直接报错，拒绝静默忽略
func resolvePageMounts(keys []string) ([]pageMount, error) {
	if len(keys) == 0 {
		return pageRegistry, nil
	}

	index := make(map[string]pageMount, len(pageRegistry))
	for _, entry := range pageRegistry {
		index[entry.key] = entry
	}

	mounts := make([]pageMount, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		entry, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("unknown page %q", key)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		mounts = append(mounts, entry)
	}
	return mounts, nil
}

func mountMenuPage(m *pageMounts) {
	m.public.GET("/menu", m.publicHandler.GetMenu)
	m.public.GET("/menu/:slug", m.publicHandler.GetMenuItemBySlug)
}

func mountAuthPage(m *pageMounts) {
	m.public.GET("/captcha/image", m.publicHandler.GetImageCaptcha)
	m.auth.POST("/register", m.publicHandler.UserRegister)
	if m.loginLimiter != nil {
		m.auth.POST("/login", m.loginLimiter, m.publicHandler.UserLogin)
	} else {
		m.auth.POST("/login", m.publicHandler.UserLogin)
	}
}

func mountAccountPage(m *pageMounts) {
	m.user.GET("/me", m.publicHandler.GetCurrentUser)
	m.user.PUT("/me/profile", m.publicHandler.UpdateUserProfile)
	m.user.PUT("/me/password", m.publicHandler.ChangeUserPassword)
	m.user.POST("/me/signout", m.publicHandler.UserSignOut)
}

func mountCartPage(m *pageMounts) {
	m.user.GET("/cart", m.publicHandler.GetCart)
	m.user.POST("/cart/items", m.publicHandler.AddCartItem)
	m.user.PUT("/cart/items/:product_id", m.publicHandler.SetCartItemQuantity)
	m.user.DELETE("/cart/items/:product_id", m.publicHandler.DeleteCartItem)
	m.user.DELETE("/cart", m.publicHandler.ClearCart)
}

func mountAdminMenuPage(m *pageMounts) {
	m.admin.GET("/menu", m.adminHandler.GetAdminMenuItems)
	m.admin.GET("/menu/:id", m.adminHandler.GetAdminMenuItem)
	m.admin.POST("/menu", m.adminHandler.CreateMenuItem)
	m.admin.PUT("/menu/:id", m.adminHandler.UpdateMenuItem)
	m.admin.DELETE("/menu/:id", m.adminHandler.DeleteMenuItem)
}

func mountAdminStaffPage(m *pageMounts) {
	staff := m.admin.Group("/staff", GateMiddleware(GateRequirement{RequireAuth: true, RequireSuperAdmin: true}, m.cfg.Routes))
	staff.GET("", m.adminHandler.ListStaff)
	staff.PUT("/:id/roles", m.adminHandler.SetStaffRoles)
	staff.PUT("/:id/status", m.adminHandler.SetStaffStatus)
}
