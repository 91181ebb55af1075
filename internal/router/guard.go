package router

import (
	"strings"

	"github.com/bitekart/bitekart/internal/authz"
	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/http/response"
	"github.com/bitekart/bitekart/internal/i18n"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/gin-gonic/gin"
)

// GateState 路由门禁状态
type GateState string

const (
	// GatePending 身份会话解析中，调用方渲染加载态，不得放行也不得跳转
	GatePending GateState = "pending"
	// GateDenied 拒绝访问，附带跳转意图
	GateDenied GateState = "denied"
	// GateGranted 放行
	GateGranted GateState = "granted"
)

// GateRequirement 路由准入要求
type GateRequirement struct {
	RequireAuth       bool
	RequireAdmin      bool
	RequireSuperAdmin bool
}

// GateRedirect 跳转意图
// Replace 表示替换历史记录，避免回退键落回被拒页面
type GateRedirect struct {
	Target  string `json:"target"`
	Replace bool   `json:"replace"`
	// From 被拦截前的目标路径，登录完成后用于回跳
	From string `json:"from,omitempty"`
}

// GateDecision 门禁判定结果
type GateDecision struct {
	State    GateState     `json:"state"`
	Reason   string        `json:"reason,omitempty"`
	Redirect *GateRedirect `json:"redirect,omitempty"`
}

// EvaluateGate 纯函数路由门禁
// 会话解析中一律 Pending；未登录去登录页并保留来路；
// 已登录但角色不足回首页，不保留来路
func EvaluateGate(session *service.IdentitySession, req GateRequirement, currentPath string, routes config.RoutesConfig) GateDecision {
	if !req.RequireAuth && !req.RequireAdmin && !req.RequireSuperAdmin {
		return GateDecision{State: GateGranted}
	}

	if session == nil || session.Loading {
		return GateDecision{State: GatePending, Reason: "session_loading"}
	}

	if !session.Authenticated() {
		return GateDecision{
			State:  GateDenied,
			Reason: "unauthenticated",
			Redirect: &GateRedirect{
				Target:  routeLoginPath(routes),
				Replace: true,
				From:    strings.TrimSpace(currentPath),
			},
		}
	}

	if req.RequireSuperAdmin && !session.IsSuperAdmin() {
		return GateDecision{
			State:    GateDenied,
			Reason:   "insufficient_role",
			Redirect: &GateRedirect{Target: routeHomePath(routes), Replace: true},
		}
	}
	if req.RequireAdmin && !session.IsAdmin() {
		return GateDecision{
			State:    GateDenied,
			Reason:   "insufficient_role",
			Redirect: &GateRedirect{Target: routeHomePath(routes), Replace: true},
		}
	}

	return GateDecision{State: GateGranted}
}

func routeLoginPath(routes config.RoutesConfig) string {
	if path := strings.TrimSpace(routes.LoginPath); path != "" {
		return path
	}
	return "/login"
}

func routeHomePath(routes config.RoutesConfig) string {
	if path := strings.TrimSpace(routes.HomePath); path != "" {
		return path
	}
	return "/"
}

// GateMiddleware 路由门禁中间件
// Pending 返回 102 并附带判定结果；Denied 按原因返回 401/403 与跳转意图
func GateMiddleware(req GateRequirement, routes config.RoutesConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		decision := EvaluateGate(session, req, c.Request.URL.Path, routes)

		switch decision.State {
		case GateGranted:
			c.Next()
		case GatePending:
			msg := i18n.T(i18n.ResolveLocale(c), "error.session_pending")
			response.ErrorWithData(c, response.CodePending, msg, decision)
			c.Abort()
		default:
			if decision.Reason == "unauthenticated" {
				msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
				response.ErrorWithData(c, response.CodeUnauthorized, msg, decision)
			} else {
				msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
				response.ErrorWithData(c, response.CodeForbidden, msg, decision)
			}
			c.Abort()
		}
	}
}

// UserRBACMiddleware 基于 Casbin 的路径级鉴权中间件
// 角色门禁之后的细粒度策略判定
func UserRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		userID := c.GetUint("user_id")
		if userID == 0 {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUser(userID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}
