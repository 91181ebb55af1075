package i18n

var messages = map[string]map[string]string{
	"zh-CN": {
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "未登录或登录已失效",
		"error.forbidden":               "没有权限执行该操作",
		"error.not_found":               "资源不存在",
		"error.internal":                "服务内部错误",
		"error.session_pending":         "身份信息解析中，请稍候重试",
		"error.auth_header_missing":     "缺少认证头",
		"error.auth_header_invalid":     "认证头格式错误",
		"error.token_invalid":           "登录凭证无效",
		"error.token_revoked":           "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":      "服务端未配置 JWT 密钥",
		"error.user_disabled":           "账号已被禁用",
		"error.user_id_invalid":         "用户标识缺失",
		"error.user_id_type_invalid":    "用户标识类型错误",
		"error.email_invalid":           "邮箱格式不正确",
		"error.email_exists":            "邮箱已被注册",
		"error.invalid_credentials":     "邮箱或密码错误",
		"error.password_policy":         "密码不满足安全策略",
		"error.password_min_length":     "密码长度至少 %d 位",
		"error.password_require_upper":  "密码需包含大写字母",
		"error.password_require_lower":  "密码需包含小写字母",
		"error.password_require_number": "密码需包含数字",
		"error.captcha_required":        "请完成验证码",
		"error.captcha_invalid":         "验证码错误或已过期",
		"error.captcha_fetch_failed":    "验证码获取失败",
		"error.login_too_many":          "登录尝试过于频繁，请 %d 秒后再试",
		"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":  "限流服务暂不可用",
		"error.register_failed":         "注册失败",
		"error.login_failed":            "登录失败",
		"error.profile_update_failed":   "资料更新失败",
		"error.password_change_failed":  "密码修改失败",
		"error.signout_failed":          "退出登录失败",
		"error.cart_item_invalid":       "购物车条目参数错误",
		"error.cart_fetch_failed":       "购物车获取失败",
		"error.cart_update_failed":      "购物车更新失败",
		"error.product_not_available":   "商品不存在或已下架",
		"error.product_not_found":       "商品不存在",
		"error.menu_fetch_failed":       "菜单获取失败",
		"error.product_save_failed":     "商品保存失败",
		"error.slug_exists":             "标识已被占用",
		"error.product_delete_failed":   "商品删除失败",
		"error.role_invalid":            "角色不合法",
		"error.staff_fetch_failed":      "成员列表获取失败",
		"error.staff_update_failed":     "成员角色更新失败",
	},
	"en-US": {
		"error.bad_request":             "invalid request",
		"error.unauthorized":            "unauthorized",
		"error.forbidden":               "forbidden",
		"error.not_found":               "not found",
		"error.internal":                "internal error",
		"error.session_pending":         "identity session still resolving, retry shortly",
		"error.auth_header_missing":     "missing authorization header",
		"error.auth_header_invalid":     "malformed authorization header",
		"error.token_invalid":           "invalid token",
		"error.token_revoked":           "token revoked, please sign in again",
		"error.jwt_secret_missing":      "server jwt secret not configured",
		"error.user_disabled":           "account disabled",
		"error.user_id_invalid":         "missing user identity",
		"error.user_id_type_invalid":    "invalid user identity type",
		"error.email_invalid":           "invalid email address",
		"error.email_exists":            "email already registered",
		"error.invalid_credentials":     "invalid email or password",
		"error.password_policy":         "password does not meet the policy",
		"error.password_min_length":     "password must be at least %d characters",
		"error.password_require_upper":  "password must contain an uppercase letter",
		"error.password_require_lower":  "password must contain a lowercase letter",
		"error.password_require_number": "password must contain a digit",
		"error.captcha_required":        "captcha required",
		"error.captcha_invalid":         "captcha invalid or expired",
		"error.captcha_fetch_failed":    "failed to issue captcha",
		"error.login_too_many":          "too many login attempts, retry in %d seconds",
		"error.rate_limited":            "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":  "rate limiter unavailable",
		"error.register_failed":         "registration failed",
		"error.login_failed":            "login failed",
		"error.profile_update_failed":   "profile update failed",
		"error.password_change_failed":  "password change failed",
		"error.signout_failed":          "sign out failed",
		"error.cart_item_invalid":       "invalid cart item",
		"error.cart_fetch_failed":       "failed to load cart",
		"error.cart_update_failed":      "failed to update cart",
		"error.product_not_available":   "product unavailable",
		"error.product_not_found":       "product not found",
		"error.menu_fetch_failed":       "failed to load menu",
		"error.product_save_failed":     "failed to save product",
		"error.slug_exists":             "slug already in use",
		"error.product_delete_failed":   "failed to delete product",
		"error.role_invalid":            "invalid role",
		"error.staff_fetch_failed":      "failed to list staff",
		"error.staff_update_failed":     "failed to update staff roles",
	},
}
