package service

import "errors"

// 服务层统一错误定义，handler 按 errors.Is 映射到响应码与多语言文案
var (
	// 通用
	ErrNotFound = errors.New("record not found")

	// 认证
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserDisabled       = errors.New("user disabled")
	ErrProfileEmpty       = errors.New("profile update is empty")

	// 验证码
	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")

	// 购物车
	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrProductNotAvailable = errors.New("product not available")
	ErrCartFetchFailed     = errors.New("cart fetch failed")
	ErrCartUpdateFailed    = errors.New("cart update failed")

	// 菜单
	ErrSlugExists     = errors.New("slug already exists")
	ErrInvalidProduct = errors.New("invalid product")

	// 角色与状态
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)
