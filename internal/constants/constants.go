package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 角色常量
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueLow      = "low"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	// TaskSessionRevokeSync 会话远端失效补偿任务
	TaskSessionRevokeSync = "session:revoke_sync"
	// TaskCartPrune 过期购物车清理任务
	TaskCartPrune = "cart:prune"
)

// 验证码场景常量
const (
	CaptchaSceneLogin = "login"
)
