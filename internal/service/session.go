package service

import (
	"github.com/bitekart/bitekart/internal/authz"
	"github.com/bitekart/bitekart/internal/constants"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"
)

// IdentitySession 身份会话
// Loading 表示会话仍在解析中（用户/角色尚未就绪），此时路由门禁保持 Pending
type IdentitySession struct {
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
	Loading     bool     `json:"loading"`

	roleSet map[string]struct{}
}

// AnonymousSession 未登录会话
func AnonymousSession() *IdentitySession {
	return &IdentitySession{Roles: []string{}, roleSet: map[string]struct{}{}}
}

// PendingSession 解析中的会话占位
func PendingSession() *IdentitySession {
	s := AnonymousSession()
	s.Loading = true
	return s
}

// Authenticated 是否已登录
func (s *IdentitySession) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// HasRole 是否持有指定角色
func (s *IdentitySession) HasRole(role string) bool {
	if s == nil {
		return false
	}
	_, ok := s.roleSet[role]
	return ok
}

// IsAdmin 是否具备管理权限（admin 或 super-admin）
func (s *IdentitySession) IsAdmin() bool {
	return s.HasRole(constants.RoleAdmin) || s.HasRole(constants.RoleSuperAdmin)
}

// IsSuperAdmin 是否为超级管理员
func (s *IdentitySession) IsSuperAdmin() bool {
	return s.HasRole(constants.RoleSuperAdmin)
}

// DisplayRole 返回展示用角色，按 super-admin > admin > user 取最高
func (s *IdentitySession) DisplayRole() string {
	switch {
	case s.HasRole(constants.RoleSuperAdmin):
		return constants.RoleSuperAdmin
	case s.HasRole(constants.RoleAdmin):
		return constants.RoleAdmin
	default:
		return constants.RoleUser
	}
}

// SessionService 身份会话解析服务
type SessionService struct {
	userRepo repository.UserRepository
	authzSvc *authz.Service
}

// NewSessionService 创建会话解析服务
func NewSessionService(userRepo repository.UserRepository, authzSvc *authz.Service) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		authzSvc: authzSvc,
	}
}

// Resolve 按用户解析身份会话
// 角色查询失败时回退为仅 user 角色的会话，不放大为登录失败
func (s *SessionService) Resolve(user *models.User) *IdentitySession {
	if user == nil || user.ID == 0 {
		return AnonymousSession()
	}

	roles := []string{constants.RoleUser}
	if s != nil && s.authzSvc != nil {
		granted, err := s.authzSvc.GetUserRoles(user.ID)
		if err == nil {
			roles = mergeRoles(roles, granted)
		}
	}

	session := &IdentitySession{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       roles,
		roleSet:     make(map[string]struct{}, len(roles)),
	}
	for _, role := range roles {
		session.roleSet[role] = struct{}{}
	}
	return session
}

// ResolveByID 按用户 ID 解析身份会话
func (s *SessionService) ResolveByID(userID uint) (*IdentitySession, error) {
	if userID == 0 {
		return AnonymousSession(), nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return AnonymousSession(), nil
	}
	return s.Resolve(user), nil
}

// SessionFromRoles 由已知角色集合构造会话（中间件在认证通过后使用）
func SessionFromRoles(userID uint, email, displayName string, roles []string) *IdentitySession {
	merged := mergeRoles([]string{constants.RoleUser}, roles)
	session := &IdentitySession{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Roles:       merged,
		roleSet:     make(map[string]struct{}, len(merged)),
	}
	for _, role := range merged {
		session.roleSet[role] = struct{}{}
	}
	return session
}

func mergeRoles(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, role := range append(base, extra...) {
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		merged = append(merged, role)
	}
	return merged
}
