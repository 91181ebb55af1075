package service

import (
	"context"
	"strings"
	"time"

	"github.com/bitekart/bitekart/internal/authz"
	"github.com/bitekart/bitekart/internal/cache"
	"github.com/bitekart/bitekart/internal/constants"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"
)

// StaffService 员工（用户角色）管理服务
// 仅 super-admin 可操作，路由层已做门禁
type StaffService struct {
	userRepo repository.UserRepository
	authzSvc *authz.Service
}

// NewStaffService 创建员工管理服务
func NewStaffService(userRepo repository.UserRepository, authzSvc *authz.Service) *StaffService {
	return &StaffService{
		userRepo: userRepo,
		authzSvc: authzSvc,
	}
}

// StaffDetail 用户及其角色
type StaffDetail struct {
	User  *models.User `json:"user"`
	Roles []string     `json:"roles"`
}

// ListUsers 用户列表（附带角色）
func (s *StaffService) ListUsers(filter repository.UserListFilter) ([]StaffDetail, int64, error) {
	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	details := make([]StaffDetail, 0, len(users))
	for i := range users {
		user := users[i]
		roles, err := s.authzSvc.GetUserRoles(user.ID)
		if err != nil {
			roles = []string{}
		}
		details = append(details, StaffDetail{User: &user, Roles: roles})
	}
	return details, total, nil
}

// SetUserRoles 覆盖设置用户角色
// 仅接受内置角色名
func (s *StaffService) SetUserRoles(userID uint, roles []string) ([]string, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		trimmed := strings.ToLower(strings.TrimSpace(role))
		if trimmed == "" {
			continue
		}
		if !isBuiltinRole(trimmed) {
			return nil, ErrInvalidRole
		}
		normalized = append(normalized, trimmed)
	}

	if err := s.authzSvc.SetUserRoles(userID, normalized); err != nil {
		return nil, err
	}
	return s.authzSvc.GetUserRoles(userID)
}

// SetUserStatus 更新用户状态
// 禁用用户同时推进令牌版本，使现存会话全部失效
func (s *StaffService) SetUserStatus(userID uint, status string) (*models.User, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != constants.UserStatusActive && normalized != constants.UserStatusDisabled {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	user.Status = normalized
	user.UpdatedAt = now
	if normalized == constants.UserStatusDisabled {
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

func isBuiltinRole(role string) bool {
	switch role {
	case constants.RoleUser, constants.RoleAdmin, constants.RoleSuperAdmin:
		return true
	default:
		return false
	}
}
