package authz

import (
	"fmt"

	"github.com/bitekart/bitekart/internal/constants"
)

// builtinPolicy 内置角色策略
type builtinPolicy struct {
	Object string
	Action string
}

// 内置角色的基础策略
// admin 可进入后台管理菜单，super-admin 额外持有员工与角色管理权限
var builtinRolePolicies = map[string][]builtinPolicy{
	constants.RoleAdmin: {
		{Object: "/admin/dashboard", Action: "*"},
		{Object: "/admin/menu", Action: "*"},
		{Object: "/admin/menu/*", Action: "*"},
		{Object: "/admin/orders", Action: "*"},
		{Object: "/admin/orders/*", Action: "*"},
	},
	constants.RoleSuperAdmin: {
		{Object: "/admin/staff", Action: "*"},
		{Object: "/admin/staff/*", Action: "*"},
		{Object: "/admin/settings", Action: "*"},
		{Object: "/admin/settings/*", Action: "*"},
	},
}

// BootstrapBuiltinRoles 初始化内置角色及其策略
// 幂等，可在每次启动时调用
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, role := range []string{constants.RoleUser, constants.RoleAdmin, constants.RoleSuperAdmin} {
		if _, err := s.EnsureRole(role); err != nil {
			return err
		}
	}

	// super-admin 继承 admin 的全部策略
	if err := s.EnsureRoleInherits(constants.RoleSuperAdmin, constants.RoleAdmin); err != nil {
		return err
	}

	for role, policies := range builtinRolePolicies {
		for _, policy := range policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
