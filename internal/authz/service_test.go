package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bitekart/bitekart/internal/constants"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy(constants.RoleAdmin, "/admin/menu/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{constants.RoleAdmin}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/v1/admin/menu/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/v1/admin/menu/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetUserRoles(7, []string{constants.RoleUser, constants.RoleAdmin}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}
	if err := svc.SetUserRoles(7, []string{constants.RoleUser}); err != nil {
		t.Fatalf("override user roles failed: %v", err)
	}

	roles, err := svc.GetUserRoles(7)
	if err != nil {
		t.Fatalf("get user roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != constants.RoleUser {
		t.Fatalf("unexpected roles after override: %v", roles)
	}
}

func TestGetUserRolesStripsPrefix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.AddUserRole(3, constants.RoleSuperAdmin); err != nil {
		t.Fatalf("add user role failed: %v", err)
	}
	if err := svc.AddUserRole(3, constants.RoleSuperAdmin); err != nil {
		t.Fatalf("add user role should be idempotent: %v", err)
	}

	roles, err := svc.GetUserRoles(3)
	if err != nil {
		t.Fatalf("get user roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != constants.RoleSuperAdmin {
		t.Fatalf("unexpected roles: %v", roles)
	}
	for _, role := range roles {
		if strings.HasPrefix(role, "role:") {
			t.Fatalf("role prefix should be stripped: %v", role)
		}
	}
}

func TestBootstrapBuiltinRolesInheritance(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	if err := svc.SetUserRoles(9, []string{constants.RoleSuperAdmin}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	// super-admin 继承 admin 的菜单策略
	allow, err := svc.EnforceUser(9, "/admin/menu/12", "PUT")
	if err != nil {
		t.Fatalf("enforce inherited policy failed: %v", err)
	}
	if !allow {
		t.Fatalf("super-admin should inherit admin menu policy")
	}

	allow, err = svc.EnforceUser(9, "/admin/staff/5", "DELETE")
	if err != nil {
		t.Fatalf("enforce staff policy failed: %v", err)
	}
	if !allow {
		t.Fatalf("super-admin should hold staff policy")
	}

	if err := svc.SetUserRoles(10, []string{constants.RoleAdmin}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	allow, err = svc.EnforceUser(10, "/admin/staff/5", "GET")
	if err != nil {
		t.Fatalf("enforce admin on staff failed: %v", err)
	}
	if allow {
		t.Fatalf("plain admin must not reach staff management")
	}
}

func TestNormalizeObjectTrimsAPIPrefix(t *testing.T) {
	cases := map[string]string{
		"/api/v1/cart":  "/cart",
		"/api/v1":       "/",
		"cart":          "/cart",
		"  /admin/menu": "/admin/menu",
		"":              "/",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("NormalizeObject(%q)=%q want %q", input, got, want)
		}
	}
}
