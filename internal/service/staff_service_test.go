package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bitekart/bitekart/internal/authz"
	"github.com/bitekart/bitekart/internal/constants"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newStaffTestService(t *testing.T) (*StaffService, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	authzSvc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	return NewStaffService(userRepo, authzSvc), userRepo
}

func seedStaffUser(t *testing.T, userRepo repository.UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:       email,
		DisplayName: strings.SplitN(email, "@", 2)[0],
		Status:      constants.UserStatusActive,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestSetUserRolesNormalizesAndOverrides(t *testing.T) {
	svc, userRepo := newStaffTestService(t)
	user := seedStaffUser(t, userRepo, "crew@example.com")

	roles, err := svc.SetUserRoles(user.ID, []string{" Admin ", constants.RoleUser, ""})
	if err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", roles)
	}

	roles, err = svc.SetUserRoles(user.ID, []string{constants.RoleUser})
	if err != nil {
		t.Fatalf("override roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != constants.RoleUser {
		t.Fatalf("expected single user role, got %v", roles)
	}
}

func TestSetUserRolesRejectsUnknownRole(t *testing.T) {
	svc, userRepo := newStaffTestService(t)
	user := seedStaffUser(t, userRepo, "crew@example.com")

	if _, err := svc.SetUserRoles(user.ID, []string{"owner"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SetUserRoles(9999, []string{constants.RoleUser}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestSetUserStatusDisableRevokesSessions(t *testing.T) {
	svc, userRepo := newStaffTestService(t)
	user := seedStaffUser(t, userRepo, "crew@example.com")
	versionBefore := user.TokenVersion

	updated, err := svc.SetUserStatus(user.ID, " Disabled ")
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if updated.Status != constants.UserStatusDisabled {
		t.Fatalf("expected disabled status, got %s", updated.Status)
	}
	if updated.TokenVersion <= versionBefore || updated.TokenInvalidBefore == nil {
		t.Fatalf("disabling must revoke existing sessions: version=%d watermark=%v",
			updated.TokenVersion, updated.TokenInvalidBefore)
	}

	// 重新启用不回退令牌版本
	reenabled, err := svc.SetUserStatus(user.ID, constants.UserStatusActive)
	if err != nil {
		t.Fatalf("re-enable failed: %v", err)
	}
	if reenabled.Status != constants.UserStatusActive {
		t.Fatalf("expected active status, got %s", reenabled.Status)
	}
	if reenabled.TokenVersion != updated.TokenVersion {
		t.Fatalf("re-enable must not change token version: %d -> %d",
			updated.TokenVersion, reenabled.TokenVersion)
	}
}

func TestSetUserStatusRejectsUnknownStatus(t *testing.T) {
	svc, userRepo := newStaffTestService(t)
	user := seedStaffUser(t, userRepo, "crew@example.com")

	if _, err := svc.SetUserStatus(user.ID, "banned"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestListUsersAttachesRoles(t *testing.T) {
	svc, userRepo := newStaffTestService(t)
	first := seedStaffUser(t, userRepo, "alpha@example.com")
	seedStaffUser(t, userRepo, "beta@example.com")

	if _, err := svc.SetUserRoles(first.ID, []string{constants.RoleAdmin}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	details, total, err := svc.ListUsers(repository.UserListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if total != 2 || len(details) != 2 {
		t.Fatalf("expected 2 users, got total=%d len=%d", total, len(details))
	}

	details, total, err = svc.ListUsers(repository.UserListFilter{Page: 1, PageSize: 10, Keyword: "alpha"})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || len(details) != 1 {
		t.Fatalf("expected single match, got total=%d len=%d", total, len(details))
	}
	if len(details[0].Roles) != 1 || details[0].Roles[0] != constants.RoleAdmin {
		t.Fatalf("expected admin role attached, got %v", details[0].Roles)
	}
}
