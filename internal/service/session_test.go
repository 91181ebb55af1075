package service

import (
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

func newSessionTestService(t *testing.T) (*SessionService, *authz.Service, repository.UserRepository) {
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
	return NewSessionService(userRepo, authzSvc), authzSvc, userRepo
}

func seedSessionUser(t *testing.T, userRepo repository.UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "tester",
		Status:       constants.UserStatusActive,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestSessionDefaultsToUserRole(t *testing.T) {
	svc, _, userRepo := newSessionTestService(t)
	user := seedSessionUser(t, userRepo, "eater@example.com")

	session, err := svc.ResolveByID(user.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !session.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if !session.HasRole(constants.RoleUser) {
		t.Fatalf("expected user role by default")
	}
	if session.IsAdmin() || session.IsSuperAdmin() {
		t.Fatalf("plain user must not be admin")
	}
	if session.DisplayRole() != constants.RoleUser {
		t.Fatalf("expected display role user, got %s", session.DisplayRole())
	}
}

func TestSessionDisplayRolePrecedence(t *testing.T) {
	svc, authzSvc, userRepo := newSessionTestService(t)
	user := seedSessionUser(t, userRepo, "boss@example.com")

	if err := authzSvc.SetUserRoles(user.ID, []string{constants.RoleAdmin, constants.RoleSuperAdmin}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	session, err := svc.ResolveByID(user.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !session.IsAdmin() || !session.IsSuperAdmin() {
		t.Fatalf("expected admin and super-admin, roles=%v", session.Roles)
	}
	// 多角色取最高展示
	if session.DisplayRole() != constants.RoleSuperAdmin {
		t.Fatalf("expected display role super-admin, got %s", session.DisplayRole())
	}
}

func TestSessionUnknownUserIsAnonymous(t *testing.T) {
	svc, _, _ := newSessionTestService(t)

	session, err := svc.ResolveByID(9999)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("unknown user must resolve to anonymous session")
	}

	anon, err := svc.ResolveByID(0)
	if err != nil {
		t.Fatalf("resolve zero id failed: %v", err)
	}
	if anon.Authenticated() || anon.Loading {
		t.Fatalf("zero id must be settled anonymous session")
	}
}

func TestPendingSessionLoading(t *testing.T) {
	pending := PendingSession()
	if !pending.Loading {
		t.Fatalf("pending session must be loading")
	}
	if pending.Authenticated() {
		t.Fatalf("pending session must not be authenticated")
	}

	fromRoles := SessionFromRoles(5, "a@b.c", "abc", []string{constants.RoleAdmin, constants.RoleAdmin, ""})
	if fromRoles.Loading {
		t.Fatalf("resolved session must not be loading")
	}
	if len(fromRoles.Roles) != 2 {
		t.Fatalf("expected deduplicated roles [user admin], got %v", fromRoles.Roles)
	}
	if !fromRoles.IsAdmin() {
		t.Fatalf("expected admin session")
	}
}
