package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/constants"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/queue"
	"github.com/bitekart/bitekart/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newAuthTestService(t *testing.T) (*UserAuthService, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.UserJWT.ExpireHours = 24
	cfg.UserJWT.RememberMeExpireHours = 168
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireLower = true
	cfg.Security.PasswordPolicy.RequireNumber = true

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	return NewUserAuthService(cfg, userRepo, queueClient), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthTestService(t)

	user, token, expiresAt, err := svc.Register("Eater@Example.com", "hunger4burgers", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "eater@example.com" {
		t.Fatalf("email must be normalized, got %s", user.Email)
	}
	if user.DisplayName != "eater" {
		t.Fatalf("expected nickname from email, got %s", user.DisplayName)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected valid token, got %q exp=%v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.TokenVersion != user.TokenVersion {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, _, _, err := svc.Register("eater@example.com", "hunger4burgers", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if _, _, _, err := svc.Login("eater@example.com", "wrong-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	logged, _, _, err := svc.Login("eater@example.com", "hunger4burgers")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newAuthTestService(t)

	if _, _, _, err := svc.Register("weak@example.com", "short1", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got %v", err)
	}
	if _, _, _, err := svc.Register("weak@example.com", "nodigitshere", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for password without number, got %v", err)
	}
	if _, _, _, err := svc.Register("not-an-email", "hunger4burgers", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, userRepo := newAuthTestService(t)

	user, _, _, err := svc.Register("gone@example.com", "hunger4burgers", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user.Status = constants.UserStatusDisabled
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("gone@example.com", "hunger4burgers"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestSignOutRevokesOldTokens(t *testing.T) {
	svc, userRepo := newAuthTestService(t)

	user, token, _, err := svc.Register("bye@example.com", "hunger4burgers", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	versionBefore := user.TokenVersion

	// 队列未启用时登出同步落实吊销
	if err := svc.SignOut(user.ID); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	updated, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if updated.TokenVersion <= versionBefore {
		t.Fatalf("sign out must bump token version: %d -> %d", versionBefore, updated.TokenVersion)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("sign out must set invalid-before watermark")
	}

	// 旧 token 自身仍可解析，版本比对在认证中间件完成
	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.TokenVersion == updated.TokenVersion {
		t.Fatalf("old token must carry stale version")
	}
}

func TestSyncSessionRevocationIdempotent(t *testing.T) {
	svc, userRepo := newAuthTestService(t)

	user, _, _, err := svc.Register("twice@example.com", "hunger4burgers", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	revokedAt := time.Now()
	if err := svc.SyncSessionRevocation(user.ID, revokedAt); err != nil {
		t.Fatalf("first revocation failed: %v", err)
	}
	first, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}

	// 相同时间重放不再推进版本
	if err := svc.SyncSessionRevocation(user.ID, revokedAt); err != nil {
		t.Fatalf("replayed revocation failed: %v", err)
	}
	second, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if second.TokenVersion != first.TokenVersion {
		t.Fatalf("replay must be idempotent: %d -> %d", first.TokenVersion, second.TokenVersion)
	}

	if err := svc.SyncSessionRevocation(9999, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestChangePasswordInvalidatesSessions(t *testing.T) {
	svc, userRepo := newAuthTestService(t)

	user, _, _, err := svc.Register("rotate@example.com", "hunger4burgers", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old-1", "fresh4burgers"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "hunger4burgers", "fresh4burgers"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if updated.TokenVersion <= user.TokenVersion {
		t.Fatalf("password change must bump token version")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "fresh4burgers"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
