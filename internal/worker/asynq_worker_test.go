package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/provider"
	"github.com/bitekart/bitekart/internal/queue"
	"github.com/bitekart/bitekart/internal/repository"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newWorkerTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Cart.DeliveryFee = "2.50"
	userRepo := repository.NewUserRepository(db)
	container := &provider.Container{
		Config:          cfg,
		UserRepo:        userRepo,
		UserAuthService: service.NewUserAuthService(cfg, userRepo, nil),
		CartService:     service.NewCartService(cfg, repository.NewCartRepository(db), repository.NewProductRepository(db)),
	}
	return NewConsumer(container), db
}

func TestHandleSessionRevokeSyncBumpsTokenVersion(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)

	user := &models.User{Email: "eater@example.com", PasswordHash: "x", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	revokedAt := time.Now()
	task, err := queue.NewSessionRevokeSyncTask(queue.SessionRevokeSyncPayload{UserID: user.ID, RevokedAt: revokedAt})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSessionRevokeSync(context.Background(), task); err != nil {
		t.Fatalf("handle revoke failed: %v", err)
	}

	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.TokenVersion != 1 {
		t.Fatalf("token version want 1 got %d", got.TokenVersion)
	}
	if got.TokenInvalidBefore == nil {
		t.Fatalf("token invalid watermark must be set")
	}

	// 重复投递不得再次推进版本
	if err := consumer.handleSessionRevokeSync(context.Background(), task); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if got.TokenVersion != 1 {
		t.Fatalf("redelivery must be idempotent, token version got %d", got.TokenVersion)
	}
}

func TestHandleSessionRevokeSyncUnknownUserSkips(t *testing.T) {
	consumer, _ := newWorkerTestConsumer(t)

	task, err := queue.NewSessionRevokeSyncTask(queue.SessionRevokeSyncPayload{UserID: 9999, RevokedAt: time.Now()})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSessionRevokeSync(context.Background(), task); err != nil {
		t.Fatalf("unknown user must not trigger retry, got %v", err)
	}
}

func TestHandleCartPruneRemovesIdleCarts(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)

	product := &models.Product{
		Slug:      "prune-burger",
		TitleJSON: models.JSON{"en-US": "prune-burger"},
		IsActive:  true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	if _, err := consumer.CartService.AddItem(7, product.ID, 1); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	stale := time.Now().AddDate(0, 0, -60)
	if err := db.Model(&models.Cart{}).Where("user_id = ?", 7).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate cart failed: %v", err)
	}

	task, err := queue.NewCartPruneTask(queue.CartPrunePayload{IdleDays: 30})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartPrune(context.Background(), task); err != nil {
		t.Fatalf("handle prune failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("idle cart must be pruned, count got %d", count)
	}
}
