package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Cart{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newCartTestService(t *testing.T, db *gorm.DB) *CartService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cart.DeliveryFee = "2.50"
	return NewCartService(cfg, repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func seedMenuProduct(t *testing.T, db *gorm.DB, slug, price string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:        slug,
		TitleJSON:   models.JSON{"en-US": slug},
		Category:    "burgers",
		PriceAmount: mustMoney(t, price),
		IsActive:    active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func mustMoney(t *testing.T, amount string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(amount)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", amount, err)
	}
	return m
}

func TestCartAddItemAccumulatesQuantity(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	product := seedMenuProduct(t, db, "classic-burger", "8.90", true)

	view, err := svc.AddItem(1, product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if view.Degraded {
		t.Fatalf("expected non-degraded result")
	}
	if view.Summary.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", view.Summary.ItemCount)
	}

	view, err = svc.AddItem(1, product.ID, 3)
	if err != nil {
		t.Fatalf("add item again failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected single line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Items[0].Quantity)
	}

	wantSubtotal := decimal.RequireFromString("44.50")
	if !view.Summary.Subtotal.Decimal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, view.Summary.Subtotal)
	}
	wantTotal := decimal.RequireFromString("47.00")
	if !view.Summary.Total.Decimal.Equal(wantTotal) {
		t.Fatalf("expected total %s, got %s", wantTotal, view.Summary.Total)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	inactive := seedMenuProduct(t, db, "retired-burger", "5.00", false)

	if _, err := svc.AddItem(1, inactive.ID, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
	if _, err := svc.AddItem(1, 9999, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable for unknown product, got %v", err)
	}
	if _, err := svc.AddItem(1, inactive.ID, 0); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("expected ErrInvalidCartItem for zero quantity, got %v", err)
	}
	if _, err := svc.AddItem(0, inactive.ID, 1); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("expected ErrInvalidCartItem for zero user, got %v", err)
	}
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	burger := seedMenuProduct(t, db, "cheese-burger", "9.50", true)
	fries := seedMenuProduct(t, db, "fries", "3.20", true)

	if _, err := svc.AddItem(1, burger.ID, 1); err != nil {
		t.Fatalf("add burger failed: %v", err)
	}
	if _, err := svc.AddItem(1, fries.ID, 2); err != nil {
		t.Fatalf("add fries failed: %v", err)
	}

	view, err := svc.SetQuantity(1, burger.ID, 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != fries.ID {
		t.Fatalf("expected only fries left, got %+v", view.Items)
	}

	view, err = svc.SetQuantity(1, fries.ID, 4)
	if err != nil {
		t.Fatalf("set fries quantity failed: %v", err)
	}
	if view.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", view.Items[0].Quantity)
	}
	wantSubtotal := decimal.RequireFromString("12.80")
	if !view.Summary.Subtotal.Decimal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, view.Summary.Subtotal)
	}
}

func TestCartSetQuantityAbsentProductNoop(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	burger := seedMenuProduct(t, db, "double-burger", "12.00", true)

	before, err := svc.AddItem(1, burger.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	after, err := svc.SetQuantity(1, 424242, 3)
	if err != nil {
		t.Fatalf("set quantity for absent product should not error: %v", err)
	}
	if after.Summary.Revision != before.Summary.Revision {
		t.Fatalf("absent product must not bump revision: %d -> %d", before.Summary.Revision, after.Summary.Revision)
	}
	if len(after.Items) != 1 || after.Items[0].Quantity != 1 {
		t.Fatalf("cart must be unchanged, got %+v", after.Items)
	}
}

func TestCartClearKeepsRecordAndBumpsRevision(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	burger := seedMenuProduct(t, db, "veggie-burger", "7.80", true)

	added, err := svc.AddItem(1, burger.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	cleared, err := svc.Clear(1)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !cleared.Summary.IsEmpty {
		t.Fatalf("expected empty cart after clear")
	}
	if cleared.Summary.Revision <= added.Summary.Revision {
		t.Fatalf("clear must bump revision: %d -> %d", added.Summary.Revision, cleared.Summary.Revision)
	}
	if !cleared.Summary.Total.Decimal.IsZero() {
		t.Fatalf("empty cart total must be zero, got %s", cleared.Summary.Total)
	}

	// 记录本身保留，重复清空不再推进版本
	again, err := svc.Clear(1)
	if err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if again.Summary.Revision != cleared.Summary.Revision {
		t.Fatalf("repeated clear must not bump revision")
	}
}

func TestCartPersistsAcrossServiceInstances(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	burger := seedMenuProduct(t, db, "bbq-burger", "10.40", true)

	if _, err := svc.AddItem(7, burger.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 新实例模拟进程重启后的加载
	reloaded := newCartTestService(t, db)
	view, err := reloaded.Get(7)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Degraded {
		t.Fatalf("expected non-degraded load")
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("expected persisted line, got %+v", view.Items)
	}
	wantSubtotal := decimal.RequireFromString("31.20")
	if !view.Summary.Subtotal.Decimal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, view.Summary.Subtotal)
	}
}

// failingCartRepo 模拟存储故障
type failingCartRepo struct {
	inner   repository.CartRepository
	failing bool
}

func (r *failingCartRepo) GetByUser(userID uint) (*models.Cart, error) {
	if r.failing {
		return nil, errors.New("storage down")
	}
	return r.inner.GetByUser(userID)
}

func (r *failingCartRepo) Save(cart *models.Cart) error {
	if r.failing {
		return errors.New("storage down")
	}
	return r.inner.Save(cart)
}

func (r *failingCartRepo) DeleteByUser(userID uint) error {
	if r.failing {
		return errors.New("storage down")
	}
	return r.inner.DeleteByUser(userID)
}

func (r *failingCartRepo) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	if r.failing {
		return 0, errors.New("storage down")
	}
	return r.inner.DeleteIdleBefore(cutoff)
}

func TestCartDegradedFallbackAndRecovery(t *testing.T) {
	db := newCartTestDB(t)
	burger := seedMenuProduct(t, db, "spicy-burger", "6.60", true)

	repo := &failingCartRepo{inner: repository.NewCartRepository(db)}
	cfg := &config.Config{}
	cfg.Cart.DeliveryFee = "2.50"
	svc := NewCartService(cfg, repo, repository.NewProductRepository(db))

	repo.failing = true
	view, err := svc.AddItem(3, burger.ID, 2)
	if err != nil {
		t.Fatalf("degraded add must succeed in-memory: %v", err)
	}
	if !view.Degraded {
		t.Fatalf("expected degraded flag while storage is down")
	}
	if view.Summary.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", view.Summary.ItemCount)
	}

	// 兜底状态在会话内继续可用
	view, err = svc.AddItem(3, burger.ID, 1)
	if err != nil {
		t.Fatalf("second degraded add failed: %v", err)
	}
	if !view.Degraded || view.Summary.ItemCount != 3 {
		t.Fatalf("expected degraded cart with count 3, got degraded=%v count=%d", view.Degraded, view.Summary.ItemCount)
	}

	// 存储恢复后下一次变更回写并摘除降级标记
	repo.failing = false
	view, err = svc.AddItem(3, burger.ID, 1)
	if err != nil {
		t.Fatalf("recovered add failed: %v", err)
	}
	if view.Degraded {
		t.Fatalf("expected recovery after storage is back")
	}

	persisted, err := repo.inner.GetByUser(3)
	if err != nil {
		t.Fatalf("load persisted cart failed: %v", err)
	}
	if persisted == nil || persisted.ItemCount() != 4 {
		t.Fatalf("expected fallback state written back, got %+v", persisted)
	}
}

func TestCartPruneIdle(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartTestService(t, db)
	burger := seedMenuProduct(t, db, "night-burger", "4.40", true)

	if _, err := svc.AddItem(11, burger.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	// 人为做旧
	stale := time.Now().AddDate(0, 0, -60)
	if err := db.Model(&models.Cart{}).Where("user_id = ?", 11).Update("updated_at", stale).Error; err != nil {
		t.Fatalf("backdate cart failed: %v", err)
	}
	if _, err := svc.AddItem(12, burger.ID, 1); err != nil {
		t.Fatalf("add fresh cart failed: %v", err)
	}

	removed, err := svc.PruneIdle(30)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned cart, got %d", removed)
	}

	fresh, err := svc.Get(12)
	if err != nil {
		t.Fatalf("get fresh cart failed: %v", err)
	}
	if fresh.Summary.IsEmpty {
		t.Fatalf("fresh cart must survive prune")
	}
}
