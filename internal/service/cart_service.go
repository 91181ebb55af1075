package service

import (
	"context"
	"sync"
	"time"

	"github.com/bitekart/bitekart/internal/cache"
	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartView 购物车读写结果（用于响应）
// Degraded 表示本次结果来自内存兜底，存储不可用期间数据不跨进程持久
type CartView struct {
	Items    models.CartLines `json:"items"`
	Summary  CartSummary      `json:"summary"`
	Degraded bool             `json:"degraded"`
}

// CartService 购物车服务
// 每用户一条持久化记录，所有变更按用户串行执行；
// 存储故障时退化为进程内兜底，保证会话内购物车仍可操作
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	summarizer  *CartSummarizer

	userLocks sync.Map // map[uint]*sync.Mutex

	fallbackMu sync.RWMutex
	fallback   map[uint]*models.Cart
}

// NewCartService 创建购物车服务
func NewCartService(cfg *config.Config, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	fee := resolveDeliveryFee(cfg)
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		summarizer:  NewCartSummarizer(fee),
		fallback:    make(map[uint]*models.Cart),
	}
}

// Summarizer 返回摘要计算器
func (s *CartService) Summarizer() *CartSummarizer {
	return s.summarizer
}

// Get 读取用户购物车
func (s *CartService) Get(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidCartItem
	}
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, degraded := s.loadCart(userID)
	return s.view(cart, degraded), nil
}

// AddItem 加入商品
// 已存在同商品时数量累加，单价沿用首次加入时捕获的价格
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartView, error) {
	if userID == 0 || productID == 0 || quantity <= 0 {
		return nil, ErrInvalidCartItem
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, degraded := s.loadCart(userID)
	if idx := cart.LineIndex(productID); idx >= 0 {
		cart.Lines[idx].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.PriceAmount,
		})
	}
	return s.commit(cart, degraded)
}

// SetQuantity 覆盖设置商品数量
// 数量归零即移除条目；商品不在购物车中时静默忽略
func (s *CartService) SetQuantity(userID, productID uint, quantity int) (*CartView, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidCartItem
	}
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, degraded := s.loadCart(userID)
	idx := cart.LineIndex(productID)
	if idx < 0 {
		return s.view(cart, degraded), nil
	}
	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	} else {
		cart.Lines[idx].Quantity = quantity
	}
	return s.commit(cart, degraded)
}

// RemoveItem 移除商品
// 商品不在购物车中时静默忽略
func (s *CartService) RemoveItem(userID, productID uint) (*CartView, error) {
	return s.SetQuantity(userID, productID, 0)
}

// Clear 清空购物车
// 保留记录本身，条目清空并推进版本
func (s *CartService) Clear(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidCartItem
	}
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cart, degraded := s.loadCart(userID)
	if cart.IsEmpty() && cart.ID != 0 {
		return s.view(cart, degraded), nil
	}
	cart.Lines = models.CartLines{}
	return s.commit(cart, degraded)
}

// PruneIdle 清理闲置购物车记录
func (s *CartService) PruneIdle(idleDays int) (int64, error) {
	if idleDays <= 0 {
		idleDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -idleDays)
	return s.cartRepo.DeleteIdleBefore(cutoff)
}

func (s *CartService) lockUser(userID uint) *sync.Mutex {
	actual, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// loadCart 读取当前购物车状态
// 优先持久化存储；读失败时回退进程内兜底，没有兜底则给空车
func (s *CartService) loadCart(userID uint) (*models.Cart, bool) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err == nil {
		if fallback := s.getFallback(userID); fallback != nil {
			// 故障期间的本地变更还未回写，版本更新的本地状态优先
			if cart == nil || fallback.Revision > cart.Revision {
				if cart != nil {
					fallback.ID = cart.ID
					fallback.CreatedAt = cart.CreatedAt
				}
				return fallback, false
			}
			s.dropFallback(userID)
		}
		if cart == nil {
			cart = models.EmptyCart(userID)
		}
		return cart, false
	}

	logger.Warnw("cart_load_degraded", "user_id", userID, "error", err)
	if fallback := s.getFallback(userID); fallback != nil {
		return fallback, true
	}
	return models.EmptyCart(userID), true
}

// commit 重算合计、推进版本并整单落库
// 每次都尝试写存储，存储恢复后兜底状态自动回写；
// 落库失败时转入内存兜底，本次操作在会话内仍然生效
func (s *CartService) commit(cart *models.Cart, _ bool) (*CartView, error) {
	cart.Total = cart.ComputeTotal()
	cart.Revision++

	degraded := false
	if err := s.cartRepo.Save(cart); err != nil {
		logger.Warnw("cart_save_degraded", "user_id", cart.UserID, "error", err)
		degraded = true
	}

	if degraded {
		s.setFallback(cart)
	} else {
		s.dropFallback(cart.UserID)
		_ = cache.SetCartSnapshot(context.Background(), cart)
	}
	return s.view(cart, degraded), nil
}

func (s *CartService) view(cart *models.Cart, degraded bool) *CartView {
	items := cart.Lines
	if items == nil {
		items = models.CartLines{}
	}
	return &CartView{
		Items:    items,
		Summary:  s.summarizer.Summarize(cart),
		Degraded: degraded,
	}
}

func (s *CartService) getFallback(userID uint) *models.Cart {
	s.fallbackMu.RLock()
	defer s.fallbackMu.RUnlock()
	return s.fallback[userID]
}

func (s *CartService) setFallback(cart *models.Cart) {
	s.fallbackMu.Lock()
	s.fallback[cart.UserID] = cart
	s.fallbackMu.Unlock()
}

func (s *CartService) dropFallback(userID uint) {
	s.fallbackMu.Lock()
	delete(s.fallback, userID)
	s.fallbackMu.Unlock()
}

func resolveDeliveryFee(cfg *config.Config) models.Money {
	if cfg != nil {
		if fee, err := models.NewMoneyFromString(cfg.Cart.DeliveryFee); err == nil {
			return fee
		}
	}
	return models.NewMoneyFromDecimal(decimal.RequireFromString("2.50"))
}
