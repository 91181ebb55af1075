package service

import (
	"sync"

	"github.com/bitekart/bitekart/internal/models"

	"github.com/shopspring/decimal"
)

// CartSummary 购物车聚合摘要
// 由条目序列推导，不单独落库
type CartSummary struct {
	ItemCount   int          `json:"item_count"`   // 条目数量合计
	Subtotal    models.Money `json:"subtotal"`     // 条目小计
	DeliveryFee models.Money `json:"delivery_fee"` // 配送费（空车为 0）
	Total       models.Money `json:"total"`        // 小计 + 配送费
	IsEmpty     bool         `json:"is_empty"`     // 是否为空
	Revision    uint64       `json:"revision"`     // 计算时的购物车版本
}

type summaryEntry struct {
	revision uint64
	summary  CartSummary
}

// CartSummarizer 购物车摘要计算器
// 以 revision 为键做按用户记忆化：版本不变时直接返回上次结果，
// 任意变更（增删改、清空）都会推进 revision 并触发重算
type CartSummarizer struct {
	deliveryFee models.Money

	mu   sync.RWMutex
	memo map[uint]summaryEntry
}

// NewCartSummarizer 创建摘要计算器
func NewCartSummarizer(deliveryFee models.Money) *CartSummarizer {
	return &CartSummarizer{
		deliveryFee: deliveryFee,
		memo:        make(map[uint]summaryEntry),
	}
}

// Summarize 计算购物车摘要（带记忆化）
func (s *CartSummarizer) Summarize(cart *models.Cart) CartSummary {
	if cart == nil {
		return ComputeCartSummary(nil, s.deliveryFee)
	}

	s.mu.RLock()
	if entry, ok := s.memo[cart.UserID]; ok && entry.revision == cart.Revision {
		s.mu.RUnlock()
		return entry.summary
	}
	s.mu.RUnlock()

	summary := ComputeCartSummary(cart, s.deliveryFee)

	s.mu.Lock()
	s.memo[cart.UserID] = summaryEntry{revision: cart.Revision, summary: summary}
	s.mu.Unlock()
	return summary
}

// Forget 丢弃用户的记忆化结果
func (s *CartSummarizer) Forget(userID uint) {
	s.mu.Lock()
	delete(s.memo, userID)
	s.mu.Unlock()
}

// ComputeCartSummary 纯函数计算摘要
// 空车不收配送费，非空购物车固定收取
func ComputeCartSummary(cart *models.Cart, deliveryFee models.Money) CartSummary {
	zero := models.NewMoneyFromDecimal(decimal.Zero)
	if cart == nil || cart.IsEmpty() {
		revision := uint64(0)
		if cart != nil {
			revision = cart.Revision
		}
		return CartSummary{
			ItemCount:   0,
			Subtotal:    zero,
			DeliveryFee: zero,
			Total:       zero,
			IsEmpty:     true,
			Revision:    revision,
		}
	}

	subtotal := cart.ComputeTotal()
	total := models.NewMoneyFromDecimal(subtotal.Decimal.Add(deliveryFee.Decimal))
	return CartSummary{
		ItemCount:   cart.ItemCount(),
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       total,
		IsEmpty:     false,
		Revision:    cart.Revision,
	}
}
