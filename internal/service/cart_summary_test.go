package service

import (
	"testing"

	"github.com/bitekart/bitekart/internal/models"

	"github.com/shopspring/decimal"
)

func testDeliveryFee(t *testing.T) models.Money {
	t.Helper()
	return mustMoney(t, "2.50")
}

func TestComputeCartSummaryEmptyCart(t *testing.T) {
	fee := testDeliveryFee(t)

	for _, cart := range []*models.Cart{nil, models.EmptyCart(1)} {
		summary := ComputeCartSummary(cart, fee)
		if !summary.IsEmpty {
			t.Fatalf("expected empty summary")
		}
		if summary.ItemCount != 0 {
			t.Fatalf("expected item count 0, got %d", summary.ItemCount)
		}
		// 空车不收配送费
		if !summary.DeliveryFee.Decimal.IsZero() {
			t.Fatalf("empty cart must have zero delivery fee, got %s", summary.DeliveryFee)
		}
		if !summary.Total.Decimal.IsZero() {
			t.Fatalf("empty cart total must be zero, got %s", summary.Total)
		}
	}
}

func TestComputeCartSummaryNonEmptyAddsDeliveryFee(t *testing.T) {
	fee := testDeliveryFee(t)
	cart := models.EmptyCart(1)
	cart.Lines = models.CartLines{
		{ProductID: 1, Quantity: 2, UnitPrice: mustMoney(t, "8.90")},
		{ProductID: 2, Quantity: 1, UnitPrice: mustMoney(t, "3.20")},
	}
	cart.Revision = 5

	summary := ComputeCartSummary(cart, fee)
	if summary.IsEmpty {
		t.Fatalf("expected non-empty summary")
	}
	if summary.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", summary.ItemCount)
	}
	wantSubtotal := decimal.RequireFromString("21.00")
	if !summary.Subtotal.Decimal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, summary.Subtotal)
	}
	if !summary.DeliveryFee.Decimal.Equal(fee.Decimal) {
		t.Fatalf("expected delivery fee %s, got %s", fee, summary.DeliveryFee)
	}
	wantTotal := decimal.RequireFromString("23.50")
	if !summary.Total.Decimal.Equal(wantTotal) {
		t.Fatalf("expected total %s, got %s", wantTotal, summary.Total)
	}
	if summary.Revision != 5 {
		t.Fatalf("expected revision 5, got %d", summary.Revision)
	}
}

func TestCartSummarizerMemoizesByRevision(t *testing.T) {
	summarizer := NewCartSummarizer(testDeliveryFee(t))
	cart := models.EmptyCart(1)
	cart.Lines = models.CartLines{{ProductID: 1, Quantity: 1, UnitPrice: mustMoney(t, "5.00")}}
	cart.Revision = 1

	first := summarizer.Summarize(cart)

	// 版本不变时返回记忆化结果，不重算
	cart.Lines[0].Quantity = 99
	cached := summarizer.Summarize(cart)
	if cached.ItemCount != first.ItemCount {
		t.Fatalf("unchanged revision must return memoized summary")
	}

	// 版本推进后重算
	cart.Revision = 2
	recomputed := summarizer.Summarize(cart)
	if recomputed.ItemCount != 99 {
		t.Fatalf("bumped revision must recompute, got count %d", recomputed.ItemCount)
	}

	// 丢弃记忆化后按当前状态重算
	cart.Lines[0].Quantity = 1
	summarizer.Forget(cart.UserID)
	fresh := summarizer.Summarize(cart)
	if fresh.ItemCount != 1 {
		t.Fatalf("forget must drop memoized entry, got count %d", fresh.ItemCount)
	}
}
