package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bitekart/bitekart/internal/models"
)

const cartSnapshotTTL = 24 * time.Hour

// 购物车快照缓存：写穿透，多端并发写为 last-write-wins，
// 不提供跨端锁（已知并接受的一致性缺口）

func cartSnapshotKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

// GetCartSnapshot 读取购物车快照
func GetCartSnapshot(ctx context.Context, userID uint) (*models.Cart, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var cart models.Cart
	hit, err := GetJSON(ctx, cartSnapshotKey(userID), &cart)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &cart, true, nil
}

// SetCartSnapshot 写入购物车快照
func SetCartSnapshot(ctx context.Context, cart *models.Cart) error {
	if cart == nil || cart.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, cartSnapshotKey(cart.UserID), cart, cartSnapshotTTL)
}

// DelCartSnapshot 删除购物车快照
func DelCartSnapshot(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, cartSnapshotKey(userID))
}
