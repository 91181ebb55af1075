package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/provider"
	"github.com/bitekart/bitekart/internal/queue"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSessionRevokeSync, c.handleSessionRevokeSync)
	mux.HandleFunc(queue.TaskCartPrune, c.handleCartPrune)
}

// handleSessionRevokeSync 同步会话吊销到服务端
// 登出时本地清理已经生效，这里负责把远端的令牌失效落实，失败交给队列重试
func (c *Consumer) handleSessionRevokeSync(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_session_revoke_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SessionRevokeSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_session_revoke_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_session_revoke_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.UserAuthService == nil {
		logger.Warnw("worker_session_revoke_skip_auth_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.UserAuthService.SyncSessionRevocation(payload.UserID, payload.RevokedAt); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_session_revoke_skip_user_not_found", "user_id", payload.UserID)
			return nil
		}
		logger.Warnw("worker_session_revoke_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	return nil
}

// handleCartPrune 清理长期未更新的购物车记录
func (c *Consumer) handleCartPrune(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_prune_unmarshal_failed", "error", err)
		return err
	}
	if c.CartService == nil {
		logger.Warnw("worker_cart_prune_skip_cart_service_nil")
		return nil
	}
	removed, err := c.CartService.PruneIdle(payload.IdleDays)
	if err != nil {
		logger.Warnw("worker_cart_prune_failed", "idle_days", payload.IdleDays, "error", err)
		return err
	}
	if removed > 0 {
		logger.Infow("worker_cart_prune_done", "idle_days", payload.IdleDays, "removed", removed)
	}
	return nil
}
