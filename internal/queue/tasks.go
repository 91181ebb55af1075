package queue

import (
	"encoding/json"
	"time"

	"github.com/bitekart/bitekart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSessionRevokeSync 会话远端吊销同步任务
	TaskSessionRevokeSync = constants.TaskSessionRevokeSync
	// TaskCartPrune 闲置购物车清理任务
	TaskCartPrune = constants.TaskCartPrune
)

// SessionRevokeSyncPayload 会话吊销任务载荷
type SessionRevokeSyncPayload struct {
	UserID    uint      `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// CartPrunePayload 购物车清理任务载荷
type CartPrunePayload struct {
	IdleDays int `json:"idle_days"`
}

// NewSessionRevokeSyncTask 创建会话吊销任务
func NewSessionRevokeSyncTask(payload SessionRevokeSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionRevokeSync, body), nil
}

// NewCartPruneTask 创建购物车清理任务
func NewCartPruneTask(payload CartPrunePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPrune, body), nil
}
