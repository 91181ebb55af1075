package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	cartPruneInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	consumer  *Consumer
	pruneDays int
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		consumer:  consumer,
		pruneDays: cfg.Cart.PruneAfterDays,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartService != nil {
		go s.runCartPruneLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runCartPruneLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.CartService == nil {
		return
	}
	runOnce := func() {
		removed, err := s.consumer.CartService.PruneIdle(s.pruneDays)
		if err != nil {
			logger.Warnw("worker_cart_prune_loop_failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("worker_cart_prune_loop_done", "removed", removed)
		}
	}
	runOnce()

	ticker := time.NewTicker(cartPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
