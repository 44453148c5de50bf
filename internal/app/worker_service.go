package app

import (
	"context"

	"github.com/cangku-next/internal/worker"
)

// WorkerService 异步任务消费服务封装
type WorkerService struct {
	worker *worker.Worker
}

// NewWorkerService 创建消费服务
func NewWorkerService(w *worker.Worker) *WorkerService {
	return &WorkerService{worker: w}
}

// Name 服务名称
func (s *WorkerService) Name() string {
	return "worker"
}

// Start 启动消费循环并等待取消
func (s *WorkerService) Start(ctx context.Context) error {
	if s == nil || s.worker == nil {
		return nil
	}
	if err := s.worker.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 优雅停止
func (s *WorkerService) Stop(ctx context.Context) error {
	if s == nil || s.worker == nil {
		return nil
	}
	s.worker.Shutdown()
	return nil
}
