package app

import (
	"context"

	"github.com/cangku-next/internal/jobs"
)

// JobsService 定时任务服务封装
type JobsService struct {
	manager *jobs.Manager
}

// NewJobsService 创建定时任务服务
func NewJobsService(m *jobs.Manager) *JobsService {
	return &JobsService{manager: m}
}

// Name 服务名称
func (s *JobsService) Name() string {
	return "jobs"
}

// Start 启动调度并等待取消
func (s *JobsService) Start(ctx context.Context) error {
	if s == nil || s.manager == nil {
		return nil
	}
	if err := s.manager.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止调度
func (s *JobsService) Stop(ctx context.Context) error {
	if s == nil || s.manager == nil {
		return nil
	}
	s.manager.Stop()
	return nil
}
