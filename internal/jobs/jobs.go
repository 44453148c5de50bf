package jobs

import (
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/service"

	"github.com/robfig/cron/v3"
)

// Manager 定时任务管理器，目前只有每日库存对账
type Manager struct {
	cron      *cron.Cron
	reconcile *service.ReconcileService
	spec      string
}

// NewManager 创建定时任务管理器
func NewManager(reconcile *service.ReconcileService, reconcileSpec string) *Manager {
	if reconcileSpec == "" {
		reconcileSpec = "0 3 * * *"
	}
	return &Manager{
		cron:      cron.New(),
		reconcile: reconcile,
		spec:      reconcileSpec,
	}
}

// Start 注册并启动全部定时任务
func (m *Manager) Start() error {
	_, err := m.cron.AddFunc(m.spec, func() {
		report, err := m.reconcile.Run()
		if err != nil {
			logger.Errorw("定时库存对账失败", "error", err)
			return
		}
		if len(report.Issues) > 0 {
			logger.Warnw("定时库存对账发现差异", "issues", len(report.Issues))
		}
	})
	if err != nil {
		return err
	}
	m.cron.Start()
	logger.Infow("定时任务已启动", "reconcile_cron", m.spec)
	return nil
}

// Stop 停止调度并等待执行中的任务结束
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}
