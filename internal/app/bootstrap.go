package app

import (
	"errors"

	"github.com/cangku-next/internal/config"
	"github.com/cangku-next/internal/jobs"
	"github.com/cangku-next/internal/provider"
	"github.com/cangku-next/internal/router"
	"github.com/cangku-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// 异步任务消费与定时对账
	if mode == ModeAll || mode == ModeWorker {
		if w := worker.New(&cfg.Queue, container.ReconcileService); w != nil {
			services = append(services, NewWorkerService(w))
		}
		manager := jobs.NewManager(container.ReconcileService, cfg.Warehouse.ReconcileCron)
		services = append(services, NewJobsService(manager))
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
