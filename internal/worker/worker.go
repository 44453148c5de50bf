package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cangku-next/internal/config"
	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/queue"
	"github.com/cangku-next/internal/service"

	"github.com/hibiken/asynq"
)

// Worker 异步任务消费端
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reconcile *service.ReconcileService
}

// New 创建消费端，队列未启用时返回 nil
func New(cfg *config.QueueConfig, reconcile *service.ReconcileService) *Worker {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{constants.QueueDefault: 10}
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Errorw("任务执行失败", "type", task.Type(), "error", err)
			}),
		},
	)
	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		reconcile: reconcile,
	}
	w.registerHandlers()
	return w
}

func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(constants.TaskOrderStatusNotify, w.handleOrderStatusNotify)
	w.mux.HandleFunc(constants.TaskBackOrderEligible, w.handleBackOrderEligible)
	w.mux.HandleFunc(constants.TaskPickListCompleted, w.handlePickListCompleted)
	w.mux.HandleFunc(constants.TaskInventoryReconcile, w.handleInventoryReconcile)
}

// Start 启动消费循环（非阻塞）
func (w *Worker) Start() error {
	if w == nil {
		return nil
	}
	return w.server.Start(w.mux)
}

// Shutdown 优雅停止
func (w *Worker) Shutdown() {
	if w == nil {
		return
	}
	w.server.Shutdown()
}

// handleOrderStatusNotify 订单状态变更通知落地（这里先记日志，外发渠道后续接入）
func (w *Worker) handleOrderStatusNotify(ctx context.Context, task *asynq.Task) error {
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("解析订单状态通知载荷失败: %w", err)
	}
	logger.Infow("订单状态变更通知",
		"order_id", payload.OrderID,
		"from", payload.PreviousStatus,
		"to", payload.NewStatus,
	)
	return nil
}

func (w *Worker) handleBackOrderEligible(ctx context.Context, task *asynq.Task) error {
	var payload queue.BackOrderEligiblePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("解析缺货补配通知载荷失败: %w", err)
	}
	logger.Infow("缺货单可补配提醒",
		"product_id", payload.ProductID,
		"back_order_ids", payload.BackOrderIDs,
	)
	return nil
}

func (w *Worker) handlePickListCompleted(ctx context.Context, task *asynq.Task) error {
	var payload queue.PickListCompletedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("解析拣货完成通知载荷失败: %w", err)
	}
	logger.Infow("拣货单完成通知",
		"pick_list_id", payload.PickListID,
		"batch_no", payload.BatchNo,
	)
	return nil
}

func (w *Worker) handleInventoryReconcile(ctx context.Context, task *asynq.Task) error {
	report, err := w.reconcile.Run()
	if err != nil {
		return err
	}
	if len(report.Issues) > 0 {
		logger.Warnw("异步对账发现差异", "issues", len(report.Issues))
	}
	return nil
}
