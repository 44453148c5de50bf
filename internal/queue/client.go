package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cangku-next/internal/config"
	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"

	"github.com/hibiken/asynq"
)

// Client 异步任务客户端，队列未启用时入队调用全部空转
type Client struct {
	client  *asynq.Client
	enabled bool
}

// NewClient 根据配置创建任务客户端
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		logger.Infow("队列未启用，异步任务降级为空操作")
		return &Client{}
	}
	opt := asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return &Client{
		client:  asynq.NewClient(opt),
		enabled: true,
	}
}

// Enabled 队列是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Enqueue 序列化载荷并入队，失败由调用方决定是否忽略
func (c *Client) Enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(taskType, data)
	if len(opts) == 0 {
		opts = []asynq.Option{
			asynq.Queue(constants.QueueDefault),
			asynq.MaxRetry(3),
			asynq.Timeout(30 * time.Second),
		}
	}
	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return err
	}
	logger.Debugw("任务已入队", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return nil
}
