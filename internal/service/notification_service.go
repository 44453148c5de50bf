package service

import (
	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/queue"
)

// NotificationService 业务通知出口：全部走异步队列，投递失败只记日志不阻断主流程
type NotificationService struct {
	queue *queue.Client
}

func NewNotificationService(queueClient *queue.Client) *NotificationService {
	return &NotificationService{queue: queueClient}
}

// OrderStatusChanged 订单状态变更通知
func (s *NotificationService) OrderStatusChanged(orderID uint, previous, current string) {
	err := s.queue.Enqueue(constants.TaskOrderStatusNotify, queue.OrderStatusNotifyPayload{
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      current,
	})
	if err != nil {
		logger.Warnw("订单状态通知入队失败",
			"order_id", orderID,
			"from", previous,
			"to", current,
			"error", err,
		)
	}
}

// BackOrdersEligible 缺货单可补配通知（收货后触发）
func (s *NotificationService) BackOrdersEligible(productID uint, backOrderIDs []uint) {
	err := s.queue.Enqueue(constants.TaskBackOrderEligible, queue.BackOrderEligiblePayload{
		ProductID:    productID,
		BackOrderIDs: backOrderIDs,
	})
	if err != nil {
		logger.Warnw("缺货补配通知入队失败",
			"product_id", productID,
			"back_order_count", len(backOrderIDs),
			"error", err,
		)
	}
}

// PickListCompleted 拣货单完成通知
func (s *NotificationService) PickListCompleted(pickListID uint, batchNo string) {
	err := s.queue.Enqueue(constants.TaskPickListCompleted, queue.PickListCompletedPayload{
		PickListID: pickListID,
		BatchNo:    batchNo,
	})
	if err != nil {
		logger.Warnw("拣货完成通知入队失败",
			"pick_list_id", pickListID,
			"batch_no", batchNo,
			"error", err,
		)
	}
}
