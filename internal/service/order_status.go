package service

import (
	"gorm.io/gorm"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"
)

// allowedTransitions 订单状态机白名单，未列出的跳转一律拒绝
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusAllocated: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusAllocated: {
		constants.OrderStatusPicking:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPicking: {
		constants.OrderStatusPicked:          true,
		constants.OrderStatusPartiallyPicked: true,
		constants.OrderStatusAllocated:       true,
		constants.OrderStatusCancelled:       true,
	},
	constants.OrderStatusPicked: {
		constants.OrderStatusPacked:    true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPartiallyPicked: {
		constants.OrderStatusPacked:    true,
		constants.OrderStatusPicking:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPacked: {
		constants.OrderStatusShipped:          true,
		constants.OrderStatusPartiallyShipped: true,
	},
	constants.OrderStatusPartiallyShipped: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusFulfilled: true,
		constants.OrderStatusReturned:  true,
	},
}

// terminalStatuses 终态集合，终态订单不再接受任何跳转
var terminalStatuses = map[string]bool{
	constants.OrderStatusDelivered: true,
	constants.OrderStatusFulfilled: true,
	constants.OrderStatusCancelled: true,
	constants.OrderStatusReturned:  true,
}

// CanTransition 判断 from -> to 是否为合法跳转
func CanTransition(from, to string) bool {
	if terminalStatuses[from] {
		return false
	}
	return allowedTransitions[from][to]
}

// IsTerminalStatus 判断订单状态是否为终态
func IsTerminalStatus(status string) bool {
	return terminalStatuses[status]
}

// OrderStatusService 订单状态机：所有状态变更都经过这里，保证历史完整
type OrderStatusService struct {
	orderRepo repository.OrderRepository
	notifier  *NotificationService
}

func NewOrderStatusService(orderRepo repository.OrderRepository, notifier *NotificationService) *OrderStatusService {
	return &OrderStatusService{orderRepo: orderRepo, notifier: notifier}
}

// Transition 在给定事务内执行一次状态跳转并追加历史
func (s *OrderStatusService) Transition(tx *gorm.DB, order *models.Order, newStatus string, actorID uint, notes string) error {
	if !CanTransition(order.Status, newStatus) {
		logger.Warnw("订单状态跳转被拒绝",
			"order_id", order.ID,
			"from", order.Status,
			"to", newStatus,
		)
		return ErrOrderStatusInvalid
	}

	repo := s.orderRepo.WithTx(tx)
	oldStatus := order.Status
	if err := repo.UpdateStatus(order.ID, newStatus); err != nil {
		return err
	}
	history := &models.OrderStatusHistory{
		OrderID:        order.ID,
		PreviousStatus: oldStatus,
		NewStatus:      newStatus,
		ChangedBy:      actorID,
		Notes:          notes,
	}
	if err := repo.AppendStatusHistory(history); err != nil {
		return err
	}
	order.Status = newStatus
	return nil
}

// NotifyChanged 事务提交后调用，投递状态变更通知（失败只记日志）
func (s *OrderStatusService) NotifyChanged(orderID uint, from, to string) {
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(orderID, from, to)
	}
}
