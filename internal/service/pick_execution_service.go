package service

import (
	"time"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"gorm.io/gorm"
)

// PickExecutionService 拣货执行：逐项记录 pick / short_pick / skip，
// 实拣量同事务扣减在库与预留并落 sale 流水。
type PickExecutionService struct {
	pickListRepo    repository.PickListRepository
	inventoryRepo   repository.InventoryRepository
	reservationRepo repository.ReservationRepository
	orderRepo       repository.OrderRepository
	statusService   *OrderStatusService
	notifier        *NotificationService
}

func NewPickExecutionService(
	pickListRepo repository.PickListRepository,
	inventoryRepo repository.InventoryRepository,
	reservationRepo repository.ReservationRepository,
	orderRepo repository.OrderRepository,
	statusService *OrderStatusService,
	notifier *NotificationService,
) *PickExecutionService {
	return &PickExecutionService{
		pickListRepo:    pickListRepo,
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		statusService:   statusService,
		notifier:        notifier,
	}
}

// RecordPickInput 拣货记录入参
type RecordPickInput struct {
	PickListID uint
	ItemID     uint
	Action     string // pick / short_pick / skip
	Quantity   int    // pick 时 0 表示整项拣完；short_pick 时为实拣量
	Reason     string // short_pick 必填
	ActorID    uint
}

// RecordPickResult 拣货记录结果
type RecordPickResult struct {
	Item          *models.PickListItem `json:"item"`
	PickList      *models.PickList     `json:"pick_list"`
	ListCompleted bool                 `json:"list_completed"`
}

// RecordPick 记录一次拣货动作。项进入终态后不可再次处理；
// 整单全部终态时拣货单完结，涉及订单推进到 picked 或 partially_picked。
func (s *PickExecutionService) RecordPick(input RecordPickInput) (*RecordPickResult, error) {
	item, err := s.pickListRepo.GetItemByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.PickListID != input.PickListID {
		return nil, ErrPickItemNotFound
	}
	if item.IsTerminal() {
		return nil, ErrPickItemProcessed
	}
	pickList, err := s.pickListRepo.GetByID(item.PickListID)
	if err != nil {
		return nil, err
	}
	if pickList == nil {
		return nil, ErrPickListNotFound
	}
	switch pickList.Status {
	case constants.PickListStatusPending, constants.PickListStatusAssigned, constants.PickListStatusInProgress:
	default:
		return nil, ErrPickListStatusInvalid
	}

	var itemStatus, eventType string
	actual := 0
	switch input.Action {
	case constants.PickActionPick:
		actual = input.Quantity
		if actual <= 0 {
			actual = item.QuantityToPick
		}
		// 实拣量封顶到应拣量，多扫不多扣
		if actual > item.QuantityToPick {
			actual = item.QuantityToPick
		}
		itemStatus = constants.PickItemStatusPicked
		eventType = constants.PickEventItemPicked
	case constants.PickActionShortPick:
		if input.Reason == "" {
			return nil, ErrPickReasonRequired
		}
		if input.Quantity < 0 || input.Quantity >= item.QuantityToPick {
			return nil, ErrInvalidQuantity
		}
		actual = input.Quantity
		itemStatus = constants.PickItemStatusShortPick
		eventType = constants.PickEventItemShortPicked
	case constants.PickActionSkip:
		itemStatus = constants.PickItemStatusSkipped
		eventType = constants.PickEventItemSkipped
	default:
		return nil, ErrInvalidQuantity
	}

	result := &RecordPickResult{}
	var completedOrders map[uint]string
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.pickListRepo.WithTx(tx)
		if err := repo.UpdateItemFields(item.ID, map[string]interface{}{
			"status":          itemStatus,
			"quantity_picked": actual,
		}); err != nil {
			return err
		}
		item.Status = itemStatus
		item.QuantityPicked = actual

		if actual > 0 {
			if err := s.consume(tx, item, actual, input.ActorID); err != nil {
				return err
			}
		}
		itemID := item.ID
		if err := repo.AppendEvent(&models.PickEvent{
			PickListID:     pickList.ID,
			PickListItemID: &itemID,
			EventType:      eventType,
			Quantity:       actual,
			ActorID:        input.ActorID,
			Notes:          input.Reason,
		}); err != nil {
			return err
		}

		terminal, err := repo.CountTerminalItems(pickList.ID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"picked_items": terminal}
		if terminal == 1 && pickList.StartTime == nil {
			now := time.Now()
			updates["status"] = constants.PickListStatusInProgress
			updates["start_time"] = now
			pickList.Status = constants.PickListStatusInProgress
			pickList.StartTime = &now
		}
		completed := terminal >= int64(pickList.TotalItems)
		if completed {
			now := time.Now()
			updates["status"] = constants.PickListStatusCompleted
			updates["end_time"] = now
			pickList.Status = constants.PickListStatusCompleted
			pickList.EndTime = &now
		}
		pickList.PickedItems = int(terminal)
		if err := repo.UpdateFields(pickList.ID, updates); err != nil {
			return err
		}
		if completed {
			if err := repo.AppendEvent(&models.PickEvent{
				PickListID: pickList.ID,
				EventType:  constants.PickEventCompleted,
				ActorID:    input.ActorID,
			}); err != nil {
				return err
			}
			completedOrders, err = s.advanceOrders(tx, pickList.ID, input.ActorID)
			if err != nil {
				return err
			}
		}
		result.ListCompleted = completed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.ListCompleted {
		s.notifier.PickListCompleted(pickList.ID, pickList.BatchNo)
		for orderID, status := range completedOrders {
			s.statusService.NotifyChanged(orderID, constants.OrderStatusPicking, status)
		}
		logger.Infow("拣货单已完成", "pick_list_id", pickList.ID, "batch_no", pickList.BatchNo)
	}
	result.Item = item
	result.PickList = pickList
	return result, nil
}

// consume 扣减库存与预留：sale 流水记负的实拣量
func (s *PickExecutionService) consume(tx *gorm.DB, item *models.PickListItem, actual int, actorID uint) error {
	invRepo := s.inventoryRepo.WithTx(tx)
	resvRepo := s.reservationRepo.WithTx(tx)

	record, err := invRepo.GetRecord(item.ProductID, item.LocationID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInventoryRecordMissing
	}
	if _, err := invRepo.ConsumeStock(record.ID, actual); err != nil {
		return err
	}
	if err := invRepo.AppendTransaction(&models.InventoryTransaction{
		ProductID:      item.ProductID,
		LocationID:     item.LocationID,
		Type:           constants.TxnTypeSale,
		QuantityChange: -actual,
		ReferenceType:  constants.TxnRefTypePickList,
		ReferenceID:    item.PickListID,
		ActorID:        actorID,
	}); err != nil {
		return err
	}

	resv, err := resvRepo.Get(item.OrderID, item.ProductID, item.LocationID)
	if err != nil {
		return err
	}
	if resv == nil || resv.Status != constants.ReservationStatusActive {
		return nil
	}
	if err := resvRepo.AddQuantity(resv.ID, -actual); err != nil {
		return err
	}
	if resv.Quantity-actual <= 0 {
		return resvRepo.UpdateStatus(resv.ID, constants.ReservationStatusConsumed)
	}
	return nil
}

// advanceOrders 拣货单完结后按各订单的项结果推进订单状态
func (s *PickExecutionService) advanceOrders(tx *gorm.DB, pickListID uint, actorID uint) (map[uint]string, error) {
	repo := s.pickListRepo.WithTx(tx)
	items, err := repo.ListItems(pickListID)
	if err != nil {
		return nil, err
	}
	full := make(map[uint]bool)
	for _, item := range items {
		if _, ok := full[item.OrderID]; !ok {
			full[item.OrderID] = true
		}
		if item.Status != constants.PickItemStatusPicked {
			full[item.OrderID] = false
		}
	}

	orderRepo := s.orderRepo.WithTx(tx)
	advanced := make(map[uint]string, len(full))
	for orderID, allPicked := range full {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if order == nil || order.Status != constants.OrderStatusPicking {
			continue
		}
		target := constants.OrderStatusPicked
		if !allPicked {
			target = constants.OrderStatusPartiallyPicked
		}
		if err := s.statusService.Transition(tx, order, target, actorID, "拣货完成"); err != nil {
			return nil, err
		}
		advanced[orderID] = target
	}
	return advanced, nil
}
