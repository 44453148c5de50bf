package service

import (
	"fmt"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"gorm.io/gorm"
)

// AllocationService 分配引擎：贪心从可用量最大的库位开始预留，
// 预留通过条件更新落库，条件不满足说明有并发写入，整个事务回滚。
type AllocationService struct {
	inventoryRepo   repository.InventoryRepository
	reservationRepo repository.ReservationRepository
	orderRepo       repository.OrderRepository
	backOrderRepo   repository.BackOrderRepository
	statusService   *OrderStatusService

	allowPartial bool
}

func NewAllocationService(
	inventoryRepo repository.InventoryRepository,
	reservationRepo repository.ReservationRepository,
	orderRepo repository.OrderRepository,
	backOrderRepo repository.BackOrderRepository,
	statusService *OrderStatusService,
	allowPartial bool,
) *AllocationService {
	return &AllocationService{
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		backOrderRepo:   backOrderRepo,
		statusService:   statusService,
		allowPartial:    allowPartial,
	}
}

// ProductAllocation 单商品分配结果
type ProductAllocation struct {
	ProductID        uint  `json:"product_id"`
	QuantityRequired int   `json:"quantity_required"`
	QuantityReserved int   `json:"quantity_reserved"`
	Shortfall        int   `json:"shortfall"`
	BackOrderID      *uint `json:"back_order_id,omitempty"`
}

// AllocationResult 整单分配结果
type AllocationResult struct {
	OrderID       uint                `json:"order_id"`
	OrderStatus   string              `json:"order_status"`
	FullyAllocated bool               `json:"fully_allocated"`
	Products      []ProductAllocation `json:"products"`
}

// AllocateOrder 对待分配订单执行一次整单分配。
// 缺口商品落缺货单，订单保持 pending；全部分足则推进到 allocated。
func (s *AllocationService) AllocateOrder(orderID, actorID uint) (*AllocationResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}
	if len(order.Items) == 0 {
		return nil, ErrOrderInvalid
	}

	// 预检：不允许部分分配时，任一商品分不足直接报错，不产生任何写入
	if !s.allowPartial {
		for _, item := range order.Items {
			available, err := s.totalAvailable(item.ProductID)
			if err != nil {
				return nil, err
			}
			if available < item.Quantity {
				return nil, ErrInsufficientStock
			}
		}
	}

	result := &AllocationResult{OrderID: order.ID}
	var oldStatus string
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			alloc, err := s.allocateProduct(tx, order.ID, item.ProductID, item.Quantity, actorID, constants.TxnRefTypeOrder, order.ID)
			if err != nil {
				return err
			}
			result.Products = append(result.Products, *alloc)
		}
		advanced, from, err := s.advanceIfFullyAllocated(tx, order, actorID)
		if err != nil {
			return err
		}
		result.FullyAllocated = advanced
		oldStatus = from
		result.OrderStatus = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.FullyAllocated {
		s.statusService.NotifyChanged(order.ID, oldStatus, order.Status)
	}
	logger.Infow("订单分配完成",
		"order_id", order.ID,
		"fully_allocated", result.FullyAllocated,
		"status", result.OrderStatus,
	)
	return result, nil
}

// AllocateBackOrder 对单张缺货单补配：要求当前可用量足额覆盖未补量，
// 分足后缺货单置 allocated，订单无剩余 pending 缺货单时整单推进。
func (s *AllocationService) AllocateBackOrder(backOrderID, actorID uint) (*AllocationResult, error) {
	backOrder, err := s.backOrderRepo.GetByID(backOrderID)
	if err != nil {
		return nil, err
	}
	if backOrder == nil {
		return nil, ErrBackOrderNotFound
	}
	if backOrder.Status != constants.BackOrderStatusPending {
		return nil, ErrBackOrderStatusInvalid
	}
	outstanding := backOrder.Outstanding()
	if outstanding <= 0 {
		return nil, ErrBackOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(backOrder.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	available, err := s.totalAvailable(backOrder.ProductID)
	if err != nil {
		return nil, err
	}
	if available < outstanding {
		return nil, ErrInsufficientStock
	}

	result := &AllocationResult{OrderID: order.ID}
	var oldStatus string
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		alloc, err := s.allocateProduct(tx, order.ID, backOrder.ProductID, outstanding, actorID, constants.TxnRefTypeBackOrder, backOrder.ID)
		if err != nil {
			return err
		}
		if alloc.Shortfall > 0 {
			// 预检通过后被并发耗尽，回滚重试
			return ErrInsufficientStock
		}
		result.Products = append(result.Products, *alloc)
		if err := s.backOrderRepo.WithTx(tx).UpdateFields(backOrder.ID, map[string]interface{}{
			"status": constants.BackOrderStatusAllocated,
		}); err != nil {
			return err
		}
		advanced, from, err := s.advanceIfFullyAllocated(tx, order, actorID)
		if err != nil {
			return err
		}
		result.FullyAllocated = advanced
		oldStatus = from
		result.OrderStatus = order.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.FullyAllocated {
		s.statusService.NotifyChanged(order.ID, oldStatus, order.Status)
	}
	logger.Infow("缺货单补配完成",
		"back_order_id", backOrder.ID,
		"order_id", order.ID,
		"quantity", outstanding,
	)
	return result, nil
}

// allocateProduct 对单商品执行贪心预留行走，返回预留量与缺口。
// 重复调用会在同一预留行上累加数量，调用方通过状态前置条件防止误重放。
func (s *AllocationService) allocateProduct(tx *gorm.DB, orderID, productID uint, required int, actorID uint, refType string, refID uint) (*ProductAllocation, error) {
	if required <= 0 {
		return nil, ErrInvalidQuantity
	}
	invRepo := s.inventoryRepo.WithTx(tx)
	resvRepo := s.reservationRepo.WithTx(tx)

	records, err := invRepo.ListRecordsByProduct(productID)
	if err != nil {
		return nil, err
	}
	ranked := rankRecordsByAvailable(records)

	alloc := &ProductAllocation{
		ProductID:        productID,
		QuantityRequired: required,
	}
	remaining := required
	for _, rec := range ranked {
		if remaining <= 0 {
			break
		}
		take := rec.Available()
		if take > remaining {
			take = remaining
		}
		rows, err := invRepo.ReserveStock(rec.ID, take)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			// 读到的可用量已被并发占用，按冲突处理让整个事务回滚
			logger.Warnw("库存预留条件更新失败",
				"product_id", productID,
				"location_id", rec.LocationID,
				"quantity", take,
			)
			return nil, ErrInsufficientStock
		}
		if _, err := resvRepo.Upsert(orderID, productID, rec.LocationID, take); err != nil {
			return nil, err
		}
		if err := invRepo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      productID,
			LocationID:     rec.LocationID,
			Type:           constants.TxnTypeAllocation,
			QuantityChange: -take,
			ReferenceType:  refType,
			ReferenceID:    refID,
			ActorID:        actorID,
		}); err != nil {
			return nil, err
		}
		remaining -= take
	}
	alloc.QuantityReserved = required - remaining
	alloc.Shortfall = remaining

	if remaining > 0 && refType == constants.TxnRefTypeOrder {
		reason := fmt.Sprintf("库存不足：需求 %d，已预留 %d", required, alloc.QuantityReserved)
		backOrder, err := s.backOrderRepo.WithTx(tx).Upsert(orderID, productID, remaining, reason)
		if err != nil {
			return nil, err
		}
		alloc.BackOrderID = &backOrder.ID
	}
	return alloc, nil
}

// advanceIfFullyAllocated 无剩余 pending 缺货单时清标记并推进订单到 allocated
func (s *AllocationService) advanceIfFullyAllocated(tx *gorm.DB, order *models.Order, actorID uint) (bool, string, error) {
	pending, err := s.backOrderRepo.WithTx(tx).CountPendingByOrder(order.ID)
	if err != nil {
		return false, "", err
	}
	orderRepo := s.orderRepo.WithTx(tx)
	if pending > 0 {
		if !order.HasBackOrders {
			if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{"has_back_orders": true}); err != nil {
				return false, "", err
			}
			order.HasBackOrders = true
		}
		return false, "", nil
	}
	if order.HasBackOrders {
		if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{"has_back_orders": false}); err != nil {
			return false, "", err
		}
		order.HasBackOrders = false
	}
	if order.Status != constants.OrderStatusPending {
		return false, "", nil
	}
	from := order.Status
	if err := s.statusService.Transition(tx, order, constants.OrderStatusAllocated, actorID, "库存分配完成"); err != nil {
		return false, "", err
	}
	return true, from, nil
}

func (s *AllocationService) totalAvailable(productID uint) (int, error) {
	records, err := s.inventoryRepo.ListRecordsByProduct(productID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, rec := range records {
		if rec.Available() > 0 {
			total += rec.Available()
		}
	}
	return total, nil
}
