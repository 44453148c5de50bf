package service

import (
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"
)

// BackOrderService 缺货单查询与人工补配入口
type BackOrderService struct {
	backOrderRepo     repository.BackOrderRepository
	inventoryRepo     repository.InventoryRepository
	allocationService *AllocationService
}

func NewBackOrderService(
	backOrderRepo repository.BackOrderRepository,
	inventoryRepo repository.InventoryRepository,
	allocationService *AllocationService,
) *BackOrderService {
	return &BackOrderService{
		backOrderRepo:     backOrderRepo,
		inventoryRepo:     inventoryRepo,
		allocationService: allocationService,
	}
}

// EligibleBackOrder 可补配缺货单（当前可用量足额覆盖未补量）
type EligibleBackOrder struct {
	BackOrder models.BackOrder `json:"back_order"`
	Available int              `json:"available"`
}

// ListEligible 列出指定商品当前可补配的缺货单，先到先得排序
func (s *BackOrderService) ListEligible(productID uint) ([]EligibleBackOrder, error) {
	pending, err := s.backOrderRepo.ListPendingByProduct(productID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	records, err := s.inventoryRepo.ListRecordsByProduct(productID)
	if err != nil {
		return nil, err
	}
	available := 0
	for _, rec := range records {
		if rec.Available() > 0 {
			available += rec.Available()
		}
	}

	var eligible []EligibleBackOrder
	remaining := available
	for _, bo := range pending {
		if bo.Outstanding() <= 0 || bo.Outstanding() > remaining {
			continue
		}
		eligible = append(eligible, EligibleBackOrder{BackOrder: bo, Available: remaining})
		remaining -= bo.Outstanding()
	}
	return eligible, nil
}

// Fulfill 人工触发补配，内部走分配引擎
func (s *BackOrderService) Fulfill(backOrderID, actorID uint) (*AllocationResult, error) {
	return s.allocationService.AllocateBackOrder(backOrderID, actorID)
}

// List 分页查询缺货单
func (s *BackOrderService) List(filter repository.BackOrderListFilter) ([]models.BackOrder, int64, error) {
	return s.backOrderRepo.List(filter)
}

// Get 获取缺货单详情
func (s *BackOrderService) Get(backOrderID uint) (*models.BackOrder, error) {
	backOrder, err := s.backOrderRepo.GetByID(backOrderID)
	if err != nil {
		return nil, err
	}
	if backOrder == nil {
		return nil, ErrBackOrderNotFound
	}
	return backOrder, nil
}

// CountPending 统计待处理缺货单数量
func (s *BackOrderService) CountPending(orderID uint) (int64, error) {
	return s.backOrderRepo.CountPendingByOrder(orderID)
}
