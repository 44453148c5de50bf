package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PickListService 拣货单服务：从预留生成按库区排序的拣货路径
type PickListService struct {
	pickListRepo    repository.PickListRepository
	orderRepo       repository.OrderRepository
	reservationRepo repository.ReservationRepository
	locationRepo    repository.LocationRepository
	statusService   *OrderStatusService

	batchPrefix string
}

func NewPickListService(
	pickListRepo repository.PickListRepository,
	orderRepo repository.OrderRepository,
	reservationRepo repository.ReservationRepository,
	locationRepo repository.LocationRepository,
	statusService *OrderStatusService,
	batchPrefix string,
) *PickListService {
	if strings.TrimSpace(batchPrefix) == "" {
		batchPrefix = "PL"
	}
	return &PickListService{
		pickListRepo:    pickListRepo,
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		locationRepo:    locationRepo,
		statusService:   statusService,
		batchPrefix:     batchPrefix,
	}
}

// GenerateInput 拣货单生成入参
type GenerateInput struct {
	OrderIDs   []uint
	AssignedTo uint
	ActorID    uint
}

// pickCandidate 生成过程中的中间元组
type pickCandidate struct {
	orderID    uint
	productID  uint
	locationID uint
	quantity   int
	zone       string
	code       string
}

// Generate 为一批已分配订单生成拣货单。
// 拣货来源取各商品的预留库位，预留量大的优先；
// 整单按库区、库位编码排序形成行走顺序。
func (s *PickListService) Generate(input GenerateInput) (*models.PickList, error) {
	if len(input.OrderIDs) == 0 {
		return nil, ErrOrderInvalid
	}

	orders := make([]*models.Order, 0, len(input.OrderIDs))
	for _, orderID := range input.OrderIDs {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		if order.Status != constants.OrderStatusAllocated {
			return nil, ErrOrderStatusInvalid
		}
		orders = append(orders, order)
	}

	candidates, err := s.collectCandidates(orders)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrOrderInvalid
	}

	// 行走顺序：库区字典序，区内按库位编码，稳定排序保证可重复
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].zone != candidates[j].zone {
			return candidates[i].zone < candidates[j].zone
		}
		if candidates[i].code != candidates[j].code {
			return candidates[i].code < candidates[j].code
		}
		return candidates[i].productID < candidates[j].productID
	})

	status := constants.PickListStatusPending
	if input.AssignedTo > 0 {
		status = constants.PickListStatusAssigned
	}
	pickList := &models.PickList{
		BatchNo:    s.generateBatchNo(),
		Status:     status,
		AssignedTo: input.AssignedTo,
		TotalItems: len(candidates),
	}
	items := make([]models.PickListItem, 0, len(candidates))
	for i, c := range candidates {
		items = append(items, models.PickListItem{
			OrderID:        c.orderID,
			ProductID:      c.productID,
			LocationID:     c.locationID,
			QuantityToPick: c.quantity,
			Status:         constants.PickItemStatusPending,
			PickSequence:   i + 1,
		})
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.pickListRepo.WithTx(tx)
		if err := repo.Create(pickList, items); err != nil {
			return err
		}
		if err := repo.AppendEvent(&models.PickEvent{
			PickListID: pickList.ID,
			EventType:  constants.PickEventStarted,
			ActorID:    input.ActorID,
			Notes:      fmt.Sprintf("批次 %s 生成，共 %d 项", pickList.BatchNo, len(items)),
		}); err != nil {
			return err
		}
		for _, order := range orders {
			if err := s.statusService.Transition(tx, order, constants.OrderStatusPicking, input.ActorID, "拣货单 "+pickList.BatchNo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		s.statusService.NotifyChanged(order.ID, constants.OrderStatusAllocated, constants.OrderStatusPicking)
	}
	logger.Infow("拣货单已生成",
		"pick_list_id", pickList.ID,
		"batch_no", pickList.BatchNo,
		"orders", len(orders),
		"items", len(items),
	)
	return s.pickListRepo.GetByID(pickList.ID)
}

// collectCandidates 把各订单的活跃预留展开成拣货元组
func (s *PickListService) collectCandidates(orders []*models.Order) ([]pickCandidate, error) {
	var candidates []pickCandidate
	locationIDs := make([]uint, 0)
	seen := make(map[uint]bool)

	for _, order := range orders {
		reservations, err := s.reservationRepo.ListByOrder(order.ID)
		if err != nil {
			return nil, err
		}
		byProduct := make(map[uint][]models.Reservation)
		for _, resv := range reservations {
			if resv.Status != constants.ReservationStatusActive || resv.Quantity <= 0 {
				continue
			}
			byProduct[resv.ProductID] = append(byProduct[resv.ProductID], resv)
		}
		for productID, group := range byProduct {
			for _, resv := range rankReservationsByQuantity(group) {
				candidates = append(candidates, pickCandidate{
					orderID:    order.ID,
					productID:  productID,
					locationID: resv.LocationID,
					quantity:   resv.Quantity,
				})
				if !seen[resv.LocationID] {
					seen[resv.LocationID] = true
					locationIDs = append(locationIDs, resv.LocationID)
				}
			}
		}
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	locations, err := s.locationRepo.GetByIDs(locationIDs)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		loc, ok := locations[candidates[i].locationID]
		if !ok {
			return nil, ErrLocationNotFound
		}
		candidates[i].zone = loc.Zone
		candidates[i].code = loc.Code
	}
	return candidates, nil
}

// Assign 指派或改派拣货员
func (s *PickListService) Assign(pickListID, assigneeID, actorID uint) error {
	pickList, err := s.pickListRepo.GetByID(pickListID)
	if err != nil {
		return err
	}
	if pickList == nil {
		return ErrPickListNotFound
	}
	if pickList.Status != constants.PickListStatusPending && pickList.Status != constants.PickListStatusAssigned {
		return ErrPickListStatusInvalid
	}
	return s.pickListRepo.UpdateFields(pickListID, map[string]interface{}{
		"status":      constants.PickListStatusAssigned,
		"assigned_to": assigneeID,
	})
}

// Pause 暂停进行中的拣货单
func (s *PickListService) Pause(pickListID, actorID uint) error {
	return s.togglePause(pickListID, actorID,
		constants.PickListStatusInProgress, constants.PickListStatusPaused, constants.PickEventPaused)
}

// Resume 恢复已暂停的拣货单
func (s *PickListService) Resume(pickListID, actorID uint) error {
	return s.togglePause(pickListID, actorID,
		constants.PickListStatusPaused, constants.PickListStatusInProgress, constants.PickEventResumed)
}

func (s *PickListService) togglePause(pickListID, actorID uint, from, to, eventType string) error {
	pickList, err := s.pickListRepo.GetByID(pickListID)
	if err != nil {
		return err
	}
	if pickList == nil {
		return ErrPickListNotFound
	}
	if pickList.Status != from {
		return ErrPickListStatusInvalid
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.pickListRepo.WithTx(tx)
		if err := repo.UpdateFields(pickListID, map[string]interface{}{"status": to}); err != nil {
			return err
		}
		return repo.AppendEvent(&models.PickEvent{
			PickListID: pickListID,
			EventType:  eventType,
			ActorID:    actorID,
		})
	})
}

// Cancel 取消拣货单：仅允许尚无已处理项时取消，相关订单退回 allocated
func (s *PickListService) Cancel(pickListID, actorID uint, reason string) error {
	pickList, err := s.pickListRepo.GetByID(pickListID)
	if err != nil {
		return err
	}
	if pickList == nil {
		return ErrPickListNotFound
	}
	switch pickList.Status {
	case constants.PickListStatusCompleted, constants.PickListStatusCancelled:
		return ErrPickListStatusInvalid
	}
	terminal, err := s.pickListRepo.CountTerminalItems(pickListID)
	if err != nil {
		return err
	}
	if terminal > 0 {
		return ErrPickListStatusInvalid
	}

	orderIDs := distinctOrderIDs(pickList.Items)
	var reverted []*models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.pickListRepo.WithTx(tx)
		if err := repo.UpdateFields(pickListID, map[string]interface{}{"status": constants.PickListStatusCancelled}); err != nil {
			return err
		}
		if err := repo.AppendEvent(&models.PickEvent{
			PickListID: pickListID,
			EventType:  constants.PickEventCancelled,
			ActorID:    actorID,
			Notes:      reason,
		}); err != nil {
			return err
		}
		orderRepo := s.orderRepo.WithTx(tx)
		for _, orderID := range orderIDs {
			order, err := orderRepo.GetByID(orderID)
			if err != nil {
				return err
			}
			if order == nil || order.Status != constants.OrderStatusPicking {
				continue
			}
			if err := s.statusService.Transition(tx, order, constants.OrderStatusAllocated, actorID, "拣货单取消"); err != nil {
				return err
			}
			reverted = append(reverted, order)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, order := range reverted {
		s.statusService.NotifyChanged(order.ID, constants.OrderStatusPicking, constants.OrderStatusAllocated)
	}
	logger.Infow("拣货单已取消", "pick_list_id", pickListID, "batch_no", pickList.BatchNo)
	return nil
}

// GetPickList 获取拣货单详情（项按行走顺序排列）
func (s *PickListService) GetPickList(pickListID uint) (*models.PickList, error) {
	pickList, err := s.pickListRepo.GetByID(pickListID)
	if err != nil {
		return nil, err
	}
	if pickList == nil {
		return nil, ErrPickListNotFound
	}
	return pickList, nil
}

// ListPickLists 分页查询拣货单
func (s *PickListService) ListPickLists(filter repository.PickListFilter) ([]models.PickList, int64, error) {
	return s.pickListRepo.List(filter)
}

// ListEvents 查询拣货单事件流
func (s *PickListService) ListEvents(pickListID uint) ([]models.PickEvent, error) {
	return s.pickListRepo.ListEvents(pickListID)
}

func (s *PickListService) generateBatchNo() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", s.batchPrefix, time.Now().Format("20060102"), fragment)
}

func distinctOrderIDs(items []models.PickListItem) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, item := range items {
		if !seen[item.OrderID] {
			seen[item.OrderID] = true
			ids = append(ids, item.OrderID)
		}
	}
	return ids
}
