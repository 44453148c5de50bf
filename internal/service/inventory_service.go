package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cangku-next/internal/cache"
	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存台账服务：所有数量变更都落流水，计数器与流水同事务提交
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	locationRepo  repository.LocationRepository
	backOrderRepo repository.BackOrderRepository
	notifier      *NotificationService

	availabilityTTL time.Duration
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	backOrderRepo repository.BackOrderRepository,
	notifier *NotificationService,
	availabilityTTL time.Duration,
) *InventoryService {
	if availabilityTTL <= 0 {
		availabilityTTL = 30 * time.Second
	}
	return &InventoryService{
		inventoryRepo:   inventoryRepo,
		productRepo:     productRepo,
		locationRepo:    locationRepo,
		backOrderRepo:   backOrderRepo,
		notifier:        notifier,
		availabilityTTL: availabilityTTL,
	}
}

func availabilityCacheKey(productID uint) string {
	return fmt.Sprintf("availability:%d", productID)
}

// AdjustInput 库存调整入参
type AdjustInput struct {
	ProductID  uint
	LocationID uint
	Delta      int
	ActorID    uint
	Notes      string
}

// ReceiveInput 收货入参
type ReceiveInput struct {
	ProductID  uint
	LocationID uint
	Quantity   int
	ActorID    uint
	Notes      string
}

// TransferInput 移库入参
type TransferInput struct {
	ProductID      uint
	FromLocationID uint
	ToLocationID   uint
	Quantity       int
	ActorID        uint
	Notes          string
}

// CountInput 盘点入参
type CountInput struct {
	ProductID       uint
	LocationID      uint
	CountedQuantity int
	ActorID         uint
	Notes           string
}

// ensureRecord 取出商品+库位的库存记录，不存在则建零记录
func (s *InventoryService) ensureRecord(repo repository.InventoryRepository, productID, locationID uint) (*models.InventoryRecord, error) {
	record, err := repo.GetRecord(productID, locationID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	record = &models.InventoryRecord{
		ProductID:  productID,
		LocationID: locationID,
	}
	if err := repo.CreateRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *InventoryService) checkProductLocation(productID, locationID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return ErrLocationNotFound
	}
	return nil
}

// Adjust 人工调整库存，delta 可正可负，在库不会被调成负数
func (s *InventoryService) Adjust(input AdjustInput) (*models.InventoryRecord, error) {
	if input.Delta == 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.checkProductLocation(input.ProductID, input.LocationID); err != nil {
		return nil, err
	}

	var record *models.InventoryRecord
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.inventoryRepo.WithTx(tx)
		var err error
		record, err = s.ensureRecord(repo, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		rows, err := repo.AddOnHand(record.ID, input.Delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientStock
		}
		if err := repo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      input.ProductID,
			LocationID:     input.LocationID,
			Type:           constants.TxnTypeAdjustment,
			QuantityChange: input.Delta,
			ActorID:        input.ActorID,
			Notes:          input.Notes,
		}); err != nil {
			return err
		}
		record.QuantityOnHand += input.Delta
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(input.ProductID)
	return record, nil
}

// Receive 收货入库，提交后检查该商品是否有可补配的缺货单并推送通知
func (s *InventoryService) Receive(input ReceiveInput) (*models.InventoryRecord, []models.BackOrder, error) {
	if input.Quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}
	if err := s.checkProductLocation(input.ProductID, input.LocationID); err != nil {
		return nil, nil, err
	}

	var record *models.InventoryRecord
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.inventoryRepo.WithTx(tx)
		var err error
		record, err = s.ensureRecord(repo, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		rows, err := repo.AddOnHand(record.ID, input.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInventoryRecordMissing
		}
		if err := repo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      input.ProductID,
			LocationID:     input.LocationID,
			Type:           constants.TxnTypeReceipt,
			QuantityChange: input.Quantity,
			ReferenceType:  constants.TxnRefTypeReceiving,
			ActorID:        input.ActorID,
			Notes:          input.Notes,
		}); err != nil {
			return err
		}
		record.QuantityOnHand += input.Quantity
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidateAvailability(input.ProductID)

	// 收货只提示可补配的缺货单，不自动补配，补配由人工触发
	eligible, err := s.backOrderRepo.ListPendingByProduct(input.ProductID)
	if err != nil {
		logger.Warnw("收货后查询缺货单失败", "product_id", input.ProductID, "error", err)
		return record, nil, nil
	}
	if len(eligible) > 0 && s.notifier != nil {
		ids := make([]uint, 0, len(eligible))
		for _, bo := range eligible {
			ids = append(ids, bo.ID)
		}
		s.notifier.BackOrdersEligible(input.ProductID, ids)
	}
	return record, eligible, nil
}

// Transfer 库位间移库，两条流水同事务落账，不允许把来源库位扣成负数
func (s *InventoryService) Transfer(input TransferInput) error {
	if input.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if input.FromLocationID == input.ToLocationID {
		return ErrInvalidQuantity
	}
	if err := s.checkProductLocation(input.ProductID, input.FromLocationID); err != nil {
		return err
	}
	toLocation, err := s.locationRepo.GetByID(input.ToLocationID)
	if err != nil {
		return err
	}
	if toLocation == nil {
		return ErrLocationNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.inventoryRepo.WithTx(tx)
		from, err := repo.GetRecord(input.ProductID, input.FromLocationID)
		if err != nil {
			return err
		}
		if from == nil {
			return ErrInsufficientStock
		}
		rows, err := repo.AddOnHand(from.ID, -input.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientStock
		}
		to, err := s.ensureRecord(repo, input.ProductID, input.ToLocationID)
		if err != nil {
			return err
		}
		if _, err := repo.AddOnHand(to.ID, input.Quantity); err != nil {
			return err
		}
		if err := repo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      input.ProductID,
			LocationID:     input.FromLocationID,
			Type:           constants.TxnTypeTransfer,
			QuantityChange: -input.Quantity,
			ReferenceType:  constants.TxnRefTypeTransfer,
			ActorID:        input.ActorID,
			Notes:          input.Notes,
		}); err != nil {
			return err
		}
		return repo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      input.ProductID,
			LocationID:     input.ToLocationID,
			Type:           constants.TxnTypeTransfer,
			QuantityChange: input.Quantity,
			ReferenceType:  constants.TxnRefTypeTransfer,
			ActorID:        input.ActorID,
			Notes:          input.Notes,
		})
	})
	if err != nil {
		return err
	}
	s.invalidateAvailability(input.ProductID)
	return nil
}

// Count 盘点：把在库数量校正为实盘值，差额落 count 流水
func (s *InventoryService) Count(input CountInput) (*models.InventoryRecord, error) {
	if input.CountedQuantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.checkProductLocation(input.ProductID, input.LocationID); err != nil {
		return nil, err
	}

	var record *models.InventoryRecord
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.inventoryRepo.WithTx(tx)
		var err error
		record, err = s.ensureRecord(repo, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		delta := input.CountedQuantity - record.QuantityOnHand
		if delta == 0 {
			return nil
		}
		rows, err := repo.AddOnHand(record.ID, delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInventoryRecordMissing
		}
		if err := repo.AppendTransaction(&models.InventoryTransaction{
			ProductID:      input.ProductID,
			LocationID:     input.LocationID,
			Type:           constants.TxnTypeCount,
			QuantityChange: delta,
			ReferenceType:  constants.TxnRefTypeCycleCount,
			ActorID:        input.ActorID,
			Notes:          input.Notes,
		}); err != nil {
			return err
		}
		record.QuantityOnHand = input.CountedQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateAvailability(input.ProductID)
	return record, nil
}

// ProductAvailability 商品总可用量（各库位可用量之和），带短时缓存
func (s *InventoryService) ProductAvailability(productID uint) (int, error) {
	ctx := context.Background()
	cacheKey := availabilityCacheKey(productID)
	if cache.Enabled() {
		var cached int
		if ok, _ := cache.GetJSON(ctx, cacheKey, &cached); ok {
			return cached, nil
		}
	}
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
	if cache.Enabled() {
		_ = cache.SetJSON(ctx, cacheKey, total, s.availabilityTTL)
	}
	return total, nil
}

// ListRecords 分页查询库存记录
func (s *InventoryService) ListRecords(page, pageSize int) ([]models.InventoryRecord, int64, error) {
	return s.inventoryRepo.ListRecords(page, pageSize)
}

// ListRecordsByProduct 查询商品各库位库存
func (s *InventoryService) ListRecordsByProduct(productID uint) ([]models.InventoryRecord, error) {
	return s.inventoryRepo.ListRecordsByProduct(productID)
}

// ListTransactions 分页查询库存流水
func (s *InventoryService) ListTransactions(filter repository.TransactionListFilter) ([]models.InventoryTransaction, int64, error) {
	return s.inventoryRepo.ListTransactions(filter)
}

func (s *InventoryService) invalidateAvailability(productID uint) {
	if cache.Enabled() {
		if err := cache.Delete(context.Background(), availabilityCacheKey(productID)); err != nil {
			logger.Warnw("清除可用量缓存失败", "product_id", productID, "error", err)
		}
	}
}
