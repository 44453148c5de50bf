package repository

import (
	"errors"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存记录与流水数据访问接口
type InventoryRepository interface {
	GetRecord(productID, locationID uint) (*models.InventoryRecord, error)
	GetRecordByID(id uint) (*models.InventoryRecord, error)
	CreateRecord(record *models.InventoryRecord) error
	ListRecordsByProduct(productID uint) ([]models.InventoryRecord, error)
	ListRecords(page, pageSize int) ([]models.InventoryRecord, int64, error)
	AddOnHand(recordID uint, quantity int) (int64, error)
	ReserveStock(recordID uint, quantity int) (int64, error)
	ReleaseReserved(recordID uint, quantity int) (int64, error)
	ConsumeStock(recordID uint, quantity int) (int64, error)
	AppendTransaction(txn *models.InventoryTransaction) error
	ListTransactions(filter TransactionListFilter) ([]models.InventoryTransaction, int64, error)
	SumQuantityChange(productID, locationID uint, types []string) (int64, error)
	ListRecordKeys() ([]models.InventoryRecord, error)
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// GetRecord 获取指定商品+库位的库存记录
func (r *GormInventoryRepository) GetRecord(productID, locationID uint) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetRecordByID 根据 ID 获取库存记录
func (r *GormInventoryRepository) GetRecordByID(id uint) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CreateRecord 创建库存记录
func (r *GormInventoryRepository) CreateRecord(record *models.InventoryRecord) error {
	return r.db.Create(record).Error
}

// ListRecordsByProduct 获取商品在所有库位上的库存记录
func (r *GormInventoryRepository) ListRecordsByProduct(productID uint) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.Preload("Location").
		Where("product_id = ?", productID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecords 分页查询库存记录
func (r *GormInventoryRepository) ListRecords(page, pageSize int) ([]models.InventoryRecord, int64, error) {
	query := r.db.Model(&models.InventoryRecord{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.InventoryRecord
	if err := r.db.Preload("Product").Preload("Location").
		Order("product_id ASC, location_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// AddOnHand 调整在库数量（入库为正，调整可为负，不允许减到负数）
func (r *GormInventoryRepository) AddOnHand(recordID uint, quantity int) (int64, error) {
	if recordID == 0 || quantity == 0 {
		return 0, errors.New("invalid on-hand adjust params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("id = ? AND quantity_on_hand + ? >= 0", recordID, quantity).
		UpdateColumn("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReserveStock 预留库存，条件更新保证预留不超过在库
func (r *GormInventoryRepository) ReserveStock(recordID uint, quantity int) (int64, error) {
	if recordID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("id = ? AND quantity_reserved + ? <= quantity_on_hand", recordID, quantity).
		UpdateColumn("quantity_reserved", gorm.Expr("quantity_reserved + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseReserved 释放预留（按现值收敛，防止历史漂移扣成负数）
func (r *GormInventoryRepository) ReleaseReserved(recordID uint, quantity int) (int64, error) {
	if recordID == 0 || quantity <= 0 {
		return 0, errors.New("invalid reserved release params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("id = ?", recordID).
		UpdateColumn("quantity_reserved",
			gorm.Expr("CASE WHEN quantity_reserved >= ? THEN quantity_reserved - ? ELSE 0 END", quantity, quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ConsumeStock 拣货出库：同时扣减预留与在库，按现值收敛
func (r *GormInventoryRepository) ConsumeStock(recordID uint, quantity int) (int64, error) {
	if recordID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock consume params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"quantity_reserved": gorm.Expr("CASE WHEN quantity_reserved >= ? THEN quantity_reserved - ? ELSE 0 END", quantity, quantity),
			"quantity_on_hand":  gorm.Expr("CASE WHEN quantity_on_hand >= ? THEN quantity_on_hand - ? ELSE 0 END", quantity, quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AppendTransaction 追加库存流水
func (r *GormInventoryRepository) AppendTransaction(txn *models.InventoryTransaction) error {
	return r.db.Create(txn).Error
}

// ListTransactions 分页查询库存流水
func (r *GormInventoryRepository) ListTransactions(filter TransactionListFilter) ([]models.InventoryTransaction, int64, error) {
	query := r.db.Model(&models.InventoryTransaction{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.LocationID > 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.InventoryTransaction
	if err := query.Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// SumQuantityChange 汇总指定商品+库位的流水变化量
func (r *GormInventoryRepository) SumQuantityChange(productID, locationID uint, types []string) (int64, error) {
	var sum *int64
	query := r.db.Model(&models.InventoryTransaction{}).
		Where("product_id = ? AND location_id = ?", productID, locationID)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	if err := query.Select("SUM(quantity_change)").Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// ListRecordKeys 获取所有库存记录（对账用，仅计数字段）
func (r *GormInventoryRepository) ListRecordKeys() ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.Model(&models.InventoryRecord{}).
		Select("id", "product_id", "location_id", "quantity_on_hand", "quantity_reserved").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
