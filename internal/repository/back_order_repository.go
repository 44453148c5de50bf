package repository

import (
	"errors"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// BackOrderRepository 缺货单数据访问接口
type BackOrderRepository interface {
	GetByID(id uint) (*models.BackOrder, error)
	Get(orderID, productID uint) (*models.BackOrder, error)
	Upsert(orderID, productID uint, shortfall int, reason string) (*models.BackOrder, error)
	List(filter BackOrderListFilter) ([]models.BackOrder, int64, error)
	ListPendingByProduct(productID uint) ([]models.BackOrder, error)
	ListByOrder(orderID uint) ([]models.BackOrder, error)
	CountPendingByOrder(orderID uint) (int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	DeleteByOrder(orderID uint) error
	WithTx(tx *gorm.DB) BackOrderRepository
}

// GormBackOrderRepository GORM 实现
type GormBackOrderRepository struct {
	db *gorm.DB
}

// NewBackOrderRepository 创建缺货单仓库
func NewBackOrderRepository(db *gorm.DB) *GormBackOrderRepository {
	return &GormBackOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBackOrderRepository) WithTx(tx *gorm.DB) BackOrderRepository {
	if tx == nil {
		return r
	}
	return &GormBackOrderRepository{db: tx}
}

// GetByID 根据 ID 获取缺货单
func (r *GormBackOrderRepository) GetByID(id uint) (*models.BackOrder, error) {
	var backOrder models.BackOrder
	if err := r.db.Preload("Product").First(&backOrder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &backOrder, nil
}

// Get 获取订单+商品的缺货单
func (r *GormBackOrderRepository) Get(orderID, productID uint) (*models.BackOrder, error) {
	var backOrder models.BackOrder
	if err := r.db.Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&backOrder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &backOrder, nil
}

// Upsert 同一订单+商品已存在缺货单则累加缺货数量并回到 pending，否则新建
func (r *GormBackOrderRepository) Upsert(orderID, productID uint, shortfall int, reason string) (*models.BackOrder, error) {
	if orderID == 0 || productID == 0 || shortfall <= 0 {
		return nil, errors.New("invalid back order upsert params")
	}
	existing, err := r.Get(orderID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		updates := map[string]interface{}{
			"quantity_back_ordered": gorm.Expr("quantity_back_ordered + ?", shortfall),
			"status":                "pending",
		}
		if reason != "" {
			updates["reason"] = reason
		}
		if err := r.db.Model(&models.BackOrder{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.QuantityBackOrdered += shortfall
		existing.Status = "pending"
		return existing, nil
	}
	backOrder := &models.BackOrder{
		OrderID:             orderID,
		ProductID:           productID,
		QuantityBackOrdered: shortfall,
		Status:              "pending",
		Reason:              reason,
	}
	if err := r.db.Create(backOrder).Error; err != nil {
		return nil, err
	}
	return backOrder, nil
}

// List 分页查询缺货单
func (r *GormBackOrderRepository) List(filter BackOrderListFilter) ([]models.BackOrder, int64, error) {
	query := r.db.Model(&models.BackOrder{})
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var backOrders []models.BackOrder
	if err := query.Preload("Product").
		Order("id ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&backOrders).Error; err != nil {
		return nil, 0, err
	}
	return backOrders, total, nil
}

// ListPendingByProduct 获取商品的待处理缺货单（先到先得）
func (r *GormBackOrderRepository) ListPendingByProduct(productID uint) ([]models.BackOrder, error) {
	var backOrders []models.BackOrder
	if err := r.db.Where("product_id = ? AND status = ?", productID, "pending").
		Order("created_at ASC, id ASC").
		Find(&backOrders).Error; err != nil {
		return nil, err
	}
	return backOrders, nil
}

// ListByOrder 获取订单的全部缺货单
func (r *GormBackOrderRepository) ListByOrder(orderID uint) ([]models.BackOrder, error) {
	var backOrders []models.BackOrder
	if err := r.db.Where("order_id = ?", orderID).Find(&backOrders).Error; err != nil {
		return nil, err
	}
	return backOrders, nil
}

// CountPendingByOrder 统计订单尚未处理的缺货单数量
func (r *GormBackOrderRepository) CountPendingByOrder(orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.BackOrder{}).
		Where("order_id = ? AND status = ?", orderID, "pending").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateFields 更新缺货单字段
func (r *GormBackOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.BackOrder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteByOrder 软删除订单名下全部缺货单（订单取消时调用）
func (r *GormBackOrderRepository) DeleteByOrder(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.BackOrder{}).Error
}
