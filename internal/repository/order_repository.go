package repository

import (
	"errors"
	"strings"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListByStatus(status string) ([]models.Order, error)
	UpdateStatus(id uint, status string) error
	UpdateFields(id uint, updates map[string]interface{}) error
	AppendStatusHistory(history *models.OrderStatusHistory) error
	ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单（含关联）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("BackOrders").Preload("Reservations").Preload("Packages")
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("BackOrders")
	if err := query.Where("order_no = ?", strings.TrimSpace(orderNo)).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 分页查询订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CustomerEmail != "" {
		query = query.Where("customer_email = ?", filter.CustomerEmail)
	}
	if filter.HasBackOrders != nil {
		query = query.Where("has_back_orders = ?", *filter.HasBackOrders)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByStatus 获取指定状态的订单
func (r *GormOrderRepository) ListByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").
		Where("status = ?", status).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 更新订单状态字段
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateFields 更新订单任意字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AppendStatusHistory 追加状态历史
func (r *GormOrderRepository) AppendStatusHistory(history *models.OrderStatusHistory) error {
	return r.db.Create(history).Error
}

// ListStatusHistory 获取订单状态历史
func (r *GormOrderRepository) ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var histories []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
