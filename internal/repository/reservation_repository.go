package repository

import (
	"errors"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// ReservationRepository 预留数据访问接口
type ReservationRepository interface {
	Get(orderID, productID, locationID uint) (*models.Reservation, error)
	Upsert(orderID, productID, locationID uint, quantity int) (*models.Reservation, error)
	ListByOrder(orderID uint) ([]models.Reservation, error)
	ListActiveByOrderProduct(orderID, productID uint) ([]models.Reservation, error)
	UpdateStatus(id uint, status string) error
	AddQuantity(id uint, delta int) error
	WithTx(tx *gorm.DB) ReservationRepository
}

// GormReservationRepository GORM 实现
type GormReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预留仓库
func NewReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	if tx == nil {
		return r
	}
	return &GormReservationRepository{db: tx}
}

// Get 获取指定三元组的预留
func (r *GormReservationRepository) Get(orderID, productID, locationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.Where("order_id = ? AND product_id = ? AND location_id = ?",
		orderID, productID, locationID).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

// Upsert 同一三元组已存在则累加数量，否则新建（重复分配幂等）
func (r *GormReservationRepository) Upsert(orderID, productID, locationID uint, quantity int) (*models.Reservation, error) {
	if orderID == 0 || productID == 0 || locationID == 0 || quantity <= 0 {
		return nil, errors.New("invalid reservation upsert params")
	}
	existing, err := r.Get(orderID, productID, locationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		result := r.db.Model(&models.Reservation{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", quantity),
				"status":   "active",
			})
		if result.Error != nil {
			return nil, result.Error
		}
		existing.Quantity += quantity
		existing.Status = "active"
		return existing, nil
	}
	reservation := &models.Reservation{
		OrderID:    orderID,
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
		Status:     "active",
	}
	if err := r.db.Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// ListByOrder 获取订单的全部预留
func (r *GormReservationRepository) ListByOrder(orderID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.Preload("Location").
		Where("order_id = ?", orderID).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListActiveByOrderProduct 获取订单某商品的活跃预留
func (r *GormReservationRepository) ListActiveByOrderProduct(orderID, productID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.Preload("Location").
		Where("order_id = ? AND product_id = ? AND status = ?", orderID, productID, "active").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// UpdateStatus 更新预留状态
func (r *GormReservationRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// AddQuantity 调整预留数量（负数为扣减，收敛到 0）
func (r *GormReservationRepository) AddQuantity(id uint, delta int) error {
	if delta >= 0 {
		return r.db.Model(&models.Reservation{}).
			Where("id = ?", id).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error
	}
	dec := -delta
	return r.db.Model(&models.Reservation{}).
		Where("id = ?", id).
		UpdateColumn("quantity",
			gorm.Expr("CASE WHEN quantity >= ? THEN quantity - ? ELSE 0 END", dec, dec)).Error
}
