package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation 预留表（订单+商品+库位唯一，重复分配累加数量）
type Reservation struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                                             // 主键
	OrderID    uint           `gorm:"not null;uniqueIndex:idx_reservation_order_product_location" json:"order_id"`     // 订单ID
	ProductID  uint           `gorm:"not null;uniqueIndex:idx_reservation_order_product_location" json:"product_id"`   // 商品ID
	LocationID uint           `gorm:"not null;uniqueIndex:idx_reservation_order_product_location" json:"location_id"`  // 库位ID
	Quantity   int            `gorm:"not null;default:0" json:"quantity"`                                               // 预留数量
	Status     string         `gorm:"type:varchar(32);index;not null;default:active" json:"status"`                     // 预留状态
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                                          // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                                          // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                                   // 软删除时间

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"` // 关联库位
}

// TableName 指定表名
func (Reservation) TableName() string {
	return "reservations"
}
