package models

import (
	"time"

	"gorm.io/gorm"
)

// BackOrder 缺货单表（订单+商品唯一）
type BackOrder struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                                   // 主键
	OrderID           uint           `gorm:"not null;uniqueIndex:idx_back_order_order_product" json:"order_id"`     // 订单ID
	ProductID         uint           `gorm:"not null;uniqueIndex:idx_back_order_order_product" json:"product_id"`   // 商品ID
	QuantityBackOrdered int          `gorm:"not null;default:0" json:"quantity_back_ordered"`                        // 缺货数量
	QuantityFulfilled int            `gorm:"not null;default:0" json:"quantity_fulfilled"`                           // 已补足数量（单调递增）
	Status            string         `gorm:"type:varchar(32);index;not null;default:pending" json:"status"`          // 缺货单状态
	Reason            string         `gorm:"type:varchar(500)" json:"reason,omitempty"`                              // 缺货原因
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                                // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                                // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                         // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (BackOrder) TableName() string {
	return "back_orders"
}

// Outstanding 尚未补足的数量
func (b BackOrder) Outstanding() int {
	remaining := b.QuantityBackOrdered - b.QuantityFulfilled
	if remaining < 0 {
		return 0
	}
	return remaining
}
