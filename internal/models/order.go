package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo       string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_no"`     // 订单编号
	Status        string         `gorm:"type:varchar(32);index;not null" json:"status"`             // 订单状态
	TotalAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额
	HasBackOrders bool           `gorm:"not null;default:false;index" json:"has_back_orders"`       // 是否存在待处理缺货
	CustomerName  string         `gorm:"type:varchar(200)" json:"customer_name,omitempty"`          // 客户名称
	CustomerEmail string         `gorm:"type:varchar(200);index" json:"customer_email,omitempty"`   // 客户邮箱
	Notes         string         `gorm:"type:varchar(500)" json:"notes,omitempty"`                  // 备注
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`          // 订单项
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"` // 状态历史
	BackOrders    []BackOrder          `gorm:"foreignKey:OrderID" json:"back_orders,omitempty"`    // 缺货单
	Reservations  []Reservation        `gorm:"foreignKey:OrderID" json:"reservations,omitempty"`   // 预留
	Packages      []Package            `gorm:"foreignKey:OrderID" json:"packages,omitempty"`       // 包裹
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint           `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID uint           `gorm:"index;not null" json:"product_id"`                        // 商品ID
	Quantity  int            `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory 订单状态历史表，只追加不修改
type OrderStatusHistory struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`                        // 订单ID
	PreviousStatus string    `gorm:"type:varchar(32);not null" json:"previous_status"`      // 变更前状态
	NewStatus      string    `gorm:"type:varchar(32);not null" json:"new_status"`           // 变更后状态
	ChangedBy      uint      `gorm:"index;not null" json:"changed_by"`                      // 操作人ID
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`              // 备注
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
