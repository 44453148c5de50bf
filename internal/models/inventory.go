package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryRecord 库存记录表（商品+库位维度的在库/预留计数）
type InventoryRecord struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                    // 主键
	ProductID        uint           `gorm:"not null;uniqueIndex:idx_inventory_product_location" json:"product_id"`  // 商品ID
	LocationID       uint           `gorm:"not null;uniqueIndex:idx_inventory_product_location" json:"location_id"` // 库位ID
	QuantityOnHand   int            `gorm:"not null;default:0" json:"quantity_on_hand"`                              // 在库数量
	QuantityReserved int            `gorm:"not null;default:0" json:"quantity_reserved"`                             // 预留数量
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                                 // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                          // 软删除时间

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`   // 关联商品
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"` // 关联库位
}

// TableName 指定表名
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// Available 可用数量（在库 − 预留）
func (r InventoryRecord) Available() int {
	return r.QuantityOnHand - r.QuantityReserved
}

// InventoryTransaction 库存流水表，只追加不修改
type InventoryTransaction struct {
	ID             uint      `gorm:"primarykey" json:"id"`                             // 主键
	ProductID      uint      `gorm:"index;not null" json:"product_id"`                 // 商品ID
	LocationID     uint      `gorm:"index;not null" json:"location_id"`                // 库位ID
	Type           string    `gorm:"type:varchar(32);index;not null" json:"type"`      // 流水类型
	QuantityChange int       `gorm:"not null" json:"quantity_change"`                  // 数量变化（带符号）
	ReferenceType  string    `gorm:"type:varchar(32);index" json:"reference_type"`     // 关联单据类型
	ReferenceID    uint      `gorm:"index" json:"reference_id"`                        // 关联单据ID
	ActorID        uint      `gorm:"index" json:"actor_id"`                            // 操作人ID
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`         // 备注
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                          // 创建时间
}

// TableName 指定表名
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
