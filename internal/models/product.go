package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	SKU         string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"sku"`        // SKU编码
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`                  // 商品名称
	Description string         `gorm:"type:text" json:"description,omitempty"`                  // 商品描述
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Tags        StringArray    `gorm:"type:json" json:"tags,omitempty"`                         // 标签
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                     // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
