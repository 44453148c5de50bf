package models

import (
	"time"

	"gorm.io/gorm"
)

// Package 包裹表（发货协作方写入的记录）
type Package struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID    uint           `gorm:"index;not null" json:"order_id"`                          // 订单ID
	PackageNo  string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"package_no"` // 包裹编号
	Carrier    string         `gorm:"type:varchar(100)" json:"carrier,omitempty"`              // 承运商
	TrackingNo string         `gorm:"type:varchar(100);index" json:"tracking_no,omitempty"`    // 运单号
	Status     string         `gorm:"type:varchar(32);index;not null" json:"status"`           // 包裹状态
	ShippedAt  *time.Time     `gorm:"index" json:"shipped_at,omitempty"`                       // 发货时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Package) TableName() string {
	return "packages"
}
