package models

import (
	"time"

	"gorm.io/gorm"
)

// PickList 拣货单表
type PickList struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                  // 主键
	BatchNo     string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"batch_no"` // 批次编号
	Status      string         `gorm:"type:varchar(32);index;not null" json:"status"`         // 拣货单状态
	AssignedTo  uint           `gorm:"index" json:"assigned_to,omitempty"`                    // 指派拣货员ID
	TotalItems  int            `gorm:"not null;default:0" json:"total_items"`                 // 总项数
	PickedItems int            `gorm:"not null;default:0" json:"picked_items"`                // 已处理项数
	StartTime   *time.Time     `gorm:"index" json:"start_time,omitempty"`                     // 开始时间
	EndTime     *time.Time     `gorm:"index" json:"end_time,omitempty"`                       // 结束时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                               // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	Items  []PickListItem `gorm:"foreignKey:PickListID" json:"items,omitempty"`  // 拣货项
	Events []PickEvent    `gorm:"foreignKey:PickListID" json:"events,omitempty"` // 拣货事件
}

// TableName 指定表名
func (PickList) TableName() string {
	return "pick_lists"
}

// PickListItem 拣货项表，PickSequence 为单内严格行走顺序
type PickListItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	PickListID     uint           `gorm:"index;not null" json:"pick_list_id"`                            // 拣货单ID
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                                // 订单ID
	ProductID      uint           `gorm:"index;not null" json:"product_id"`                              // 商品ID
	LocationID     uint           `gorm:"index;not null" json:"location_id"`                             // 库位ID
	QuantityToPick int            `gorm:"not null" json:"quantity_to_pick"`                              // 应拣数量
	QuantityPicked int            `gorm:"not null;default:0" json:"quantity_picked"`                     // 实拣数量
	Status         string         `gorm:"type:varchar(32);index;not null;default:pending" json:"status"` // 拣货项状态
	PickSequence   int            `gorm:"not null" json:"pick_sequence"`                                 // 拣货顺序（1起）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`   // 关联商品
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"` // 关联库位
}

// TableName 指定表名
func (PickListItem) TableName() string {
	return "pick_list_items"
}

// IsTerminal 拣货项是否已处于终态
func (i PickListItem) IsTerminal() bool {
	switch i.Status {
	case "picked", "short_pick", "skipped":
		return true
	}
	return false
}

// PickEvent 拣货事件表，只追加不修改
type PickEvent struct {
	ID             uint      `gorm:"primarykey" json:"id"`                          // 主键
	PickListID     uint      `gorm:"index;not null" json:"pick_list_id"`            // 拣货单ID
	PickListItemID *uint     `gorm:"index" json:"pick_list_item_id,omitempty"`      // 拣货项ID（单级事件为空）
	EventType      string    `gorm:"type:varchar(32);index;not null" json:"event_type"` // 事件类型
	Quantity       int       `gorm:"not null;default:0" json:"quantity"`            // 涉及数量
	ActorID        uint      `gorm:"index" json:"actor_id"`                         // 操作人ID
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`      // 备注
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (PickEvent) TableName() string {
	return "pick_events"
}
