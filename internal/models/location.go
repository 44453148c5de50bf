package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Location 库位表
type Location struct {
	ID        uint           `gorm:"primarykey" json:"id"`                              // 主键
	Code      string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"` // 库位编码（如 A-01-03）
	Name      string         `gorm:"type:varchar(200)" json:"name,omitempty"`           // 库位名称
	Zone      string         `gorm:"type:varchar(32);index" json:"zone"`                // 分区（编码首段）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`               // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}

// ZoneOfCode 从库位编码中提取分区（首个分隔段）
func ZoneOfCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if idx := strings.IndexAny(code, "-_ "); idx > 0 {
		return code[:idx]
	}
	return code
}
