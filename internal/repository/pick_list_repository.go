package repository

import (
	"errors"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// PickListRepository 拣货单数据访问接口
type PickListRepository interface {
	Create(pickList *models.PickList, items []models.PickListItem) error
	GetByID(id uint) (*models.PickList, error)
	GetItemByID(itemID uint) (*models.PickListItem, error)
	List(filter PickListFilter) ([]models.PickList, int64, error)
	ListItems(pickListID uint) ([]models.PickListItem, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	UpdateItemFields(itemID uint, updates map[string]interface{}) error
	CountTerminalItems(pickListID uint) (int64, error)
	CountItemsByStatus(pickListID uint, status string) (int64, error)
	AppendEvent(event *models.PickEvent) error
	ListEvents(pickListID uint) ([]models.PickEvent, error)
	WithTx(tx *gorm.DB) PickListRepository
}

// GormPickListRepository GORM 实现
type GormPickListRepository struct {
	db *gorm.DB
}

// NewPickListRepository 创建拣货单仓库
func NewPickListRepository(db *gorm.DB) *GormPickListRepository {
	return &GormPickListRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPickListRepository) WithTx(tx *gorm.DB) PickListRepository {
	if tx == nil {
		return r
	}
	return &GormPickListRepository{db: tx}
}

// Create 创建拣货单与拣货项
func (r *GormPickListRepository) Create(pickList *models.PickList, items []models.PickListItem) error {
	if err := r.db.Create(pickList).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PickListID = pickList.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取拣货单（含拣货项，按顺序）
func (r *GormPickListRepository) GetByID(id uint) (*models.PickList, error) {
	var pickList models.PickList
	if err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("pick_sequence ASC").Preload("Product").Preload("Location")
	}).First(&pickList, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pickList, nil
}

// GetItemByID 根据 ID 获取拣货项
func (r *GormPickListRepository) GetItemByID(itemID uint) (*models.PickListItem, error) {
	var item models.PickListItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List 分页查询拣货单
func (r *GormPickListRepository) List(filter PickListFilter) ([]models.PickList, int64, error) {
	query := r.db.Model(&models.PickList{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo > 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pickLists []models.PickList
	if err := query.Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&pickLists).Error; err != nil {
		return nil, 0, err
	}
	return pickLists, total, nil
}

// ListItems 获取拣货单的全部拣货项（按顺序）
func (r *GormPickListRepository) ListItems(pickListID uint) ([]models.PickListItem, error) {
	var items []models.PickListItem
	if err := r.db.Where("pick_list_id = ?", pickListID).
		Order("pick_sequence ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateFields 更新拣货单字段
func (r *GormPickListRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.PickList{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateItemFields 更新拣货项字段
func (r *GormPickListRepository) UpdateItemFields(itemID uint, updates map[string]interface{}) error {
	return r.db.Model(&models.PickListItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

// CountTerminalItems 统计已处于终态的拣货项数量
func (r *GormPickListRepository) CountTerminalItems(pickListID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PickListItem{}).
		Where("pick_list_id = ? AND status IN ?", pickListID,
			[]string{"picked", "short_pick", "skipped"}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountItemsByStatus 统计指定状态的拣货项数量
func (r *GormPickListRepository) CountItemsByStatus(pickListID uint, status string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PickListItem{}).
		Where("pick_list_id = ? AND status = ?", pickListID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AppendEvent 追加拣货事件
func (r *GormPickListRepository) AppendEvent(event *models.PickEvent) error {
	return r.db.Create(event).Error
}

// ListEvents 获取拣货单事件
func (r *GormPickListRepository) ListEvents(pickListID uint) ([]models.PickEvent, error) {
	var events []models.PickEvent
	if err := r.db.Where("pick_list_id = ?", pickListID).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
