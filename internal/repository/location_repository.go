package repository

import (
	"errors"
	"strings"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// LocationRepository 库位数据访问接口
type LocationRepository interface {
	Create(location *models.Location) error
	Update(location *models.Location) error
	GetByID(id uint) (*models.Location, error)
	GetByCode(code string) (*models.Location, error)
	GetByIDs(ids []uint) (map[uint]models.Location, error)
	ListActive() ([]models.Location, error)
	WithTx(tx *gorm.DB) LocationRepository
}

// GormLocationRepository GORM 实现
type GormLocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository 创建库位仓库
func NewLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLocationRepository) WithTx(tx *gorm.DB) LocationRepository {
	if tx == nil {
		return r
	}
	return &GormLocationRepository{db: tx}
}

// Create 创建库位，分区由编码推导
func (r *GormLocationRepository) Create(location *models.Location) error {
	if location.Zone == "" {
		location.Zone = models.ZoneOfCode(location.Code)
	}
	return r.db.Create(location).Error
}

// Update 更新库位
func (r *GormLocationRepository) Update(location *models.Location) error {
	if location.Zone == "" {
		location.Zone = models.ZoneOfCode(location.Code)
	}
	return r.db.Save(location).Error
}

// GetByID 根据 ID 获取库位
func (r *GormLocationRepository) GetByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// GetByCode 根据编码获取库位
func (r *GormLocationRepository) GetByCode(code string) (*models.Location, error) {
	var location models.Location
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// GetByIDs 批量获取库位
func (r *GormLocationRepository) GetByIDs(ids []uint) (map[uint]models.Location, error) {
	result := make(map[uint]models.Location, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var locations []models.Location
	if err := r.db.Where("id IN ?", ids).Find(&locations).Error; err != nil {
		return nil, err
	}
	for _, location := range locations {
		result[location.ID] = location
	}
	return result, nil
}

// ListActive 查询启用中的库位
func (r *GormLocationRepository) ListActive() ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.Where("is_active = ?", true).Order("code ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
