package repository

import (
	"errors"

	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

// PackageRepository 包裹数据访问接口
type PackageRepository interface {
	Create(pkg *models.Package) error
	GetByID(id uint) (*models.Package, error)
	ListByOrder(orderID uint) ([]models.Package, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) PackageRepository
}

// GormPackageRepository GORM 实现
type GormPackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository 创建包裹仓库
func NewPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPackageRepository) WithTx(tx *gorm.DB) PackageRepository {
	if tx == nil {
		return r
	}
	return &GormPackageRepository{db: tx}
}

// Create 创建包裹
func (r *GormPackageRepository) Create(pkg *models.Package) error {
	return r.db.Create(pkg).Error
}

// GetByID 根据 ID 获取包裹
func (r *GormPackageRepository) GetByID(id uint) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// ListByOrder 获取订单的全部包裹
func (r *GormPackageRepository) ListByOrder(orderID uint) ([]models.Package, error) {
	var packages []models.Package
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

// UpdateFields 更新包裹字段
func (r *GormPackageRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Package{}).
		Where("id = ?", id).
		Updates(updates).Error
}
