package service

import (
	"strings"

	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"
)

// CatalogService 商品与库位主数据维护
type CatalogService struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

func NewCatalogService(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo, locationRepo: locationRepo}
}

// CreateProduct 创建商品，SKU 唯一
func (s *CatalogService) CreateProduct(product *models.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	if product.SKU == "" || strings.TrimSpace(product.Name) == "" {
		return ErrOrderInvalid
	}
	existing, err := s.productRepo.GetBySKU(product.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrOrderInvalid
	}
	return s.productRepo.Create(product)
}

// UpdateProduct 更新商品
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.productRepo.Update(product)
}

// GetProduct 获取商品
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 分页查询商品
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// CreateLocation 创建库位，编码唯一，库区从编码首段推导
func (s *CatalogService) CreateLocation(location *models.Location) error {
	location.Code = strings.TrimSpace(location.Code)
	if location.Code == "" {
		return ErrOrderInvalid
	}
	existing, err := s.locationRepo.GetByCode(location.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrOrderInvalid
	}
	return s.locationRepo.Create(location)
}

// UpdateLocation 更新库位
func (s *CatalogService) UpdateLocation(location *models.Location) error {
	return s.locationRepo.Update(location)
}

// GetLocation 获取库位
func (s *CatalogService) GetLocation(id uint) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}
	return location, nil
}

// ListLocations 查询启用库位
func (s *CatalogService) ListLocations() ([]models.Location, error) {
	return s.locationRepo.ListActive()
}
