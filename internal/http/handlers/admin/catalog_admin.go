package admin

import (
	"strconv"
	"strings"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	SKU         string   `json:"sku" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	UnitPrice   string   `json:"unit_price"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product := &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Tags:        models.StringArray(req.Tags),
		IsActive:    true,
	}
	if req.UnitPrice != "" {
		price, err := models.NewMoneyFromString(req.UnitPrice)
		if err != nil {
			respondError(c, response.CodeBadRequest, "单价格式错误", err)
			return
		}
		product.UnitPrice = price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.CatalogService.CreateProduct(product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "商品ID非法", nil)
		return
	}
	product, err := h.CatalogService.GetProduct(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product.Name = req.Name
	product.Description = req.Description
	if req.Tags != nil {
		product.Tags = models.StringArray(req.Tags)
	}
	if req.UnitPrice != "" {
		price, err := models.NewMoneyFromString(req.UnitPrice)
		if err != nil {
			respondError(c, response.CodeBadRequest, "单价格式错误", err)
			return
		}
		product.UnitPrice = price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.CatalogService.UpdateProduct(product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "商品ID非法", nil)
		return
	}
	product, err := h.CatalogService.GetProduct(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.CatalogService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询商品失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// LocationRequest 库位创建/更新请求
type LocationRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// CreateLocation 创建库位
func (h *Handler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	location := &models.Location{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: true,
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}
	if err := h.CatalogService.CreateLocation(location); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, location)
}

// UpdateLocation 更新库位
func (h *Handler) UpdateLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "库位ID非法", nil)
		return
	}
	location, err := h.CatalogService.GetLocation(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	location.Code = req.Code
	location.Name = req.Name
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}
	if err := h.CatalogService.UpdateLocation(location); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, location)
}

// ListLocations 启用库位列表
func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.CatalogService.ListLocations()
	if err != nil {
		respondError(c, response.CodeInternal, "查询库位失败", err)
		return
	}
	response.Success(c, locations)
}
