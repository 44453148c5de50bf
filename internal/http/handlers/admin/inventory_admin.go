package admin

import (
	"strconv"
	"strings"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/repository"
	"github.com/cangku-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustRequest 库存调整请求
type AdjustRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	LocationID uint   `json:"location_id" binding:"required"`
	Delta      int    `json:"delta" binding:"required"`
	Notes      string `json:"notes"`
}

// ReceiveRequest 收货请求
type ReceiveRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	LocationID uint   `json:"location_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Notes      string `json:"notes"`
}

// TransferRequest 移库请求
type TransferRequest struct {
	ProductID      uint   `json:"product_id" binding:"required"`
	FromLocationID uint   `json:"from_location_id" binding:"required"`
	ToLocationID   uint   `json:"to_location_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	Notes          string `json:"notes"`
}

// CountRequest 盘点请求
type CountRequest struct {
	ProductID       uint   `json:"product_id" binding:"required"`
	LocationID      uint   `json:"location_id" binding:"required"`
	CountedQuantity *int   `json:"counted_quantity" binding:"required"`
	Notes           string `json:"notes"`
}

// ListInventory 库存记录列表
func (h *Handler) ListInventory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	records, total, err := h.InventoryService.ListRecords(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "查询库存失败", err)
		return
	}
	response.SuccessWithPage(c, records, response.NewPagination(page, pageSize, total))
}

// GetProductInventory 商品分库位库存与总可用量
func (h *Handler) GetProductInventory(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品ID非法", nil)
		return
	}
	records, err := h.InventoryService.ListRecordsByProduct(uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询库存失败", err)
		return
	}
	available, err := h.InventoryService.ProductAvailability(uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询库存失败", err)
		return
	}
	response.Success(c, gin.H{
		"records":   records,
		"available": available,
	})
}

// ListInventoryTransactions 库存流水列表
func (h *Handler) ListInventoryTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	locationID, _ := strconv.ParseUint(c.Query("location_id"), 10, 64)

	txns, total, err := h.InventoryService.ListTransactions(repository.TransactionListFilter{
		Page:       page,
		PageSize:   pageSize,
		ProductID:  uint(productID),
		LocationID: uint(locationID),
		Type:       strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询流水失败", err)
		return
	}
	response.SuccessWithPage(c, txns, response.NewPagination(page, pageSize, total))
}

// AdjustInventory 人工调整库存
func (h *Handler) AdjustInventory(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	record, err := h.InventoryService.Adjust(service.AdjustInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Delta:      req.Delta,
		ActorID:    adminID,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// ReceiveInventory 收货入库
func (h *Handler) ReceiveInventory(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	record, eligible, err := h.InventoryService.Receive(service.ReceiveInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		ActorID:    adminID,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"record":               record,
		"eligible_back_orders": eligible,
	})
}

// TransferInventory 移库
func (h *Handler) TransferInventory(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	err := h.InventoryService.Transfer(service.TransferInput{
		ProductID:      req.ProductID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		ActorID:        adminID,
		Notes:          req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "移库完成", nil)
}

// CountInventory 盘点
func (h *Handler) CountInventory(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CountedQuantity == nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	record, err := h.InventoryService.Count(service.CountInput{
		ProductID:       req.ProductID,
		LocationID:      req.LocationID,
		CountedQuantity: *req.CountedQuantity,
		ActorID:         adminID,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// ReconcileInventory 手动触发一次库存对账
func (h *Handler) ReconcileInventory(c *gin.Context) {
	report, err := h.ReconcileService.Run()
	if err != nil {
		respondError(c, response.CodeInternal, "对账执行失败", err)
		return
	}
	response.Success(c, report)
}
