package admin

import (
	"strconv"
	"strings"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest 订单状态流转请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
	}
	if raw := strings.TrimSpace(c.Query("has_back_orders")); raw != "" {
		value := raw == "true" || raw == "1"
		filter.HasBackOrders = &value
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询订单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderHistory 订单状态历史
func (h *Handler) GetOrderHistory(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	history, err := h.OrderService.ListStatusHistory(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询状态历史失败", err)
		return
	}
	response.Success(c, history)
}

// AllocateOrder 触发订单分配
func (h *Handler) AllocateOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	result, err := h.AllocationService.AllocateOrder(uint(orderID), adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.OrderService.CancelOrder(uint(orderID), adminID, req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "订单已取消", nil)
}

// UpdateOrderStatus 人工状态流转
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.OrderService.UpdateStatus(uint(orderID), strings.TrimSpace(req.Status), adminID, req.Notes); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "状态已更新", nil)
}
