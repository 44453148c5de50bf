package admin

import (
	"strconv"
	"strings"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListBackOrders 缺货单列表
func (h *Handler) ListBackOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)

	backOrders, total, err := h.BackOrderService.List(repository.BackOrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		OrderID:   uint(orderID),
		ProductID: uint(productID),
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询缺货单失败", err)
		return
	}
	response.SuccessWithPage(c, backOrders, response.NewPagination(page, pageSize, total))
}

// GetBackOrder 缺货单详情
func (h *Handler) GetBackOrder(c *gin.Context) {
	backOrderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || backOrderID == 0 {
		respondError(c, response.CodeBadRequest, "缺货单ID非法", nil)
		return
	}
	backOrder, err := h.BackOrderService.Get(uint(backOrderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, backOrder)
}

// ListEligibleBackOrders 查询商品当前可补配的缺货单
func (h *Handler) ListEligibleBackOrders(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品ID非法", nil)
		return
	}
	eligible, err := h.BackOrderService.ListEligible(uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询可补配缺货单失败", err)
		return
	}
	response.Success(c, eligible)
}

// FulfillBackOrder 人工触发缺货单补配
func (h *Handler) FulfillBackOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	backOrderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || backOrderID == 0 {
		respondError(c, response.CodeBadRequest, "缺货单ID非法", nil)
		return
	}
	result, err := h.BackOrderService.Fulfill(uint(backOrderID), adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
