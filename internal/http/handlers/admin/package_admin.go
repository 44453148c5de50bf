package admin

import (
	"strconv"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePackageRequest 包裹创建请求
type CreatePackageRequest struct {
	OrderID    uint   `json:"order_id" binding:"required"`
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"tracking_no"`
}

// CreatePackage 创建包裹（订单进入 packed，缺货单补足量入账）
func (h *Handler) CreatePackage(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	pkg, err := h.ShippingService.CreatePackage(service.CreatePackageInput{
		OrderID:    req.OrderID,
		Carrier:    req.Carrier,
		TrackingNo: req.TrackingNo,
		ActorID:    adminID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pkg)
}

// ShipPackage 包裹发货
func (h *Handler) ShipPackage(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	packageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || packageID == 0 {
		respondError(c, response.CodeBadRequest, "包裹ID非法", nil)
		return
	}
	pkg, err := h.ShippingService.ShipPackage(uint(packageID), adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pkg)
}

// ListOrderPackages 订单包裹列表
func (h *Handler) ListOrderPackages(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单ID非法", nil)
		return
	}
	packages, err := h.ShippingService.ListPackages(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询包裹失败", err)
		return
	}
	response.Success(c, packages)
}
