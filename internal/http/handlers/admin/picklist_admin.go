package admin

import (
	"strconv"
	"strings"

	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/repository"
	"github.com/cangku-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GeneratePickListRequest 拣货单生成请求
type GeneratePickListRequest struct {
	OrderIDs   []uint `json:"order_ids" binding:"required"`
	AssignedTo uint   `json:"assigned_to"`
}

// AssignPickListRequest 拣货单指派请求
type AssignPickListRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

// RecordPickRequest 拣货记录请求
type RecordPickRequest struct {
	ItemID   uint   `json:"item_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// CancelPickListRequest 拣货单取消请求
type CancelPickListRequest struct {
	Reason string `json:"reason"`
}

// GeneratePickList 为一批已分配订单生成拣货单
func (h *Handler) GeneratePickList(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req GeneratePickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	pickList, err := h.PickListService.Generate(service.GenerateInput{
		OrderIDs:   req.OrderIDs,
		AssignedTo: req.AssignedTo,
		ActorID:    adminID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pickList)
}

// ListPickLists 拣货单列表
func (h *Handler) ListPickLists(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	assignedTo, _ := strconv.ParseUint(c.Query("assigned_to"), 10, 64)
	pickLists, total, err := h.PickListService.ListPickLists(repository.PickListFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		AssignedTo: uint(assignedTo),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询拣货单失败", err)
		return
	}
	response.SuccessWithPage(c, pickLists, response.NewPagination(page, pageSize, total))
}

// GetPickList 拣货单详情，项按行走顺序返回
func (h *Handler) GetPickList(c *gin.Context) {
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	pickList, err := h.PickListService.GetPickList(uint(pickListID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pickList)
}

// GetPickListEvents 拣货单事件流
func (h *Handler) GetPickListEvents(c *gin.Context) {
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	events, err := h.PickListService.ListEvents(uint(pickListID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询拣货事件失败", err)
		return
	}
	response.Success(c, events)
}

// AssignPickList 指派拣货员
func (h *Handler) AssignPickList(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	var req AssignPickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.PickListService.Assign(uint(pickListID), req.AssigneeID, adminID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "已指派", nil)
}

// PausePickList 暂停拣货单
func (h *Handler) PausePickList(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	if err := h.PickListService.Pause(uint(pickListID), adminID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "已暂停", nil)
}

// ResumePickList 恢复拣货单
func (h *Handler) ResumePickList(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	if err := h.PickListService.Resume(uint(pickListID), adminID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "已恢复", nil)
}

// CancelPickList 取消拣货单
func (h *Handler) CancelPickList(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	var req CancelPickListRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.PickListService.Cancel(uint(pickListID), adminID, req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "已取消", nil)
}

// RecordPick 记录一次拣货动作
func (h *Handler) RecordPick(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	pickListID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || pickListID == 0 {
		respondError(c, response.CodeBadRequest, "拣货单ID非法", nil)
		return
	}
	var req RecordPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	result, err := h.PickExecutionService.RecordPick(service.RecordPickInput{
		PickListID: uint(pickListID),
		ItemID:     req.ItemID,
		Action:     strings.TrimSpace(req.Action),
		Quantity:   req.Quantity,
		Reason:     strings.TrimSpace(req.Reason),
		ActorID:    adminID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
