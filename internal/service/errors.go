package service

import "errors"

// 校验类错误：请求本身不合法，写入前拦截
var (
	ErrOrderInvalid        = errors.New("order payload invalid")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrProductNotFound     = errors.New("product not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrPickReasonRequired  = errors.New("short pick reason required")
	ErrPackageInvalid      = errors.New("package payload invalid")
	ErrAdminInvalid        = errors.New("admin credentials invalid")
)

// 冲突类错误：实体状态不满足操作前置条件，调用方需刷新后重试
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderStatusInvalid     = errors.New("order status does not allow this operation")
	ErrInsufficientStock      = errors.New("insufficient stock available")
	ErrBackOrderNotFound      = errors.New("back order not found")
	ErrBackOrderStatusInvalid = errors.New("back order status does not allow this operation")
	ErrPickListNotFound       = errors.New("pick list not found")
	ErrPickListStatusInvalid  = errors.New("pick list status does not allow this operation")
	ErrPickItemNotFound       = errors.New("pick list item not found")
	ErrPickItemProcessed      = errors.New("pick list item already processed")
)

// 完整性错误：内部不变量被破坏，整个事务回滚，对外返回笼统失败
var (
	ErrInventoryRecordMissing = errors.New("inventory record missing")
	ErrInventoryDrift         = errors.New("inventory counters diverged from transaction log")
)
