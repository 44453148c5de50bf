package constants

// 订单状态常量
const (
	OrderStatusPending          = "pending"
	OrderStatusAllocated        = "allocated"
	OrderStatusPicking          = "picking"
	OrderStatusPicked           = "picked"
	OrderStatusPartiallyPicked  = "partially_picked"
	OrderStatusPacked           = "packed"
	OrderStatusPartiallyShipped = "partially_shipped"
	OrderStatusShipped          = "shipped"
	OrderStatusFulfilled        = "fulfilled"
	OrderStatusDelivered        = "delivered"
	OrderStatusCancelled        = "cancelled"
	OrderStatusReturned         = "returned"
)

// 库存流水类型常量
const (
	TxnTypeReceipt      = "receipt"
	TxnTypeSale         = "sale"
	TxnTypeAdjustment   = "adjustment"
	TxnTypeTransfer     = "transfer"
	TxnTypeAllocation   = "allocation"
	TxnTypeDeallocation = "deallocation"
	TxnTypeCount        = "count"
)

// 库存流水关联单据类型常量
const (
	TxnRefTypeOrder      = "order"
	TxnRefTypeBackOrder  = "back_order"
	TxnRefTypePickList   = "pick_list"
	TxnRefTypeReceiving  = "receiving"
	TxnRefTypeTransfer   = "transfer"
	TxnRefTypeCycleCount = "cycle_count"
)

// 预留状态常量
const (
	ReservationStatusActive   = "active"
	ReservationStatusReleased = "released"
	ReservationStatusConsumed = "consumed"
)

// 缺货单状态常量
const (
	BackOrderStatusPending   = "pending"
	BackOrderStatusAllocated = "allocated"
	BackOrderStatusPacked    = "packed"
	BackOrderStatusFulfilled = "fulfilled"
)

// 拣货单状态常量
const (
	PickListStatusPending    = "pending"
	PickListStatusAssigned   = "assigned"
	PickListStatusInProgress = "in_progress"
	PickListStatusPaused     = "paused"
	PickListStatusCompleted  = "completed"
	PickListStatusCancelled  = "cancelled"
)

// 拣货项状态常量
const (
	PickItemStatusPending   = "pending"
	PickItemStatusPicked    = "picked"
	PickItemStatusShortPick = "short_pick"
	PickItemStatusSkipped   = "skipped"
)

// 拣货动作常量
const (
	PickActionPick      = "pick"
	PickActionShortPick = "short_pick"
	PickActionSkip      = "skip"
)

// 拣货事件类型常量
const (
	PickEventStarted         = "pick_started"
	PickEventItemPicked      = "item_picked"
	PickEventItemShortPicked = "item_short_picked"
	PickEventItemSkipped     = "item_skipped"
	PickEventCompleted       = "pick_completed"
	PickEventCancelled       = "pick_cancelled"
	PickEventPaused          = "pick_paused"
	PickEventResumed         = "pick_resumed"
)

// 包裹状态常量
const (
	PackageStatusCreated   = "created"
	PackageStatusShipped   = "shipped"
	PackageStatusDelivered = "delivered"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderStatusNotify  = "notify:order_status"
	TaskBackOrderEligible  = "notify:back_order_eligible"
	TaskPickListCompleted  = "notify:pick_list_completed"
	TaskInventoryReconcile = "inventory:reconcile"
)
