package queue

// OrderStatusNotifyPayload 订单状态变更通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID        uint   `json:"order_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// BackOrderEligiblePayload 缺货单可补配通知任务载荷
type BackOrderEligiblePayload struct {
	ProductID    uint   `json:"product_id"`
	BackOrderIDs []uint `json:"back_order_ids"`
}

// PickListCompletedPayload 拣货单完成通知任务载荷
type PickListCompletedPayload struct {
	PickListID uint   `json:"pick_list_id"`
	BatchNo    string `json:"batch_no"`
}

// InventoryReconcilePayload 库存对账任务载荷
type InventoryReconcilePayload struct {
	TriggeredBy string `json:"triggered_by"`
}
