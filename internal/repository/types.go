package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	Status        string
	OrderNo       string
	CustomerEmail string
	HasBackOrders *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// TransactionListFilter 查询库存流水的过滤条件
type TransactionListFilter struct {
	Page       int
	PageSize   int
	ProductID  uint
	LocationID uint
	Type       string
}

// PickListFilter 查询拣货单列表的过滤条件
type PickListFilter struct {
	Page       int
	PageSize   int
	Status     string
	AssignedTo uint
}

// BackOrderListFilter 查询缺货单列表的过滤条件
type BackOrderListFilter struct {
	Page      int
	PageSize  int
	OrderID   uint
	ProductID uint
	Status    string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
