package service

import (
	"errors"
	"testing"

	"github.com/cangku-next/internal/constants"
)

func TestFulfillBackOrderAdvancesOrder(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-BO-1", 10)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 4)

	order := f.createOrder(t, "SO-BO-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 10})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	backOrder, _ := f.backOrderRepo.Get(order.ID, product.ID)
	if backOrder == nil || backOrder.QuantityBackOrdered != 6 {
		t.Fatalf("expected back order of 6, got %+v", backOrder)
	}

	// 到货后缺货单进入可补配列表
	f.receiveStock(t, product.ID, loc.ID, 10)
	eligible, err := f.backOrder.ListEligible(product.ID)
	if err != nil {
		t.Fatalf("list eligible failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].BackOrder.ID != backOrder.ID {
		t.Fatalf("expected the back order to be eligible, got %+v", eligible)
	}

	result, err := f.backOrder.Fulfill(backOrder.ID, 2)
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if !result.FullyAllocated {
		t.Fatalf("expected order to advance after fulfillment")
	}

	reloadedBO, _ := f.backOrderRepo.GetByID(backOrder.ID)
	if reloadedBO.Status != constants.BackOrderStatusAllocated {
		t.Fatalf("back order must be allocated, got %s", reloadedBO.Status)
	}
	// 补配只到 allocated，补足量要等包裹创建
	if reloadedBO.QuantityFulfilled != 0 {
		t.Fatalf("quantity_fulfilled must stay 0 before packing, got %d", reloadedBO.QuantityFulfilled)
	}

	reloadedOrder := f.reloadOrder(t, order.ID)
	if reloadedOrder.Status != constants.OrderStatusAllocated {
		t.Fatalf("expected allocated order, got %s", reloadedOrder.Status)
	}
	if reloadedOrder.HasBackOrders {
		t.Fatalf("has_back_orders must be cleared")
	}

	// 预留累加到整单需求量
	resv, _ := f.reservationRepo.Get(order.ID, product.ID, loc.ID)
	if resv == nil || resv.Quantity != 10 {
		t.Fatalf("expected 10 reserved in total, got %+v", resv)
	}
}

func TestFulfillRequiresFullCoverage(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-BO-2", 10)
	loc := f.createLocation(t, "A-01-02")
	f.receiveStock(t, product.ID, loc.ID, 2)

	order := f.createOrder(t, "SO-BO-2", CreateOrderItemInput{ProductID: product.ID, Quantity: 8})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	backOrder, _ := f.backOrderRepo.Get(order.ID, product.ID)

	// 可用量 3 < 未补量 6：整个补配被拒，不做部分写入
	f.receiveStock(t, product.ID, loc.ID, 3)
	if _, err := f.backOrder.Fulfill(backOrder.ID, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	reloadedBO, _ := f.backOrderRepo.GetByID(backOrder.ID)
	if reloadedBO.Status != constants.BackOrderStatusPending {
		t.Fatalf("back order must stay pending, got %s", reloadedBO.Status)
	}
	resv, _ := f.reservationRepo.Get(order.ID, product.ID, loc.ID)
	if resv == nil || resv.Quantity != 2 {
		t.Fatalf("reservation must stay at the initial 2, got %+v", resv)
	}
}

func TestFulfillRejectsNonPending(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-BO-3", 10)
	loc := f.createLocation(t, "A-01-03")
	f.receiveStock(t, product.ID, loc.ID, 1)

	order := f.createOrder(t, "SO-BO-3", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	backOrder, _ := f.backOrderRepo.Get(order.ID, product.ID)
	f.receiveStock(t, product.ID, loc.ID, 5)
	if _, err := f.backOrder.Fulfill(backOrder.ID, 1); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}

	if _, err := f.backOrder.Fulfill(backOrder.ID, 1); !errors.Is(err, ErrBackOrderStatusInvalid) {
		t.Fatalf("expected ErrBackOrderStatusInvalid on double fulfill, got %v", err)
	}
	if _, err := f.backOrder.Fulfill(9999, 1); !errors.Is(err, ErrBackOrderNotFound) {
		t.Fatalf("expected ErrBackOrderNotFound, got %v", err)
	}
}

func TestListEligibleWalksFIFO(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-BO-4", 10)
	loc := f.createLocation(t, "A-01-04")

	orderOne := f.createOrder(t, "SO-BO-4A", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	orderTwo := f.createOrder(t, "SO-BO-4B", CreateOrderItemInput{ProductID: product.ID, Quantity: 4})
	for _, id := range []uint{orderOne.ID, orderTwo.ID} {
		if _, err := f.allocation.AllocateOrder(id, 1); err != nil {
			t.Fatalf("allocate order %d failed: %v", id, err)
		}
	}

	// 库存 5：先到的 3 件可补，余 2 不够后到的 4 件
	f.receiveStock(t, product.ID, loc.ID, 5)
	eligible, err := f.backOrder.ListEligible(product.ID)
	if err != nil {
		t.Fatalf("list eligible failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].BackOrder.OrderID != orderOne.ID {
		t.Fatalf("expected only the first back order to be eligible, got %+v", eligible)
	}
	if eligible[0].Available != 5 {
		t.Fatalf("expected available 5 surfaced, got %d", eligible[0].Available)
	}
}
