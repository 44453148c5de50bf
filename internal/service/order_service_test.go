package service

import (
	"errors"
	"testing"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateOrderValidation(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-ORD", 10)

	if _, err := f.order.CreateOrder(CreateOrderInput{}); !errors.Is(err, ErrOrderInvalid) {
		t.Fatalf("empty items: expected ErrOrderInvalid, got %v", err)
	}
	if _, err := f.order.CreateOrder(CreateOrderInput{
		Items: []CreateOrderItemInput{{ProductID: product.ID, Quantity: 0}},
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.order.CreateOrder(CreateOrderInput{
		Items: []CreateOrderItemInput{{SKU: "SKU-MISSING", Quantity: 1}},
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown sku: expected ErrProductNotFound, got %v", err)
	}
	if _, err := f.order.CreateOrder(CreateOrderInput{
		Items: []CreateOrderItemInput{{Quantity: 1}},
	}); !errors.Is(err, ErrOrderInvalid) {
		t.Fatalf("neither product id nor sku: expected ErrOrderInvalid, got %v", err)
	}
}

func TestCreateOrderComputesTotalAndHistory(t *testing.T) {
	f := setupFixture(t)
	mouse := f.createProduct(t, "SKU-MOUSE", 59)
	f.createProduct(t, "SKU-KB", 299)

	order := f.createOrder(t, "SO-CREATE-1",
		CreateOrderItemInput{ProductID: mouse.ID, Quantity: 2},
		CreateOrderItemInput{SKU: "SKU-KB", Quantity: 1},
	)
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("new order must be pending, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	want := decimal.NewFromInt(59*2 + 299)
	if !order.TotalAmount.Decimal.Equal(want) {
		t.Fatalf("expected total %s, got %s", want.StringFixed(2), order.TotalAmount.String())
	}

	history, err := f.orderRepo.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 || history[0].NewStatus != constants.OrderStatusPending {
		t.Fatalf("expected one intake history row, got %+v", history)
	}

	// 商品单价被快照进订单项
	for _, item := range order.Items {
		if item.ProductID == mouse.ID && !item.UnitPrice.Decimal.Equal(decimal.NewFromInt(59)) {
			t.Fatalf("unexpected unit price snapshot: %s", item.UnitPrice.String())
		}
	}
}

func TestCreateOrderIdempotentOnOrderNo(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-IDEMP", 10)

	first := f.createOrder(t, "SO-DUP-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	second := f.createOrder(t, "SO-DUP-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	if first.ID != second.ID {
		t.Fatalf("duplicate order no must return the existing order: %d vs %d", first.ID, second.ID)
	}
	var count int64
	f.db.Model(&models.Order{}).Where("order_no = ?", "SO-DUP-1").Count(&count)
	if count != 1 {
		t.Fatalf("expected a single order row, got %d", count)
	}
}

func TestCreateOrderGeneratesOrderNo(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-GEN", 10)
	order := f.createOrder(t, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	if order.OrderNo == "" {
		t.Fatalf("expected generated order no")
	}
}

func TestCancelOrderReleasesReservations(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-CANCEL", 10)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 4)

	// 部分分配：4 件预留 + 6 件缺货
	order := f.createOrder(t, "SO-CANCEL-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 10})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	if err := f.order.CancelOrder(order.ID, 2, "客户退单"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", reloaded.Status)
	}
	if reloaded.HasBackOrders {
		t.Fatalf("has_back_orders must be cleared")
	}

	record := f.reloadRecord(t, product.ID, loc.ID)
	if record.QuantityReserved != 0 {
		t.Fatalf("reserved must return to 0, got %d", record.QuantityReserved)
	}
	resv, _ := f.reservationRepo.Get(order.ID, product.ID, loc.ID)
	if resv == nil || resv.Status != constants.ReservationStatusReleased {
		t.Fatalf("expected released reservation, got %+v", resv)
	}

	// 取消后缺货单被清除
	backOrder, err := f.backOrderRepo.Get(order.ID, product.ID)
	if err != nil {
		t.Fatalf("get back order failed: %v", err)
	}
	if backOrder != nil {
		t.Fatalf("back orders must be removed on cancel, got %+v", backOrder)
	}

	// deallocation 流水回冲 allocation
	allocSum, _ := f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeAllocation})
	deallocSum, _ := f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeDeallocation})
	if allocSum+deallocSum != 0 {
		t.Fatalf("allocation %d and deallocation %d must net to zero", allocSum, deallocSum)
	}
}

func TestCancelOrderRejectedAfterPacking(t *testing.T) {
	f := setupFixture(t)
	order := &models.Order{OrderNo: "SO-CANCEL-2", Status: constants.OrderStatusPacked}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := f.order.CancelOrder(order.ID, 1, ""); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestUpdateStatusManualFlow(t *testing.T) {
	f := setupFixture(t)
	order := &models.Order{OrderNo: "SO-MANUAL-1", Status: constants.OrderStatusShipped}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := f.order.UpdateStatus(order.ID, constants.OrderStatusDelivered, 3, "签收"); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", reloaded.Status)
	}

	// 终态之后一切跳转被拒
	if err := f.order.UpdateStatus(order.ID, constants.OrderStatusReturned, 3, ""); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid after terminal, got %v", err)
	}
}
