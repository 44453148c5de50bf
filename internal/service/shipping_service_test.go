package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/models"
)

// setupPackedOrder 走完 分配→拣货 的单品订单，返回处于 picked 的订单
func setupPackedOrder(t *testing.T, f *serviceFixture, orderNo string, stock, demand int) *models.Order {
	t.Helper()
	order, pickList, _, _ := setupPickFlow(t, f, orderNo, stock, demand)
	if _, err := f.pickExec.RecordPick(RecordPickInput{
		PickListID: pickList.ID,
		ItemID:     pickList.Items[0].ID,
		Action:     constants.PickActionPick,
		ActorID:    2,
	}); err != nil {
		t.Fatalf("record pick failed: %v", err)
	}
	return f.reloadOrder(t, order.ID)
}

func TestCreatePackageAdvancesOrder(t *testing.T) {
	f := setupFixture(t)
	order := setupPackedOrder(t, f, "SO-SHIP-1", 10, 5)
	if order.Status != constants.OrderStatusPicked {
		t.Fatalf("precondition failed: %s", order.Status)
	}

	pkg, err := f.shipping.CreatePackage(CreatePackageInput{
		OrderID:    order.ID,
		Carrier:    "顺丰",
		TrackingNo: "SF123456",
		ActorID:    3,
	})
	if err != nil {
		t.Fatalf("create package failed: %v", err)
	}
	if !strings.HasPrefix(pkg.PackageNo, "PKG-") || pkg.Status != constants.PackageStatusCreated {
		t.Fatalf("unexpected package: %+v", pkg)
	}
	if f.reloadOrder(t, order.ID).Status != constants.OrderStatusPacked {
		t.Fatalf("order must advance to packed")
	}
}

func TestCreatePackageRejectedForPendingOrder(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-SHIP-BAD", 10)
	order := f.createOrder(t, "SO-SHIP-2", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})

	if _, err := f.shipping.CreatePackage(CreatePackageInput{OrderID: order.ID, ActorID: 1}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestShipSinglePackageCompletesOrder(t *testing.T) {
	f := setupFixture(t)
	order := setupPackedOrder(t, f, "SO-SHIP-3", 10, 5)
	pkg, err := f.shipping.CreatePackage(CreatePackageInput{OrderID: order.ID, ActorID: 3})
	if err != nil {
		t.Fatalf("create package failed: %v", err)
	}

	shipped, err := f.shipping.ShipPackage(pkg.ID, 3)
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.Status != constants.PackageStatusShipped || shipped.ShippedAt == nil {
		t.Fatalf("unexpected package state: %+v", shipped)
	}
	if f.reloadOrder(t, order.ID).Status != constants.OrderStatusShipped {
		t.Fatalf("order must be shipped")
	}

	// 已发出的包裹不能重复发货
	if _, err := f.shipping.ShipPackage(pkg.ID, 3); !errors.Is(err, ErrPackageInvalid) {
		t.Fatalf("expected ErrPackageInvalid, got %v", err)
	}
}

func TestShipPartialThenAllPackages(t *testing.T) {
	f := setupFixture(t)
	order := setupPackedOrder(t, f, "SO-SHIP-4", 10, 6)
	first, err := f.shipping.CreatePackage(CreatePackageInput{OrderID: order.ID, ActorID: 3})
	if err != nil {
		t.Fatalf("create first package failed: %v", err)
	}
	second, err := f.shipping.CreatePackage(CreatePackageInput{OrderID: order.ID, ActorID: 3})
	if err != nil {
		t.Fatalf("create second package failed: %v", err)
	}

	if _, err := f.shipping.ShipPackage(first.ID, 3); err != nil {
		t.Fatalf("ship first failed: %v", err)
	}
	if f.reloadOrder(t, order.ID).Status != constants.OrderStatusPartiallyShipped {
		t.Fatalf("expected partially_shipped with one package left")
	}

	if _, err := f.shipping.ShipPackage(second.ID, 3); err != nil {
		t.Fatalf("ship second failed: %v", err)
	}
	if f.reloadOrder(t, order.ID).Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped after all packages left")
	}
}

func TestBackOrderFulfillmentTracksPackaging(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-SHIP-BO", 10)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 4)

	order := f.createOrder(t, "SO-SHIP-5", CreateOrderItemInput{ProductID: product.ID, Quantity: 10})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	backOrder, _ := f.backOrderRepo.Get(order.ID, product.ID)

	f.receiveStock(t, product.ID, loc.ID, 10)
	if _, err := f.backOrder.Fulfill(backOrder.ID, 1); err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}

	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, item := range pickList.Items {
		if _, err := f.pickExec.RecordPick(RecordPickInput{
			PickListID: pickList.ID,
			ItemID:     item.ID,
			Action:     constants.PickActionPick,
			ActorID:    2,
		}); err != nil {
			t.Fatalf("record pick failed: %v", err)
		}
	}

	// 包裹创建是补足量入账的唯一时点
	pkg, err := f.shipping.CreatePackage(CreatePackageInput{OrderID: order.ID, ActorID: 3})
	if err != nil {
		t.Fatalf("create package failed: %v", err)
	}
	reloadedBO, _ := f.backOrderRepo.GetByID(backOrder.ID)
	if reloadedBO.Status != constants.BackOrderStatusPacked {
		t.Fatalf("expected packed back order, got %s", reloadedBO.Status)
	}
	if reloadedBO.QuantityFulfilled != 6 {
		t.Fatalf("expected quantity_fulfilled 6, got %d", reloadedBO.QuantityFulfilled)
	}

	if _, err := f.shipping.ShipPackage(pkg.ID, 3); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	reloadedBO, _ = f.backOrderRepo.GetByID(backOrder.ID)
	if reloadedBO.Status != constants.BackOrderStatusFulfilled {
		t.Fatalf("expected fulfilled back order after shipping, got %s", reloadedBO.Status)
	}
	if reloadedBO.Outstanding() != 0 {
		t.Fatalf("expected no outstanding quantity, got %d", reloadedBO.Outstanding())
	}
}
