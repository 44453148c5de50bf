package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/cangku-next/internal/constants"
)

func TestGenerateSortsItemsByZoneAndCode(t *testing.T) {
	f := setupFixture(t)
	bolt := f.createProduct(t, "SKU-BOLT", 5)
	nut := f.createProduct(t, "SKU-NUT", 3)
	locB := f.createLocation(t, "B-01-01")
	locA2 := f.createLocation(t, "A-02-01")
	locA1 := f.createLocation(t, "A-01-01")
	f.receiveStock(t, bolt.ID, locB.ID, 10)
	f.receiveStock(t, nut.ID, locA2.ID, 10)
	f.receiveStock(t, nut.ID, locA1.ID, 2)

	order := f.createOrder(t, "SO-PICK-1",
		CreateOrderItemInput{ProductID: bolt.ID, Quantity: 6},
		CreateOrderItemInput{ProductID: nut.ID, Quantity: 12},
	)
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pickList.Status != constants.PickListStatusPending {
		t.Fatalf("unassigned list must be pending, got %s", pickList.Status)
	}
	if !strings.HasPrefix(pickList.BatchNo, "PL-") {
		t.Fatalf("unexpected batch no %s", pickList.BatchNo)
	}
	if pickList.TotalItems != 3 || len(pickList.Items) != 3 {
		t.Fatalf("expected 3 items, got %d/%d", pickList.TotalItems, len(pickList.Items))
	}

	// 行走顺序：A 区在前且区内按编码，B 区殿后
	wantLocations := []uint{locA1.ID, locA2.ID, locB.ID}
	for i, item := range pickList.Items {
		if item.LocationID != wantLocations[i] {
			t.Fatalf("item %d at location %d, want %d", i, item.LocationID, wantLocations[i])
		}
		if item.PickSequence != i+1 {
			t.Fatalf("pick sequence must be 1-based ordinal, got %d at index %d", item.PickSequence, i)
		}
		if item.Status != constants.PickItemStatusPending {
			t.Fatalf("new item must be pending, got %s", item.Status)
		}
	}

	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusPicking {
		t.Fatalf("order must advance to picking, got %s", reloaded.Status)
	}

	events, err := f.pickList.ListEvents(pickList.ID)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != constants.PickEventStarted {
		t.Fatalf("expected a single pick_started event, got %+v", events)
	}
}

func TestGenerateAssignedWhenPickerGiven(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-ASSIGN", 5)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 10)
	order := f.createOrder(t, "SO-PICK-2", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, AssignedTo: 9, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pickList.Status != constants.PickListStatusAssigned || pickList.AssignedTo != 9 {
		t.Fatalf("expected assigned list for picker 9, got %s/%d", pickList.Status, pickList.AssignedTo)
	}
}

func TestGenerateRequiresAllocatedOrders(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-NOTALLOC", 5)
	order := f.createOrder(t, "SO-PICK-3", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})

	if _, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if _, err := f.pickList.Generate(GenerateInput{ActorID: 1}); !errors.Is(err, ErrOrderInvalid) {
		t.Fatalf("expected ErrOrderInvalid on empty input, got %v", err)
	}
}

func TestCancelRevertsOrdersToAllocated(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-PLCANCEL", 5)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 10)
	order := f.createOrder(t, "SO-PICK-4", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := f.pickList.Cancel(pickList.ID, 1, "波次重排"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	reloadedList, err := f.pickList.GetPickList(pickList.ID)
	if err != nil {
		t.Fatalf("get pick list failed: %v", err)
	}
	if reloadedList.Status != constants.PickListStatusCancelled {
		t.Fatalf("expected cancelled, got %s", reloadedList.Status)
	}
	reloadedOrder := f.reloadOrder(t, order.ID)
	if reloadedOrder.Status != constants.OrderStatusAllocated {
		t.Fatalf("order must revert to allocated, got %s", reloadedOrder.Status)
	}
}

func TestCancelRejectedAfterFirstPick(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-PLCANCEL2", 5)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 10)
	order := f.createOrder(t, "SO-PICK-5", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := f.pickExec.RecordPick(RecordPickInput{
		PickListID: pickList.ID,
		ItemID:     pickList.Items[0].ID,
		Action:     constants.PickActionPick,
		ActorID:    1,
	}); err != nil {
		t.Fatalf("record pick failed: %v", err)
	}

	if err := f.pickList.Cancel(pickList.ID, 1, ""); !errors.Is(err, ErrPickListStatusInvalid) {
		t.Fatalf("expected ErrPickListStatusInvalid, got %v", err)
	}
}

func TestAssignReassignsPendingList(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-REASSIGN", 5)
	loc := f.createLocation(t, "A-01-01")
	f.receiveStock(t, product.ID, loc.ID, 10)
	order := f.createOrder(t, "SO-PICK-6", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{order.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := f.pickList.Assign(pickList.ID, 5, 1); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	reloaded, _ := f.pickList.GetPickList(pickList.ID)
	if reloaded.Status != constants.PickListStatusAssigned || reloaded.AssignedTo != 5 {
		t.Fatalf("expected assigned to 5, got %s/%d", reloaded.Status, reloaded.AssignedTo)
	}
}
