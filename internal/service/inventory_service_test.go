package service

import (
	"errors"
	"testing"

	"github.com/cangku-next/internal/constants"
)

func TestReceiveCreatesRecordAndLedgerEntry(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-RECV", 10)
	loc := f.createLocation(t, "A-01-01")

	record, eligible, err := f.inventory.Receive(ReceiveInput{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Quantity:   15,
		ActorID:    1,
		Notes:      "到货",
	})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if record.QuantityOnHand != 15 {
		t.Fatalf("expected on hand 15, got %d", record.QuantityOnHand)
	}
	if len(eligible) != 0 {
		t.Fatalf("no back orders expected, got %d", len(eligible))
	}

	sum, err := f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeReceipt})
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if sum != 15 {
		t.Fatalf("expected receipt ledger sum 15, got %d", sum)
	}
}

func TestReceiveRejectsNonPositiveQuantity(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-RECV-BAD", 10)
	loc := f.createLocation(t, "A-01-02")

	if _, _, err := f.inventory.Receive(ReceiveInput{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Quantity:   0,
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestReceiveUnknownProduct(t *testing.T) {
	f := setupFixture(t)
	loc := f.createLocation(t, "A-01-03")
	if _, _, err := f.inventory.Receive(ReceiveInput{
		ProductID:  999,
		LocationID: loc.ID,
		Quantity:   5,
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAdjustNeverDrivesOnHandNegative(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-ADJ", 10)
	loc := f.createLocation(t, "B-01-01")
	f.receiveStock(t, product.ID, loc.ID, 5)

	if _, err := f.inventory.Adjust(AdjustInput{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Delta:      -8,
		ActorID:    1,
	}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	record := f.reloadRecord(t, product.ID, loc.ID)
	if record.QuantityOnHand != 5 {
		t.Fatalf("failed adjust must not change on hand, got %d", record.QuantityOnHand)
	}

	record, err := f.inventory.Adjust(AdjustInput{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Delta:      -3,
		ActorID:    1,
		Notes:      "破损报废",
	})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if record.QuantityOnHand != 2 {
		t.Fatalf("expected on hand 2, got %d", record.QuantityOnHand)
	}
	sum, _ := f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeAdjustment})
	if sum != -3 {
		t.Fatalf("expected adjustment ledger sum -3, got %d", sum)
	}
}

func TestTransferMovesStockBetweenLocations(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-MOVE", 10)
	from := f.createLocation(t, "A-02-01")
	to := f.createLocation(t, "B-02-01")
	f.receiveStock(t, product.ID, from.ID, 10)

	if err := f.inventory.Transfer(TransferInput{
		ProductID:      product.ID,
		FromLocationID: from.ID,
		ToLocationID:   to.ID,
		Quantity:       4,
		ActorID:        1,
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	fromRecord := f.reloadRecord(t, product.ID, from.ID)
	toRecord := f.reloadRecord(t, product.ID, to.ID)
	if fromRecord.QuantityOnHand != 6 || toRecord.QuantityOnHand != 4 {
		t.Fatalf("expected 6/4 after transfer, got %d/%d", fromRecord.QuantityOnHand, toRecord.QuantityOnHand)
	}

	// 两条 transfer 流水净和为 0，总在库守恒
	sum, _ := f.inventoryRepo.SumQuantityChange(product.ID, from.ID, []string{constants.TxnTypeTransfer})
	if sum != -4 {
		t.Fatalf("expected source transfer ledger -4, got %d", sum)
	}
	sum, _ = f.inventoryRepo.SumQuantityChange(product.ID, to.ID, []string{constants.TxnTypeTransfer})
	if sum != 4 {
		t.Fatalf("expected target transfer ledger 4, got %d", sum)
	}
}

func TestTransferRejectsOverdraw(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-MOVE-BAD", 10)
	from := f.createLocation(t, "A-02-02")
	to := f.createLocation(t, "B-02-02")
	f.receiveStock(t, product.ID, from.ID, 3)

	if err := f.inventory.Transfer(TransferInput{
		ProductID:      product.ID,
		FromLocationID: from.ID,
		ToLocationID:   to.ID,
		Quantity:       5,
		ActorID:        1,
	}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	fromRecord := f.reloadRecord(t, product.ID, from.ID)
	if fromRecord.QuantityOnHand != 3 {
		t.Fatalf("failed transfer must not change stock, got %d", fromRecord.QuantityOnHand)
	}
	if rec, err := f.inventoryRepo.GetRecord(product.ID, to.ID); err != nil {
		t.Fatalf("get record failed: %v", err)
	} else if rec != nil && rec.QuantityOnHand != 0 {
		t.Fatalf("target must stay empty, got %d", rec.QuantityOnHand)
	}
}

func TestCountCorrectsOnHandWithDeltaLedger(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-COUNT", 10)
	loc := f.createLocation(t, "C-01-01")
	f.receiveStock(t, product.ID, loc.ID, 10)

	record, err := f.inventory.Count(CountInput{
		ProductID:       product.ID,
		LocationID:      loc.ID,
		CountedQuantity: 7,
		ActorID:         1,
		Notes:           "月度盘点",
	})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if record.QuantityOnHand != 7 {
		t.Fatalf("expected on hand 7, got %d", record.QuantityOnHand)
	}
	sum, _ := f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeCount})
	if sum != -3 {
		t.Fatalf("expected count ledger -3, got %d", sum)
	}

	// 实盘与账面一致时不落流水
	if _, err := f.inventory.Count(CountInput{
		ProductID:       product.ID,
		LocationID:      loc.ID,
		CountedQuantity: 7,
		ActorID:         1,
	}); err != nil {
		t.Fatalf("no-op count failed: %v", err)
	}
	sum, _ = f.inventoryRepo.SumQuantityChange(product.ID, loc.ID, []string{constants.TxnTypeCount})
	if sum != -3 {
		t.Fatalf("no-op count must not add ledger entries, got %d", sum)
	}
}

func TestProductAvailabilitySumsPositiveAvailable(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-AVAIL", 10)
	locA := f.createLocation(t, "A-03-01")
	locB := f.createLocation(t, "B-03-01")
	f.receiveStock(t, product.ID, locA.ID, 6)
	f.receiveStock(t, product.ID, locB.ID, 4)

	order := f.createOrder(t, "SO-AVAIL-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 6})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	available, err := f.inventory.ProductAvailability(product.ID)
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if available != 4 {
		t.Fatalf("expected 4 available after reserving 6 of 10, got %d", available)
	}
}

func TestReceiveSurfacesPendingBackOrders(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-BO-NOTIFY", 10)
	loc := f.createLocation(t, "A-04-01")
	f.receiveStock(t, product.ID, loc.ID, 2)

	order := f.createOrder(t, "SO-AVAIL-2", CreateOrderItemInput{ProductID: product.ID, Quantity: 5})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	_, eligible, err := f.inventory.Receive(ReceiveInput{
		ProductID:  product.ID,
		LocationID: loc.ID,
		Quantity:   10,
		ActorID:    1,
	})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].OrderID != order.ID {
		t.Fatalf("expected the pending back order to surface, got %+v", eligible)
	}
	// 收货只提示，不自动补配
	backOrder, _ := f.backOrderRepo.Get(order.ID, product.ID)
	if backOrder.Status != constants.BackOrderStatusPending {
		t.Fatalf("receiving must not auto-allocate, status %s", backOrder.Status)
	}
}
