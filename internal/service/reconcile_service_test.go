package service

import (
	"testing"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/models"
)

func TestReconcileCleanLedgerReportsNoIssues(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-RECON-1", 10)
	locA := f.createLocation(t, "A-01-01")
	locB := f.createLocation(t, "B-01-01")
	f.receiveStock(t, product.ID, locA.ID, 6)
	f.receiveStock(t, product.ID, locB.ID, 9)

	order := f.createOrder(t, "SO-RECON-1", CreateOrderItemInput{ProductID: product.ID, Quantity: 8})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	report, err := f.reconcile.Run()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.CheckedRecords != 2 {
		t.Fatalf("expected 2 checked records, got %d", report.CheckedRecords)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("clean ledger must report no issues, got %+v", report.Issues)
	}
}

func TestReconcileDetectsCounterDrift(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-RECON-2", 10)
	loc := f.createLocation(t, "A-02-01")
	f.receiveStock(t, product.ID, loc.ID, 10)

	// 绕过流水直接篡改计数器，模拟漂移
	if err := f.db.Model(&models.InventoryRecord{}).
		Where("product_id = ? AND location_id = ?", product.ID, loc.ID).
		UpdateColumn("quantity_on_hand", 15).Error; err != nil {
		t.Fatalf("inject drift failed: %v", err)
	}

	report, err := f.reconcile.Run()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d", len(report.Issues))
	}
	issue := report.Issues[0]
	if issue.ProductID != product.ID || issue.LocationID != loc.ID {
		t.Fatalf("issue points at wrong record: %+v", issue)
	}
	if issue.QuantityOnHand != 15 || issue.ExpectedOnHand != 10 {
		t.Fatalf("expected 15 vs 10 on-hand drift, got %d vs %d", issue.QuantityOnHand, issue.ExpectedOnHand)
	}
}

func TestReconcileDetectsReservedDrift(t *testing.T) {
	f := setupFixture(t)
	product := f.createProduct(t, "SKU-RECON-3", 10)
	loc := f.createLocation(t, "A-03-01")
	f.receiveStock(t, product.ID, loc.ID, 10)

	order := f.createOrder(t, "SO-RECON-3", CreateOrderItemInput{ProductID: product.ID, Quantity: 4})
	if _, err := f.allocation.AllocateOrder(order.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	if err := f.db.Model(&models.InventoryRecord{}).
		Where("product_id = ? AND location_id = ?", product.ID, loc.ID).
		UpdateColumn("quantity_reserved", 9).Error; err != nil {
		t.Fatalf("inject drift failed: %v", err)
	}

	report, err := f.reconcile.Run()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d", len(report.Issues))
	}
	issue := report.Issues[0]
	if issue.QuantityReserved != 9 || issue.ExpectedReserved != 4 {
		t.Fatalf("expected 9 vs 4 reserved drift, got %d vs %d", issue.QuantityReserved, issue.ExpectedReserved)
	}
}

func TestReconcileAfterFullLifecycle(t *testing.T) {
	f := setupFixture(t)
	// 完整走一遍 收货→分配→拣货→取消释放 后台账仍然自洽
	product := f.createProduct(t, "SKU-RECON-4", 10)
	loc := f.createLocation(t, "A-04-01")
	f.receiveStock(t, product.ID, loc.ID, 12)

	picked := f.createOrder(t, "SO-RECON-4A", CreateOrderItemInput{ProductID: product.ID, Quantity: 5})
	if _, err := f.allocation.AllocateOrder(picked.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	pickList, err := f.pickList.Generate(GenerateInput{OrderIDs: []uint{picked.ID}, ActorID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := f.pickExec.RecordPick(RecordPickInput{
		PickListID: pickList.ID,
		ItemID:     pickList.Items[0].ID,
		Action:     constants.PickActionPick,
		ActorID:    2,
	}); err != nil {
		t.Fatalf("record pick failed: %v", err)
	}

	cancelled := f.createOrder(t, "SO-RECON-4B", CreateOrderItemInput{ProductID: product.ID, Quantity: 3})
	if _, err := f.allocation.AllocateOrder(cancelled.ID, 1); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if err := f.order.CancelOrder(cancelled.ID, 1, "测试取消"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	report, err := f.reconcile.Run()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("ledger must stay consistent through the lifecycle, got %+v", report.Issues)
	}
}
