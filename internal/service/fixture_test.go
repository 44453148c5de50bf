package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/queue"
	"github.com/cangku-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db *gorm.DB

	inventoryRepo   repository.InventoryRepository
	reservationRepo repository.ReservationRepository
	orderRepo       repository.OrderRepository
	backOrderRepo   repository.BackOrderRepository
	pickListRepo    repository.PickListRepository
	packageRepo     repository.PackageRepository

	status     *OrderStatusService
	inventory  *InventoryService
	allocation *AllocationService
	order      *OrderService
	pickList   *PickListService
	pickExec   *PickExecutionService
	backOrder  *BackOrderService
	shipping   *ShippingService
	reconcile  *ReconcileService
}

func setupFixture(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:wms_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	productRepo := repository.NewProductRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	backOrderRepo := repository.NewBackOrderRepository(db)
	pickListRepo := repository.NewPickListRepository(db)
	packageRepo := repository.NewPackageRepository(db)

	notifier := NewNotificationService(queue.NewClient(nil))
	status := NewOrderStatusService(orderRepo, notifier)
	inventory := NewInventoryService(inventoryRepo, productRepo, locationRepo, backOrderRepo, notifier, time.Second)
	allocation := NewAllocationService(inventoryRepo, reservationRepo, orderRepo, backOrderRepo, status, true)
	order := NewOrderService(orderRepo, productRepo, inventoryRepo, reservationRepo, backOrderRepo, status)
	pickList := NewPickListService(pickListRepo, orderRepo, reservationRepo, locationRepo, status, "PL")
	pickExec := NewPickExecutionService(pickListRepo, inventoryRepo, reservationRepo, orderRepo, status, notifier)
	backOrder := NewBackOrderService(backOrderRepo, inventoryRepo, allocation)
	shipping := NewShippingService(packageRepo, orderRepo, backOrderRepo, status)
	reconcile := NewReconcileService(inventoryRepo)

	return &serviceFixture{
		db:              db,
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
		backOrderRepo:   backOrderRepo,
		pickListRepo:    pickListRepo,
		packageRepo:     packageRepo,
		status:          status,
		inventory:       inventory,
		allocation:      allocation,
		order:           order,
		pickList:        pickList,
		pickExec:        pickExec,
		backOrder:       backOrder,
		shipping:        shipping,
		reconcile:       reconcile,
	}
}

func (f *serviceFixture) createProduct(t *testing.T, sku string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:       sku,
		Name:      "测试商品 " + sku,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		IsActive:  true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product %s failed: %v", sku, err)
	}
	return product
}

func (f *serviceFixture) createLocation(t *testing.T, code string) *models.Location {
	t.Helper()
	location := &models.Location{
		Code:     code,
		Zone:     models.ZoneOfCode(code),
		IsActive: true,
	}
	if err := f.db.Create(location).Error; err != nil {
		t.Fatalf("create location %s failed: %v", code, err)
	}
	return location
}

func (f *serviceFixture) receiveStock(t *testing.T, productID, locationID uint, quantity int) {
	t.Helper()
	if _, _, err := f.inventory.Receive(ReceiveInput{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
		ActorID:    1,
	}); err != nil {
		t.Fatalf("receive stock failed: %v", err)
	}
}

func (f *serviceFixture) createOrder(t *testing.T, orderNo string, items ...CreateOrderItemInput) *models.Order {
	t.Helper()
	order, err := f.order.CreateOrder(CreateOrderInput{
		OrderNo:      orderNo,
		CustomerName: "测试客户",
		Items:        items,
	})
	if err != nil {
		t.Fatalf("create order %s failed: %v", orderNo, err)
	}
	return order
}

func (f *serviceFixture) reloadOrder(t *testing.T, orderID uint) *models.Order {
	t.Helper()
	order, err := f.orderRepo.GetByID(orderID)
	if err != nil {
		t.Fatalf("reload order %d failed: %v", orderID, err)
	}
	if order == nil {
		t.Fatalf("order %d not found", orderID)
	}
	return order
}

func (f *serviceFixture) reloadRecord(t *testing.T, productID, locationID uint) *models.InventoryRecord {
	t.Helper()
	record, err := f.inventoryRepo.GetRecord(productID, locationID)
	if err != nil {
		t.Fatalf("reload inventory record failed: %v", err)
	}
	if record == nil {
		t.Fatalf("inventory record (%d,%d) not found", productID, locationID)
	}
	return record
}
