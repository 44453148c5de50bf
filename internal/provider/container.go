package provider

import (
	"time"

	"github.com/cangku-next/internal/cache"
	"github.com/cangku-next/internal/config"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/queue"
	"github.com/cangku-next/internal/repository"
	"github.com/cangku-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	ProductRepo     repository.ProductRepository
	LocationRepo    repository.LocationRepository
	InventoryRepo   repository.InventoryRepository
	ReservationRepo repository.ReservationRepository
	OrderRepo       repository.OrderRepository
	BackOrderRepo   repository.BackOrderRepository
	PickListRepo    repository.PickListRepository
	PackageRepo     repository.PackageRepository

	// Services
	AuthService          *service.AuthService
	CatalogService       *service.CatalogService
	InventoryService     *service.InventoryService
	AllocationService    *service.AllocationService
	OrderService         *service.OrderService
	OrderStatusService   *service.OrderStatusService
	PickListService      *service.PickListService
	PickExecutionService *service.PickExecutionService
	BackOrderService     *service.BackOrderService
	ShippingService      *service.ShippingService
	NotificationService  *service.NotificationService
	ReconcileService     *service.ReconcileService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(&cfg.Queue),
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.LocationRepo = repository.NewLocationRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.ReservationRepo = repository.NewReservationRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.BackOrderRepo = repository.NewBackOrderRepository(db)
	c.PickListRepo = repository.NewPickListRepository(db)
	c.PackageRepo = repository.NewPackageRepository(db)
}

func (c *Container) initServices() {
	c.NotificationService = service.NewNotificationService(c.QueueClient)
	c.OrderStatusService = service.NewOrderStatusService(c.OrderRepo, c.NotificationService)
	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT.SecretKey, c.Config.JWT.ExpireHours)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.LocationRepo)
	c.InventoryService = service.NewInventoryService(
		c.InventoryRepo,
		c.ProductRepo,
		c.LocationRepo,
		c.BackOrderRepo,
		c.NotificationService,
		time.Duration(c.Config.Warehouse.AvailabilityCacheTTL)*time.Second,
	)
	c.AllocationService = service.NewAllocationService(
		c.InventoryRepo,
		c.ReservationRepo,
		c.OrderRepo,
		c.BackOrderRepo,
		c.OrderStatusService,
		c.Config.Warehouse.AllowPartialAllocation,
	)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.InventoryRepo,
		c.ReservationRepo,
		c.BackOrderRepo,
		c.OrderStatusService,
	)
	c.PickListService = service.NewPickListService(
		c.PickListRepo,
		c.OrderRepo,
		c.ReservationRepo,
		c.LocationRepo,
		c.OrderStatusService,
		c.Config.Warehouse.PickListBatchPrefix,
	)
	c.PickExecutionService = service.NewPickExecutionService(
		c.PickListRepo,
		c.InventoryRepo,
		c.ReservationRepo,
		c.OrderRepo,
		c.OrderStatusService,
		c.NotificationService,
	)
	c.BackOrderService = service.NewBackOrderService(
		c.BackOrderRepo,
		c.InventoryRepo,
		c.AllocationService,
	)
	c.ShippingService = service.NewShippingService(
		c.PackageRepo,
		c.OrderRepo,
		c.BackOrderRepo,
		c.OrderStatusService,
	)
	c.ReconcileService = service.NewReconcileService(c.InventoryRepo)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
