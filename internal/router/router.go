package router

import (
	"github.com/cangku-next/internal/config"
	adminhandlers "github.com/cangku-next/internal/http/handlers/admin"
	webhookhandlers "github.com/cangku-next/internal/http/handlers/webhook"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	webhookHandler := webhookhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 上游订单接入
		webhook := apiV1.Group("/webhook")
		webhook.Use(webhookHandler.VerifyToken())
		{
			webhook.POST("/orders", webhookHandler.ReceiveOrder)
		}

		// 管理端登录
		apiV1.POST("/admin/login", adminHandler.Login)

		// 管理端接口（需鉴权）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService))
		{
			admin.PUT("/password", adminHandler.ChangePassword)

			// 商品与库位
			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.GET("/products/:id/inventory", adminHandler.GetProductInventory)
			admin.GET("/locations", adminHandler.ListLocations)
			admin.POST("/locations", adminHandler.CreateLocation)
			admin.PUT("/locations/:id", adminHandler.UpdateLocation)

			// 库存
			admin.GET("/inventory", adminHandler.ListInventory)
			admin.GET("/inventory/transactions", adminHandler.ListInventoryTransactions)
			admin.POST("/inventory/adjust", adminHandler.AdjustInventory)
			admin.POST("/inventory/receive", adminHandler.ReceiveInventory)
			admin.POST("/inventory/transfer", adminHandler.TransferInventory)
			admin.POST("/inventory/count", adminHandler.CountInventory)
			admin.POST("/inventory/reconcile", adminHandler.ReconcileInventory)

			// 订单
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.GET("/orders/:id/history", adminHandler.GetOrderHistory)
			admin.GET("/orders/:id/packages", adminHandler.ListOrderPackages)
			admin.POST("/orders/:id/allocate", adminHandler.AllocateOrder)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			// 拣货
			admin.GET("/pick-lists", adminHandler.ListPickLists)
			admin.POST("/pick-lists", adminHandler.GeneratePickList)
			admin.GET("/pick-lists/:id", adminHandler.GetPickList)
			admin.GET("/pick-lists/:id/events", adminHandler.GetPickListEvents)
			admin.POST("/pick-lists/:id/assign", adminHandler.AssignPickList)
			admin.POST("/pick-lists/:id/pause", adminHandler.PausePickList)
			admin.POST("/pick-lists/:id/resume", adminHandler.ResumePickList)
			admin.POST("/pick-lists/:id/cancel", adminHandler.CancelPickList)
			admin.POST("/pick-lists/:id/picks", adminHandler.RecordPick)

			// 缺货单
			admin.GET("/back-orders", adminHandler.ListBackOrders)
			admin.GET("/back-orders/eligible", adminHandler.ListEligibleBackOrders)
			admin.GET("/back-orders/:id", adminHandler.GetBackOrder)
			admin.POST("/back-orders/:id/fulfill", adminHandler.FulfillBackOrder)

			// 包裹
			admin.POST("/packages", adminHandler.CreatePackage)
			admin.POST("/packages/:id/ship", adminHandler.ShipPackage)
		}
	}

	return r
}
