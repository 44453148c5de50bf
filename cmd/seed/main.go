package main

import (
	"github.com/cangku-next/internal/config"
	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{SKU: "SKU-1001", Name: "无线鼠标", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(59.00)), Tags: models.StringArray{"电子"}, IsActive: true},
		{SKU: "SKU-1002", Name: "机械键盘", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(299.00)), Tags: models.StringArray{"电子"}, IsActive: true},
		{SKU: "SKU-1003", Name: "显示器支架", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00)), IsActive: true},
		{SKU: "SKU-1004", Name: "USB-C 扩展坞", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.00)), IsActive: true},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("sku = ?", product.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
			} else {
				stdLog.Printf("Created product: %s", product.SKU)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.SKU)
		}
	}

	// 添加库位（编码首段即库区）
	locationCodes := []string{"A-01-01", "A-01-02", "A-02-01", "B-01-01", "B-02-03", "C-01-01"}
	for _, code := range locationCodes {
		var existing models.Location
		if err := models.DB.Where("code = ?", code).First(&existing).Error; err != nil {
			location := models.Location{Code: code, Zone: models.ZoneOfCode(code), IsActive: true}
			if err := models.DB.Create(&location).Error; err != nil {
				stdLog.Printf("Failed to create location %s: %v", code, err)
			} else {
				stdLog.Printf("Created location: %s", code)
			}
		} else {
			stdLog.Printf("Location already exists: %s", code)
		}
	}

	// 初始库存：走收货流水入账，保证计数器与流水一致
	var productList []models.Product
	models.DB.Order("id ASC").Find(&productList)
	var locationList []models.Location
	models.DB.Order("id ASC").Find(&locationList)
	if len(productList) == 0 || len(locationList) == 0 {
		stdLog.Fatalf("No products or locations to seed inventory")
	}

	for i, product := range productList {
		location := locationList[i%len(locationList)]
		var existing models.InventoryRecord
		if err := models.DB.Where("product_id = ? AND location_id = ?", product.ID, location.ID).
			First(&existing).Error; err == nil {
			stdLog.Printf("Inventory already seeded: %s @ %s", product.SKU, location.Code)
			continue
		}
		quantity := 50 + i*25
		record := models.InventoryRecord{
			ProductID:      product.ID,
			LocationID:     location.ID,
			QuantityOnHand: quantity,
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to seed inventory for %s: %v", product.SKU, err)
			continue
		}
		txn := models.InventoryTransaction{
			ProductID:      product.ID,
			LocationID:     location.ID,
			Type:           constants.TxnTypeReceipt,
			QuantityChange: quantity,
			ReferenceType:  constants.TxnRefTypeReceiving,
			Notes:          "初始库存",
		}
		if err := models.DB.Create(&txn).Error; err != nil {
			stdLog.Printf("Failed to log seed receipt for %s: %v", product.SKU, err)
		}
		stdLog.Printf("Seeded inventory: %s @ %s x%d", product.SKU, location.Code, quantity)
	}

	stdLog.Printf("Seed finished")
}
