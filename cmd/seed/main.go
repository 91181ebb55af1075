package main

import (
	"github.com/bitekart/bitekart/internal/config"
	"github.com/bitekart/bitekart/internal/logger"
	"github.com/bitekart/bitekart/internal/models"

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

	products := []models.Product{
		{
			Slug: "classic-cheeseburger",
			TitleJSON: models.JSON(map[string]interface{}{
				"zh-CN": "经典芝士汉堡",
				"en-US": "Classic Cheeseburger",
			}),
			DescriptionJSON: models.JSON(map[string]interface{}{
				"zh-CN": "牛肉饼配车打芝士与秘制酱",
				"en-US": "Beef patty with cheddar and house sauce",
			}),
			Category:    "burgers",
			PriceAmount: models.Money{Decimal: decimal.NewFromFloat(8.90)},
			Tags:        models.StringArray{"bestseller"},
			IsActive:    true,
			SortOrder:   10,
		},
		{
			Slug: "spicy-chicken-burger",
			TitleJSON: models.JSON(map[string]interface{}{
				"zh-CN": "香辣鸡腿堡",
				"en-US": "Spicy Chicken Burger",
			}),
			DescriptionJSON: models.JSON(map[string]interface{}{
				"zh-CN": "炸鸡腿排配辣味蛋黄酱",
				"en-US": "Crispy chicken thigh with spicy mayo",
			}),
			Category:    "burgers",
			PriceAmount: models.Money{Decimal: decimal.NewFromFloat(7.50)},
			Tags:        models.StringArray{"spicy"},
			IsActive:    true,
			SortOrder:   20,
		},
		{
			Slug: "garden-salad",
			TitleJSON: models.JSON(map[string]interface{}{
				"zh-CN": "田园沙拉",
				"en-US": "Garden Salad",
			}),
			Category:    "sides",
			PriceAmount: models.Money{Decimal: decimal.NewFromFloat(5.20)},
			Tags:        models.StringArray{"vegan"},
			IsActive:    true,
			SortOrder:   30,
		},
		{
			Slug: "french-fries",
			TitleJSON: models.JSON(map[string]interface{}{
				"zh-CN": "薯条",
				"en-US": "French Fries",
			}),
			Category:    "sides",
			PriceAmount: models.Money{Decimal: decimal.NewFromFloat(3.20)},
			IsActive:    true,
			SortOrder:   40,
		},
		{
			Slug: "iced-lemon-tea",
			TitleJSON: models.JSON(map[string]interface{}{
				"zh-CN": "冰柠檬茶",
				"en-US": "Iced Lemon Tea",
			}),
			Category:    "drinks",
			PriceAmount: models.Money{Decimal: decimal.NewFromFloat(2.80)},
			IsActive:    true,
			SortOrder:   50,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	stdLog.Printf("seed finished")
}
