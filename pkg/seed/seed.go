package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run wipes the catalog tables and loads the demo dataset. Meant for local
// development only.
func Run(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.TransactionContents{},
			&models.Transaction{},
			&models.Product{},
			&models.Category{},
			&models.Coupon{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clearing table: %w", err)
			}
		}

		categories := []models.Category{
			{Name: "Drinks"},
			{Name: "Snacks"},
			{Name: "Bakery"},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}

		products := []models.Product{
			{Name: "Espresso", Price: decimal.NewFromFloat(2.50), Inventory: 120, CategoryID: categories[0].ID},
			{Name: "Cold Brew", Price: decimal.NewFromFloat(4.00), Inventory: 80, CategoryID: categories[0].ID},
			{Name: "Tortilla Chips", Price: decimal.NewFromFloat(3.25), Inventory: 60, CategoryID: categories[1].ID},
			{Name: "Trail Mix", Price: decimal.NewFromFloat(5.75), Inventory: 40, CategoryID: categories[1].ID},
			{Name: "Croissant", Price: decimal.NewFromFloat(3.00), Inventory: 25, CategoryID: categories[2].ID},
			{Name: "Concha", Price: decimal.NewFromFloat(1.75), Inventory: 50, CategoryID: categories[2].ID},
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}

		now := time.Now()
		coupons := []models.Coupon{
			{Name: "navidad", Percentage: 20, ExpirationDate: now.AddDate(0, 3, 0)},
			{Name: "verano", Percentage: 10, ExpirationDate: now.AddDate(0, 1, 0)},
			{Name: "caducado", Percentage: 15, ExpirationDate: now.AddDate(0, 0, -30)},
		}
		if err := tx.Create(&coupons).Error; err != nil {
			return fmt.Errorf("seeding coupons: %w", err)
		}

		return nil
	})
}
