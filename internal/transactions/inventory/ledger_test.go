package inventory

import (
	"context"
	"testing"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestReserve(t *testing.T) {
	t.Parallel()

	product := &models.Product{Name: "Espresso", Inventory: 10}
	if err := Reserve(product, 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if product.Inventory != 6 {
		t.Fatalf("expected 6 left, got %d", product.Inventory)
	}
}

func TestReserveExactStock(t *testing.T) {
	t.Parallel()

	product := &models.Product{Name: "Espresso", Inventory: 4}
	if err := Reserve(product, 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if product.Inventory != 0 {
		t.Fatalf("expected 0 left, got %d", product.Inventory)
	}
}

func TestReserveOverStock(t *testing.T) {
	t.Parallel()

	product := &models.Product{Name: "Espresso", Inventory: 3}
	err := Reserve(product, 4)
	if err == nil {
		t.Fatal("expected error when quantity exceeds inventory")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "The product Espresso exced the enable quantity"
	if typed.Message() != want {
		t.Fatalf("expected %q, got %q", want, typed.Message())
	}
	if product.Inventory != 3 {
		t.Fatalf("inventory must be untouched, got %d", product.Inventory)
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	category := models.Category{Name: "Drinks"}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := models.Product{
		Name:       "Espresso",
		Price:      decimal.NewFromInt(2),
		Inventory:  6,
		CategoryID: category.ID,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := Release(ctx, conn, product.ID, 4); err != nil {
		t.Fatalf("release: %v", err)
	}

	var reloaded models.Product
	if err := conn.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Inventory != 10 {
		t.Fatalf("expected 10 after release, got %d", reloaded.Inventory)
	}
}

func TestReleaseMissingProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	if err := Release(context.Background(), conn, 999, 4); err != nil {
		t.Fatalf("release of missing product must no-op, got %v", err)
	}
}
