package categories

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
	dsn := "file:categories_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestCategoryCRUD(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	created, err := svc.Create(ctx, "Drinks")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	updated, err := svc.Update(ctx, created.ID, "Beverages")
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Beverages" {
		t.Fatalf("unexpected name %q", updated.Name)
	}

	all, err := svc.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 category, got %d", len(all))
	}

	msg, err := svc.Remove(ctx, created.ID)
	if err != nil {
		t.Fatalf("remove category: %v", err)
	}
	if msg == "" {
		t.Fatal("expected removal message")
	}
}

func TestCategoryFindOneNotFound(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.FindOne(context.Background(), 99, false)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCategoryFindOneWithProducts(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	category, err := svc.Create(ctx, "Snacks")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		Name:       "Trail Mix",
		Price:      decimal.NewFromFloat(5.75),
		Inventory:  10,
		CategoryID: category.ID,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	loaded, err := svc.FindOne(ctx, category.ID, true)
	if err != nil {
		t.Fatalf("find one with products: %v", err)
	}
	if len(loaded.Products) != 1 || loaded.Products[0].Name != "Trail Mix" {
		t.Fatalf("expected eager-loaded product, got %+v", loaded.Products)
	}
}
