package transactions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/pos-backend/internal/coupons"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:transactions_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Coupon{},
		&models.Transaction{},
		&models.TransactionContents{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	couponSvc, err := coupons.NewService(coupons.NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("coupon service: %v", err)
	}
	svc, err := NewService(db.FromGorm(conn), NewRepository(conn), couponSvc)
	if err != nil {
		t.Fatalf("transaction service: %v", err)
	}
	return svc
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()
	category := models.Category{Name: "Seeded " + name}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := models.Product{
		Name:       name,
		Price:      decimal.NewFromInt(price),
		Inventory:  stock,
		CategoryID: category.ID,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &product
}

func mustCreateCoupon(t *testing.T, conn *gorm.DB, name string, percentage int, expires time.Time) {
	t.Helper()
	coupon := models.Coupon{Name: name, Percentage: percentage, ExpirationDate: expires}
	if err := conn.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon: %v", err)
	}
}

func countRows(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func reloadProduct(t *testing.T, conn *gorm.DB, id int64) *models.Product {
	t.Helper()
	var product models.Product
	if err := conn.First(&product, id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return &product
}

func TestCreateTransaction(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)
	keyboard := mustCreateProduct(t, conn, "Keyboard", 100, 10)

	msg, err := svc.Create(ctx, CreateTransactionInput{
		Total: decimal.NewFromInt(1200),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
			{ProductID: keyboard.ID, Quantity: 2, Price: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if msg != CreatedMessage {
		t.Fatalf("expected %q, got %q", CreatedMessage, msg)
	}

	var transaction models.Transaction
	if err := conn.Preload("Contents").First(&transaction).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if !transaction.Total.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected total 1200, got %s", transaction.Total)
	}
	if !transaction.Discount.IsZero() {
		t.Fatalf("expected zero discount, got %s", transaction.Discount)
	}
	if len(transaction.Contents) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(transaction.Contents))
	}
	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 8 {
		t.Fatalf("expected monitor inventory 8, got %d", got)
	}
	if got := reloadProduct(t, conn, keyboard.ID).Inventory; got != 8 {
		t.Fatalf("expected keyboard inventory 8, got %d", got)
	}
}

func TestCreateTransactionRecomputesTotal(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	_, err := svc.Create(context.Background(), CreateTransactionInput{
		Total: decimal.NewFromInt(1),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var transaction models.Transaction
	if err := conn.First(&transaction).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if !transaction.Total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("client total must be ignored, got %s", transaction.Total)
	}
}

func TestCreateTransactionWithCoupon(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 600, 10)
	mustCreateCoupon(t, conn, "navidad", 20, time.Now().AddDate(0, 3, 0))

	coupon := "navidad"
	if _, err := svc.Create(ctx, CreateTransactionInput{
		Total:  decimal.NewFromInt(1200),
		Coupon: &coupon,
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(600)},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var transaction models.Transaction
	if err := conn.First(&transaction).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if !transaction.Total.Equal(decimal.NewFromInt(960)) {
		t.Fatalf("expected discounted total 960, got %s", transaction.Total)
	}
	if !transaction.Discount.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected discount 240, got %s", transaction.Discount)
	}
	if transaction.Coupon == nil || *transaction.Coupon != "navidad" {
		t.Fatalf("expected coupon navidad, got %v", transaction.Coupon)
	}
}

func TestCreateTransactionMissingProductRollsBack(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	_, err := svc.Create(context.Background(), CreateTransactionInput{
		Total: decimal.NewFromInt(1500),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
			{ProductID: 999, Quantity: 1, Price: decimal.NewFromInt(500)},
		},
	})
	if err == nil {
		t.Fatal("expected missing product error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if want := "The Product with ID 999 does not found"; typed.Message() != want {
		t.Fatalf("expected %q, got %q", want, typed.Message())
	}

	if n := countRows(t, conn, &models.Transaction{}); n != 0 {
		t.Fatalf("expected header rollback, found %d rows", n)
	}
	if n := countRows(t, conn, &models.TransactionContents{}); n != 0 {
		t.Fatalf("expected contents rollback, found %d rows", n)
	}
	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 10 {
		t.Fatalf("expected inventory restored to 10, got %d", got)
	}
}

func TestCreateTransactionInsufficientInventoryRollsBack(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)
	keyboard := mustCreateProduct(t, conn, "Keyboard", 100, 1)

	_, err := svc.Create(context.Background(), CreateTransactionInput{
		Total: decimal.NewFromInt(1200),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
			{ProductID: keyboard.ID, Quantity: 2, Price: decimal.NewFromInt(100)},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient inventory error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if want := "The product Keyboard exced the enable quantity"; typed.Message() != want {
		t.Fatalf("expected %q, got %q", want, typed.Message())
	}

	if n := countRows(t, conn, &models.Transaction{}); n != 0 {
		t.Fatalf("expected header rollback, found %d rows", n)
	}
	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 10 {
		t.Fatalf("expected monitor inventory restored to 10, got %d", got)
	}
}

func TestCreateTransactionExpiredCouponRollsBack(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)
	mustCreateCoupon(t, conn, "caducado", 15, time.Now().AddDate(0, 0, -30))

	coupon := "caducado"
	_, err := svc.Create(context.Background(), CreateTransactionInput{
		Total:  decimal.NewFromInt(1000),
		Coupon: &coupon,
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
		},
	})
	if err == nil {
		t.Fatal("expected expired coupon error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnprocessable {
		t.Fatalf("expected unprocessable, got %v", err)
	}
	if typed.Message() != "Expired coupon" {
		t.Fatalf("expected expired coupon message, got %q", typed.Message())
	}

	if n := countRows(t, conn, &models.Transaction{}); n != 0 {
		t.Fatalf("expected header rollback, found %d rows", n)
	}
	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 10 {
		t.Fatalf("expected inventory untouched, got %d", got)
	}
}

func TestRemoveTransaction(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	if _, err := svc.Create(ctx, CreateTransactionInput{
		Total: decimal.NewFromInt(1500),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 3, Price: decimal.NewFromInt(500)},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 7 {
		t.Fatalf("expected inventory 7 after sale, got %d", got)
	}

	var transaction models.Transaction
	if err := conn.First(&transaction).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}

	result, err := svc.Remove(ctx, transaction.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := fmt.Sprintf("The Transaction with ID %d was removed", transaction.ID)
	if result.Message != want {
		t.Fatalf("expected %q, got %q", want, result.Message)
	}

	if got := reloadProduct(t, conn, monitor.ID).Inventory; got != 10 {
		t.Fatalf("expected inventory restored to 10, got %d", got)
	}
	if n := countRows(t, conn, &models.Transaction{}); n != 0 {
		t.Fatalf("expected header removed, found %d rows", n)
	}
	if n := countRows(t, conn, &models.TransactionContents{}); n != 0 {
		t.Fatalf("expected contents removed, found %d rows", n)
	}
}

func TestRemoveTransactionMissingProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	if _, err := svc.Create(ctx, CreateTransactionInput{
		Total: decimal.NewFromInt(500),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 1, Price: decimal.NewFromInt(500)},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Delete(&models.Product{}, monitor.ID).Error; err != nil {
		t.Fatalf("delete product: %v", err)
	}

	var transaction models.Transaction
	if err := conn.First(&transaction).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if _, err := svc.Remove(ctx, transaction.ID); err != nil {
		t.Fatalf("remove must skip missing products, got %v", err)
	}
	if n := countRows(t, conn, &models.Transaction{}); n != 0 {
		t.Fatalf("expected header removed, found %d rows", n)
	}
}

func TestRemoveTransactionNotFound(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Remove(context.Background(), 404)
	if err == nil {
		t.Fatal("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if want := "The Transaction with ID 404 does not found"; typed.Message() != want {
		t.Fatalf("expected %q, got %q", want, typed.Message())
	}
}

func TestFindAllByDate(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	if _, err := svc.Create(ctx, CreateTransactionInput{
		Total: decimal.NewFromInt(500),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 1, Price: decimal.NewFromInt(500)},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	rows, err := svc.FindAll(ctx, today)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 sale today, got %d", len(rows))
	}
	if len(rows[0].Contents) != 1 {
		t.Fatalf("expected contents preloaded, got %d lines", len(rows[0].Contents))
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	rows, err = svc.FindAll(ctx, yesterday)
	if err != nil {
		t.Fatalf("find all yesterday: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no sales yesterday, got %d", len(rows))
	}

	rows, err = svc.FindAll(ctx, "")
	if err != nil {
		t.Fatalf("find all unfiltered: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(rows))
	}
}

func TestFindAllInvalidDate(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.FindAll(context.Background(), "not-a-date")
	if err == nil {
		t.Fatal("expected invalid date error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Invalid Date" {
		t.Fatalf("expected Invalid Date, got %q", typed.Message())
	}
}

func TestFindOne(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	monitor := mustCreateProduct(t, conn, "Monitor", 500, 10)

	if _, err := svc.Create(ctx, CreateTransactionInput{
		Total: decimal.NewFromInt(1000),
		Contents: []SaleLineInput{
			{ProductID: monitor.ID, Quantity: 2, Price: decimal.NewFromInt(500)},
		},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var header models.Transaction
	if err := conn.First(&header).Error; err != nil {
		t.Fatalf("load header: %v", err)
	}

	transaction, err := svc.FindOne(ctx, header.ID)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if len(transaction.Contents) != 1 {
		t.Fatalf("expected 1 line, got %d", len(transaction.Contents))
	}
	if transaction.Contents[0].Product == nil || transaction.Contents[0].Product.Name != "Monitor" {
		t.Fatal("expected line product preloaded")
	}

	if _, err := svc.FindOne(ctx, 404); err == nil {
		t.Fatal("expected not found for unknown id")
	}
}
