package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:coupons_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("migrate coupons: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) *service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.(*service)
}

func TestApplyValidCoupon(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCouponInput{
		Name:           "navidad",
		Percentage:     20,
		ExpirationDate: time.Now().AddDate(0, 1, 0),
	}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	applied, err := svc.Apply(ctx, "navidad")
	if err != nil {
		t.Fatalf("apply coupon: %v", err)
	}
	if applied.Message != "Valid coupon" {
		t.Fatalf("unexpected message %q", applied.Message)
	}
	if applied.Percentage != 20 {
		t.Fatalf("expected percentage 20, got %d", applied.Percentage)
	}
}

func TestApplyCouponValidUntilEndOfExpirationDay(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	today := time.Now()
	if _, err := svc.Create(ctx, CreateCouponInput{
		Name:           "hoy",
		Percentage:     5,
		ExpirationDate: today,
	}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	// expiring today still applies; the boundary is end of day
	svc.now = func() time.Time {
		return time.Date(today.Year(), today.Month(), today.Day(), 23, 0, 0, 0, today.Location())
	}
	if _, err := svc.Apply(ctx, "hoy"); err != nil {
		t.Fatalf("coupon expiring today should still apply: %v", err)
	}

	svc.now = func() time.Time { return today.AddDate(0, 0, 1) }
	_, err := svc.Apply(ctx, "hoy")
	if err == nil {
		t.Fatal("expected expired coupon error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnprocessable {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
	if typed.Message() != "Expired coupon" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestApplyUnknownCoupon(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Apply(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCouponCRUD(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCouponInput{
		Name:           "verano",
		Percentage:     10,
		ExpirationDate: time.Now().AddDate(0, 2, 0),
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	newPct := 15
	updated, err := svc.Update(ctx, created.ID, UpdateCouponInput{Percentage: &newPct})
	if err != nil {
		t.Fatalf("update coupon: %v", err)
	}
	if updated.Percentage != 15 {
		t.Fatalf("expected percentage 15, got %d", updated.Percentage)
	}

	all, err := svc.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 coupon, got %d", len(all))
	}

	result, err := svc.Remove(ctx, created.ID)
	if err != nil {
		t.Fatalf("remove coupon: %v", err)
	}
	if result.Message != "Removed coupon" {
		t.Fatalf("unexpected message %q", result.Message)
	}

	if _, err := svc.FindOne(ctx, created.ID); err == nil {
		t.Fatal("expected not found after removal")
	}
}

func TestCreateDuplicateCouponName(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	input := CreateCouponInput{Name: "dup", Percentage: 10, ExpirationDate: time.Now().AddDate(0, 1, 0)}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, input)
	if err == nil {
		t.Fatal("expected conflict for duplicate name")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
