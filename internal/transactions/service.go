// Package transactions books and reverses point of sale transactions.
package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/pos-backend/internal/coupons"
	"github.com/angelmondragon/pos-backend/internal/transactions/inventory"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatedMessage confirms a booked sale to the client.
const CreatedMessage = "Sale storaged correctly"

const dateLayout = "2006-01-02"

// Service exposes sale booking, reversal and lookup operations.
type Service interface {
	Create(ctx context.Context, input CreateTransactionInput) (string, error)
	FindAll(ctx context.Context, transactionDate string) ([]models.Transaction, error)
	FindOne(ctx context.Context, id int64) (*models.Transaction, error)
	Remove(ctx context.Context, id int64) (*RemoveResult, error)
}

// SaleLineInput is one requested line of a sale.
type SaleLineInput struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

// CreateTransactionInput holds the validated payload to book a sale. The
// client-supplied total is accepted but the booked total is always recomputed
// from the lines.
type CreateTransactionInput struct {
	Total    decimal.Decimal `json:"total" validate:"required"`
	Coupon   *string         `json:"coupon,omitempty"`
	Contents []SaleLineInput `json:"contents" validate:"required,min=1,dive"`
}

// RemoveResult confirms a reversed sale.
type RemoveResult struct {
	Message string `json:"message"`
}

type couponApplier interface {
	Apply(ctx context.Context, name string) (*coupons.AppliedCoupon, error)
}

type service struct {
	db      *db.Client
	repo    *Repository
	coupons couponApplier
}

// NewService constructs a transaction service instance.
func NewService(client *db.Client, repo *Repository, couponSvc couponApplier) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	return &service{db: client, repo: repo, coupons: couponSvc}, nil
}

// Create books a sale in a single unit of work: the header with the recomputed
// total, the optional coupon discount, and one inventory reservation plus line
// row per requested product. Any failure rolls back every write.
func (s *service) Create(ctx context.Context, input CreateTransactionInput) (string, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		total := decimal.Zero
		for _, line := range input.Contents {
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		transaction := &models.Transaction{Total: total}
		if err := repo.CreateHeader(ctx, transaction); err != nil {
			return err
		}

		if input.Coupon != nil && *input.Coupon != "" {
			applied, err := s.coupons.Apply(ctx, *input.Coupon)
			if err != nil {
				return err
			}
			discount := total.
				Mul(decimal.NewFromInt(int64(applied.Percentage))).
				Div(decimal.NewFromInt(100))
			transaction.Coupon = &applied.Name
			transaction.Discount = discount
			transaction.Total = total.Sub(discount)
		}

		for _, line := range input.Contents {
			product, err := repo.LockProductByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					msg := fmt.Sprintf("The Product with ID %d does not found", line.ProductID)
					return pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
				}
				return err
			}
			if err := inventory.Reserve(product, line.Quantity); err != nil {
				return err
			}
			if err := repo.SaveProduct(ctx, product); err != nil {
				return err
			}
			if err := repo.SaveHeader(ctx, transaction); err != nil {
				return err
			}
			content := &models.TransactionContents{
				Quantity:      line.Quantity,
				Price:         line.Price,
				ProductID:     line.ProductID,
				TransactionID: transaction.ID,
			}
			if err := repo.CreateContent(ctx, content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return CreatedMessage, nil
}

// FindAll lists sales, optionally narrowed to one calendar day.
func (s *service) FindAll(ctx context.Context, transactionDate string) ([]models.Transaction, error) {
	var day time.Time
	if transactionDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, transactionDate, time.Local)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid Date")
		}
		day = parsed
	}
	return s.repo.ListByDay(ctx, day)
}

// FindOne loads one sale with its lines.
func (s *service) FindOne(ctx context.Context, id int64) (*models.Transaction, error) {
	transaction, err := s.repo.FindByIDWithContents(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound(id)
		}
		return nil, err
	}
	return transaction, nil
}

// Remove reverses a sale in a single unit of work: each line returns its
// quantity to the product's inventory before the line and the header rows are
// deleted. Lines whose product is already gone still get deleted.
func (s *service) Remove(ctx context.Context, id int64) (*RemoveResult, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		transaction, err := repo.FindByIDWithContents(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.notFound(id)
			}
			return err
		}

		for _, content := range transaction.Contents {
			if err := inventory.Release(ctx, tx, content.ProductID, content.Quantity); err != nil {
				return err
			}
			if err := repo.DeleteContent(ctx, content.ID); err != nil {
				return err
			}
		}
		return repo.DeleteHeader(ctx, transaction.ID)
	})
	if err != nil {
		return nil, err
	}
	return &RemoveResult{Message: fmt.Sprintf("The Transaction with ID %d was removed", id)}, nil
}

func (s *service) notFound(id int64) error {
	msg := fmt.Sprintf("The Transaction with ID %d does not found", id)
	return pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
}
