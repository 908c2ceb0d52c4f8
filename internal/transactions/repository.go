package transactions

import (
	"context"
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together sale persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByIDWithContents loads a sale header plus its lines.
func (r *Repository) FindByIDWithContents(ctx context.Context, id int64) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Contents").
		Preload("Contents.Product").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ListByDay returns the sales booked on the given calendar day. A zero day
// returns everything.
func (r *Repository) ListByDay(ctx context.Context, day time.Time) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Contents").
		Preload("Contents.Product").
		Order("id ASC")
	if !day.IsZero() {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 1)
		query = query.Where("transaction_date >= ? AND transaction_date < ?", start, end)
	}

	var rows []models.Transaction
	err := query.Find(&rows).Error
	return rows, err
}

// LockProductByID loads a product row under FOR UPDATE so concurrent sales
// cannot both reserve the same stock. SQLite serializes writers on its own
// and rejects the clause, so it is skipped there.
func (r *Repository) LockProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateHeader inserts the sale header row.
func (r *Repository) CreateHeader(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// SaveHeader persists the sale header's current totals.
func (r *Repository) SaveHeader(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"total":    transaction.Total,
			"coupon":   transaction.Coupon,
			"discount": transaction.Discount,
		}).Error
}

// SaveProduct persists the product's current inventory.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// CreateContent inserts one sale line row.
func (r *Repository) CreateContent(ctx context.Context, content *models.TransactionContents) error {
	return r.db.WithContext(ctx).Create(content).Error
}

// DeleteContent removes one sale line row.
func (r *Repository) DeleteContent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.TransactionContents{}, "id = ?", id).Error
}

// DeleteHeader removes the sale header row.
func (r *Repository) DeleteHeader(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error
}
