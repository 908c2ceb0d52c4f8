package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes coupon management plus the apply validation consumed by the
// sales workflow.
type Service interface {
	Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	FindAll(ctx context.Context) ([]models.Coupon, error)
	FindOne(ctx context.Context, id int64) (*models.Coupon, error)
	Update(ctx context.Context, id int64, input UpdateCouponInput) (*models.Coupon, error)
	Remove(ctx context.Context, id int64) (*RemoveResult, error)
	Apply(ctx context.Context, name string) (*AppliedCoupon, error)
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Name           string
	Percentage     int
	ExpirationDate time.Time
}

// UpdateCouponInput holds optional mutation values for a coupon.
type UpdateCouponInput struct {
	Name           *string
	Percentage     *int
	ExpirationDate *time.Time
}

// AppliedCoupon is the apply-path view: the record plus a confirmation message.
type AppliedCoupon struct {
	Message        string    `json:"message"`
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Percentage     int       `json:"percentage"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// RemoveResult carries the removal confirmation message.
type RemoveResult struct {
	Message string `json:"message"`
}

type service struct {
	repo  *Repository
	cache Cache
	now   func() time.Time
}

// NewService constructs a coupon service. The cache may be nil (no redis).
func NewService(repo *Repository, cache Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &service{repo: repo, cache: cache, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Name:           input.Name,
		Percentage:     input.Percentage,
		ExpirationDate: input.ExpirationDate,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("The coupon %s already exists", input.Name))
		}
		return nil, err
	}
	return created, nil
}

func (s *service) FindAll(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) FindOne(ctx context.Context, id int64) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg := fmt.Sprintf("The coupon with ID: %d does not found", id)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
		}
		return nil, err
	}
	return coupon, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateCouponInput) (*models.Coupon, error) {
	coupon, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	previousName := coupon.Name
	if input.Name != nil {
		coupon.Name = *input.Name
	}
	if input.Percentage != nil {
		coupon.Percentage = *input.Percentage
	}
	if input.ExpirationDate != nil {
		coupon.ExpirationDate = *input.ExpirationDate
	}

	saved, err := s.repo.Save(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("The coupon %s already exists", coupon.Name))
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, previousName)
	s.cache.Invalidate(ctx, saved.Name)
	return saved, nil
}

func (s *service) Remove(ctx context.Context, id int64) (*RemoveResult, error) {
	coupon, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, coupon.ID); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, coupon.Name)
	return &RemoveResult{Message: "Removed coupon"}, nil
}

// Apply validates the named coupon against the current clock. It has no side
// effects; the caller computes the discount from the returned percentage.
func (s *service) Apply(ctx context.Context, name string) (*AppliedCoupon, error) {
	coupon, cached := s.cache.Get(ctx, name)
	if !cached {
		found, err := s.repo.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				msg := fmt.Sprintf("The coupon with name: %s does not found", name)
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
			}
			return nil, err
		}
		s.cache.Set(ctx, found)
		coupon = found
	}

	if s.now().After(endOfDay(coupon.ExpirationDate)) {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "Expired coupon")
	}

	return &AppliedCoupon{
		Message:        "Valid coupon",
		ID:             coupon.ID,
		Name:           coupon.Name,
		Percentage:     coupon.Percentage,
		ExpirationDate: coupon.ExpirationDate,
	}, nil
}

// endOfDay extends the expiration to the last instant of that calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
