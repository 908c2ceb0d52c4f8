package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPageSize caps product listings when the caller does not page.
const DefaultPageSize = 10

// Service exposes product management operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	FindAll(ctx context.Context, query ListProductsInput) (*ProductListResult, error)
	FindOne(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*models.Product, error)
	Remove(ctx context.Context, id int64) (string, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name       string
	Image      *string
	Price      decimal.Decimal
	Inventory  int
	CategoryID int64
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name       *string
	Image      *string
	Price      *decimal.Decimal
	Inventory  *int
	CategoryID *int64
}

// ListProductsInput narrows and pages the listing.
type ListProductsInput struct {
	CategoryID *int64
	Take       int
	Skip       int
}

// ProductListResult carries a page of products plus the unpaged total.
type ProductListResult struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type categoryLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

type service struct {
	repo         *Repository
	categoryRepo categoryLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categoryRepo categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categoryRepo: categoryRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	category, err := s.loadCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:       input.Name,
		Price:      input.Price,
		Inventory:  input.Inventory,
		CategoryID: category.ID,
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	return s.repo.Create(ctx, product)
}

func (s *service) FindAll(ctx context.Context, query ListProductsInput) (*ProductListResult, error) {
	take := query.Take
	if take <= 0 {
		take = DefaultPageSize
	}
	skip := query.Skip
	if skip < 0 {
		skip = 0
	}

	rows, total, err := s.repo.List(ctx, ListQuery{
		CategoryID: query.CategoryID,
		Take:       take,
		Skip:       skip,
	})
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Total: total, Products: rows}, nil
}

func (s *service) FindOne(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByIDWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg := fmt.Sprintf("The product with ID %d does not found", id)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*models.Product, error) {
	product, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.CategoryID != nil {
		category, err := s.loadCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.Category = category
	}

	return s.repo.Save(ctx, product)
}

func (s *service) Remove(ctx context.Context, id int64) (string, error) {
	product, err := s.FindOne(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("The Product with ID %d was removed", id), nil
}

func (s *service) loadCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg := fmt.Sprintf("The category with ID %d does not found", id)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
		}
		return nil, err
	}
	return category, nil
}
