package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes category management operations.
type Service interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindOne(ctx context.Context, id int64, withProducts bool) (*models.Category, error)
	Update(ctx context.Context, id int64, name string) (*models.Category, error)
	Remove(ctx context.Context, id int64) (string, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, name string) (*models.Category, error) {
	return s.repo.Create(ctx, &models.Category{Name: name})
}

func (s *service) FindAll(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *service) FindOne(ctx context.Context, id int64, withProducts bool) (*models.Category, error) {
	var (
		category *models.Category
		err      error
	)
	if withProducts {
		category, err = s.repo.FindByIDWithProducts(ctx, id)
	} else {
		category, err = s.repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return category, nil
}

func (s *service) Update(ctx context.Context, id int64, name string) (*models.Category, error) {
	category, err := s.FindOne(ctx, id, false)
	if err != nil {
		return nil, err
	}
	category.Name = name
	return s.repo.Save(ctx, category)
}

func (s *service) Remove(ctx context.Context, id int64) (string, error) {
	category, err := s.FindOne(ctx, id, false)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, category.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("The Category with ID %d was removed", id), nil
}

func notFound(id int64) *pkgerrors.Error {
	msg := fmt.Sprintf("The category with ID %d does not found", id)
	return pkgerrors.New(pkgerrors.CodeNotFound, msg).WithDetails([]string{msg})
}
