package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when a product ID is already taken.
	ErrDuplicateProduct = errors.New("product already exists")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
