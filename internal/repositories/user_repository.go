package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

// ErrUserNotFound is returned when a user lookup finds nothing.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for operator account access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
