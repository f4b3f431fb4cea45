package repositories

import (
	"context"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// UserRepository defines the read-side interface for dashboard users
type UserRepository interface {
	// FindByID retrieves a user by its ID
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// FindByIDs retrieves users matching any of the given ids
	FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error)
}
