package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a user by its ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs retrieves users matching any of the given ids
func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*entities.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
