package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// webhookEventRepository implements the WebhookEventRepository interface
type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB) repositories.WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

// Create inserts an audit row for a received event
func (r *webhookEventRepository) Create(ctx context.Context, event *entities.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
