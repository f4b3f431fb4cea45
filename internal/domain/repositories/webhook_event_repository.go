package repositories

import (
	"context"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// WebhookEventRepository records received provider events for auditing
type WebhookEventRepository interface {
	// Create inserts an audit row for a received event
	Create(ctx context.Context, event *entities.WebhookEvent) error
}
