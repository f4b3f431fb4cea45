package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent is an audit record of a received provider event. Rows are
// written best-effort; failing to record an event never fails its handling.
type WebhookEvent struct {
	ID         string         `gorm:"type:text;primary_key" json:"id"`
	EventType  string         `gorm:"type:varchar(100);not null;index" json:"event_type"`
	MeetingID  *string        `gorm:"type:text;index" json:"meeting_id,omitempty"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	ReceivedAt time.Time      `gorm:"default:now()" json:"received_at"`
}

// TableName specifies the table name for WebhookEvent
func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// BeforeCreate assigns an id when none is provided
func (e *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
