package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent represents a reusable AI persona attachable to many meetings.
// Agents are referenced by meetings, never owned by them: deleting a
// meeting leaves its agent untouched.
type Agent struct {
	ID           string    `gorm:"type:text;primary_key" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	UserID       string    `gorm:"type:text;not null;index" json:"user_id"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Agent
func (Agent) TableName() string {
	return "agents"
}

// BeforeCreate assigns an id when none is provided
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
