package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingStatus represents the lifecycle status of a meeting
type MeetingStatus string

const (
	MeetingStatusUpcoming   MeetingStatus = "upcoming"
	MeetingStatusActive     MeetingStatus = "active"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible from s
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusCancelled
}

// Valid reports whether s is a known status value
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusUpcoming, MeetingStatusActive, MeetingStatusProcessing,
		MeetingStatusCompleted, MeetingStatusCancelled:
		return true
	}
	return false
}

// Meeting represents a scheduled or in-progress session between a user and an AI agent
type Meeting struct {
	ID            string        `gorm:"type:text;primary_key" json:"id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	UserID        string        `gorm:"type:text;not null;index" json:"user_id"`
	AgentID       string        `gorm:"type:text;not null;index" json:"agent_id"`
	Agent         *Agent        `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Status        MeetingStatus `gorm:"type:varchar(20);not null;default:'upcoming';index" json:"status"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	TranscriptURL *string       `gorm:"type:text" json:"transcript_url,omitempty"`
	RecordingURL  *string       `gorm:"type:text" json:"recording_url,omitempty"`
	Summary       *string       `gorm:"type:text" json:"summary,omitempty"`
	CreatedAt     time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// BeforeCreate assigns an id when none is provided
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsActive checks if the meeting is currently active
func (m *Meeting) IsActive() bool {
	return m.Status == MeetingStatusActive
}

// IsCompleted checks if the meeting has completed processing
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// HasSummary reports whether a non-empty summary is stored
func (m *Meeting) HasSummary() bool {
	return m.Summary != nil && *m.Summary != ""
}

// Duration returns the elapsed call time in seconds, zero when the
// meeting never ran or is still running
func (m *Meeting) Duration() int {
	if m.StartedAt == nil || m.EndedAt == nil {
		return 0
	}
	return int(m.EndedAt.Sub(*m.StartedAt).Seconds())
}

// Cancellable reports whether a user-initiated cancellation is allowed.
// Cancellation never comes from provider events; only upcoming and active
// meetings can be cancelled.
func (m *Meeting) Cancellable() bool {
	return m.Status == MeetingStatusUpcoming || m.Status == MeetingStatusActive
}
