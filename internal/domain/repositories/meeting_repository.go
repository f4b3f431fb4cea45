package repositories

import (
	"context"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// MeetingFilters holds list filters for meetings
type MeetingFilters struct {
	UserID   string
	Search   string
	Status   *entities.MeetingStatus
	AgentID  *string
	Page     int
	PageSize int
}

// MeetingRepository defines the interface for meeting data access.
//
// The guarded transition methods (Start, MarkProcessing, Cancel) are
// conditional compare-and-set updates: they report whether the row was
// actually changed, and a false return with nil error means the meeting
// either does not exist or failed the status guard. Concurrent deliveries
// of the same provider event race safely on these; only one observes the
// precondition.
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id string) (*entities.Meeting, error)

	// FindByIDForUser retrieves a meeting owned by the given user
	FindByIDForUser(ctx context.Context, id, userID string) (*entities.Meeting, error)

	// FindCompleted retrieves a meeting only when its status is completed
	FindCompleted(ctx context.Context, id string) (*entities.Meeting, error)

	// Start transitions upcoming -> active and stamps started_at. The
	// update applies only when the current status is outside
	// {completed, active, cancelled, processing}.
	Start(ctx context.Context, id string) (bool, error)

	// MarkProcessing transitions active -> processing and stamps ended_at.
	// The update applies only when the current status is active.
	MarkProcessing(ctx context.Context, id string) (bool, error)

	// Cancel transitions upcoming/active -> cancelled for the owning user
	Cancel(ctx context.Context, id, userID string) (bool, error)

	// Complete stores the summary and transitions to completed
	Complete(ctx context.Context, id, summary string) error

	// SetTranscriptURL attaches the transcript artifact URL, any status
	SetTranscriptURL(ctx context.Context, id, url string) (*entities.Meeting, error)

	// SetRecordingURL attaches the recording URL, any status
	SetRecordingURL(ctx context.Context, id, url string) (*entities.Meeting, error)

	// Update persists name and agent changes for a meeting owned by the
	// given user. Only those columns are written, so a concurrent status
	// transition is never reverted by an edit.
	Update(ctx context.Context, meeting *entities.Meeting) (bool, error)

	// Delete removes a meeting owned by the given user
	Delete(ctx context.Context, id, userID string) (bool, error)

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)
}
