package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Agent").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FindByIDForUser retrieves a meeting owned by the given user
func (r *meetingRepository) FindByIDForUser(ctx context.Context, id, userID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Agent").
		Where("id = ? AND user_id = ?", id, userID).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FindCompleted retrieves a meeting only when its status is completed
func (r *meetingRepository) FindCompleted(ctx context.Context, id string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, entities.MeetingStatusCompleted).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// Start transitions a meeting into active. The WHERE clause carries the
// state-machine guard, so duplicate or out-of-order session-started events
// update zero rows instead of restarting a meeting mid-flight.
func (r *meetingRepository) Start(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status NOT IN ?", id, []entities.MeetingStatus{
			entities.MeetingStatusCompleted,
			entities.MeetingStatusActive,
			entities.MeetingStatusCancelled,
			entities.MeetingStatusProcessing,
		}).
		Updates(map[string]interface{}{
			"status":     entities.MeetingStatusActive,
			"started_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkProcessing transitions active -> processing and stamps ended_at.
// A stray session-ended event against a non-active meeting matches no rows.
func (r *meetingRepository) MarkProcessing(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, entities.MeetingStatusActive).
		Updates(map[string]interface{}{
			"status":   entities.MeetingStatusProcessing,
			"ended_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Cancel transitions upcoming/active -> cancelled for the owning user
func (r *meetingRepository) Cancel(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID, []entities.MeetingStatus{
			entities.MeetingStatusUpcoming,
			entities.MeetingStatusActive,
		}).
		Update("status", entities.MeetingStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Complete stores the summary and transitions to completed
func (r *meetingRepository) Complete(ctx context.Context, id, summary string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"summary": summary,
			"status":  entities.MeetingStatusCompleted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetTranscriptURL attaches the transcript artifact URL
func (r *meetingRepository) SetTranscriptURL(ctx context.Context, id, url string) (*entities.Meeting, error) {
	return r.setURLColumn(ctx, id, "transcript_url", url)
}

// SetRecordingURL attaches the recording URL
func (r *meetingRepository) SetRecordingURL(ctx context.Context, id, url string) (*entities.Meeting, error) {
	return r.setURLColumn(ctx, id, "recording_url", url)
}

func (r *meetingRepository) setURLColumn(ctx context.Context, id, column, url string) (*entities.Meeting, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Update(column, url)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

// Update persists name and agent changes to a meeting owned by the given
// user. The write is scoped to the editable columns; status and timestamps
// belong to the guarded transitions and stay untouched here.
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND user_id = ?", meeting.ID, meeting.UserID).
		Updates(map[string]interface{}{
			"name":     meeting.Name,
			"agent_id": meeting.AgentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a meeting owned by the given user
func (r *meetingRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Meeting{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List retrieves meetings with filters and pagination
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Preload("Agent").
		Where("user_id = ?", filters.UserID)

	if filters.Search != "" {
		query = query.Where("name ILIKE ?", fmt.Sprintf("%%%s%%", filters.Search))
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AgentID != nil {
		query = query.Where("agent_id = ?", *filters.AgentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if filters.PageSize > 0 {
		query = query.Limit(filters.PageSize)
		if filters.Page > 1 {
			query = query.Offset((filters.Page - 1) * filters.PageSize)
		}
	}

	err := query.Find(&meetings).Error
	return meetings, total, err
}

// IsNotFound reports whether err is the store's record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
