package meeting

import (
	"time"

	"github.com/tamirazrab/parley/internal/adapter/dto/agent"
	"github.com/tamirazrab/parley/internal/domain/entities"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	UserID        string               `json:"user_id"`
	AgentID       string               `json:"agent_id"`
	Agent         *agent.AgentResponse `json:"agent,omitempty"`
	Status        string               `json:"status"`
	StartedAt     *time.Time           `json:"started_at,omitempty"`
	EndedAt       *time.Time           `json:"ended_at,omitempty"`
	Duration      *int                 `json:"duration,omitempty"`
	TranscriptURL *string              `json:"transcript_url,omitempty"`
	RecordingURL  *string              `json:"recording_url,omitempty"`
	Summary       *string              `json:"summary,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []*MeetingResponse `json:"meetings"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// FromEntity converts a meeting entity to its response shape. Duration is
// derived, never stored.
func FromEntity(m *entities.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:            m.ID,
		Name:          m.Name,
		UserID:        m.UserID,
		AgentID:       m.AgentID,
		Status:        string(m.Status),
		StartedAt:     m.StartedAt,
		EndedAt:       m.EndedAt,
		TranscriptURL: m.TranscriptURL,
		RecordingURL:  m.RecordingURL,
		Summary:       m.Summary,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if d := m.Duration(); d > 0 {
		resp.Duration = &d
	}
	if m.Agent != nil {
		resp.Agent = agent.FromEntity(m.Agent)
	}
	return resp
}

// FromEntities converts a slice of meeting entities
func FromEntities(meetings []*entities.Meeting) []*MeetingResponse {
	out := make([]*MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, FromEntity(m))
	}
	return out
}
