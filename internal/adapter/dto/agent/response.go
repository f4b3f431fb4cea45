package agent

import (
	"time"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// AgentResponse represents an agent in responses
type AgentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	UserID       string    `json:"user_id"`
	MeetingCount *int64    `json:"meeting_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AgentListResponse represents a paginated list of agents
type AgentListResponse struct {
	Agents     []*AgentResponse `json:"agents"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// FromEntity converts an agent entity to its response shape
func FromEntity(a *entities.Agent) *AgentResponse {
	return &AgentResponse{
		ID:           a.ID,
		Name:         a.Name,
		Instructions: a.Instructions,
		UserID:       a.UserID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// FromEntityWithCount converts an agent with its meeting count
func FromEntityWithCount(a *repositories.AgentWithMeetingCount) *AgentResponse {
	resp := FromEntity(&a.Agent)
	count := a.MeetingCount
	resp.MeetingCount = &count
	return resp
}

// FromEntitiesWithCount converts a slice of counted agents
func FromEntitiesWithCount(agents []*repositories.AgentWithMeetingCount) []*AgentResponse {
	out := make([]*AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, FromEntityWithCount(a))
	}
	return out
}
