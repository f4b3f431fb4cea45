package repositories

import (
	"context"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// AgentFilters holds list filters for agents
type AgentFilters struct {
	UserID   string
	Search   string
	Page     int
	PageSize int
}

// AgentWithMeetingCount pairs an agent with the number of meetings
// referencing it
type AgentWithMeetingCount struct {
	entities.Agent
	MeetingCount int64 `json:"meeting_count"`
}

// AgentRepository defines the interface for agent data access
type AgentRepository interface {
	// Create creates a new agent
	Create(ctx context.Context, agent *entities.Agent) error

	// FindByID retrieves an agent by its ID
	FindByID(ctx context.Context, id string) (*entities.Agent, error)

	// FindByIDForUser retrieves an agent owned by the given user,
	// including its meeting count
	FindByIDForUser(ctx context.Context, id, userID string) (*AgentWithMeetingCount, error)

	// FindByIDs retrieves agents matching any of the given ids
	FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error)

	// Update persists field changes to an agent owned by the given user
	Update(ctx context.Context, agent *entities.Agent) (bool, error)

	// Delete removes an agent owned by the given user
	Delete(ctx context.Context, id, userID string) (bool, error)

	// List retrieves agents with filters, pagination and meeting counts
	List(ctx context.Context, filters AgentFilters) ([]*AgentWithMeetingCount, int64, error)
}
