package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// agentRepository implements the AgentRepository interface
type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) repositories.AgentRepository {
	return &agentRepository{db: db}
}

// Create creates a new agent
func (r *agentRepository) Create(ctx context.Context, agent *entities.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// FindByID retrieves an agent by its ID
func (r *agentRepository) FindByID(ctx context.Context, id string) (*entities.Agent, error) {
	var agent entities.Agent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByIDForUser retrieves an agent owned by the given user with its meeting count
func (r *agentRepository) FindByIDForUser(ctx context.Context, id, userID string) (*repositories.AgentWithMeetingCount, error) {
	var row repositories.AgentWithMeetingCount
	err := r.db.WithContext(ctx).
		Model(&entities.Agent{}).
		Select("agents.*, (?) AS meeting_count", r.meetingCountSubquery()).
		Where("agents.id = ? AND agents.user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs retrieves agents matching any of the given ids
func (r *agentRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var agents []*entities.Agent
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&agents).Error
	return agents, err
}

// Update persists field changes to an agent owned by the given user
func (r *agentRepository) Update(ctx context.Context, agent *entities.Agent) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Agent{}).
		Where("id = ? AND user_id = ?", agent.ID, agent.UserID).
		Updates(map[string]interface{}{
			"name":         agent.Name,
			"instructions": agent.Instructions,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes an agent owned by the given user
func (r *agentRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Agent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List retrieves agents with filters, pagination and meeting counts
func (r *agentRepository) List(ctx context.Context, filters repositories.AgentFilters) ([]*repositories.AgentWithMeetingCount, int64, error) {
	var rows []*repositories.AgentWithMeetingCount
	var total int64

	base := r.db.WithContext(ctx).
		Model(&entities.Agent{}).
		Where("agents.user_id = ?", filters.UserID)

	if filters.Search != "" {
		base = base.Where("agents.name ILIKE ?", fmt.Sprintf("%%%s%%", filters.Search))
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.
		Select("agents.*, (?) AS meeting_count", r.meetingCountSubquery()).
		Order("agents.created_at DESC, agents.id DESC")

	if filters.PageSize > 0 {
		query = query.Limit(filters.PageSize)
		if filters.Page > 1 {
			query = query.Offset((filters.Page - 1) * filters.PageSize)
		}
	}

	err := query.Find(&rows).Error
	return rows, total, err
}

func (r *agentRepository) meetingCountSubquery() *gorm.DB {
	return r.db.Model(&entities.Meeting{}).
		Select("COUNT(*)").
		Where("meetings.agent_id = agents.id")
}
