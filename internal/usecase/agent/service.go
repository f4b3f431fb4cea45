package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

// Service handles agent business logic
type Service struct {
	agentRepo repositories.AgentRepository
	logger    *zap.Logger
}

// NewService creates a new agent service
func NewService(agentRepo repositories.AgentRepository, logger *zap.Logger) *Service {
	return &Service{agentRepo: agentRepo, logger: logger}
}

// CreateInput represents input for creating an agent
type CreateInput struct {
	Name         string
	Instructions string
}

// Create creates a new agent for the given user
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*entities.Agent, error) {
	agent := &entities.Agent{
		Name:         input.Name,
		Instructions: input.Instructions,
		UserID:       userID,
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("agent created",
		zap.String("agent_id", agent.ID),
		zap.String("user_id", userID))
	return agent, nil
}

// Get retrieves an agent owned by the given user, with its meeting count
func (s *Service) Get(ctx context.Context, id, userID string) (*repositories.AgentWithMeetingCount, error) {
	agent, err := s.agentRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAgentNotFound(id)
		}
		return nil, apperrors.ErrInternal(err)
	}
	return agent, nil
}

// List retrieves agents with filters and meeting counts
func (s *Service) List(ctx context.Context, filters repositories.AgentFilters) ([]*repositories.AgentWithMeetingCount, int64, error) {
	agents, total, err := s.agentRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.ErrInternal(err)
	}
	return agents, total, nil
}

// UpdateInput represents input for updating an agent
type UpdateInput struct {
	Name         *string
	Instructions *string
}

// Update changes an agent's name or instructions for the owning user
func (s *Service) Update(ctx context.Context, id, userID string, input UpdateInput) (*repositories.AgentWithMeetingCount, error) {
	current, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	agent := current.Agent
	if input.Name != nil {
		agent.Name = *input.Name
	}
	if input.Instructions != nil {
		agent.Instructions = *input.Instructions
	}

	updated, err := s.agentRepo.Update(ctx, &agent)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if !updated {
		return nil, apperrors.ErrAgentNotFound(id)
	}

	return s.Get(ctx, id, userID)
}

// Remove deletes an agent owned by the given user
func (s *Service) Remove(ctx context.Context, id, userID string) error {
	deleted, err := s.agentRepo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if !deleted {
		return apperrors.ErrAgentNotFound(id)
	}
	return nil
}
