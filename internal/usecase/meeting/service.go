package meeting

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
	"github.com/tamirazrab/parley/pkg/avatar"
)

// Service handles meeting business logic
type Service struct {
	meetingRepo repositories.MeetingRepository
	agentRepo   repositories.AgentRepository
	userRepo    repositories.UserRepository
	video       stream.VideoClient
	chat        stream.ChatClient
	logger      *zap.Logger
}

// NewService creates a new meeting service
func NewService(
	meetingRepo repositories.MeetingRepository,
	agentRepo repositories.AgentRepository,
	userRepo repositories.UserRepository,
	video stream.VideoClient,
	chat stream.ChatClient,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		agentRepo:   agentRepo,
		userRepo:    userRepo,
		video:       video,
		chat:        chat,
		logger:      logger,
	}
}

// CreateInput represents input for creating a meeting
type CreateInput struct {
	Name    string
	AgentID string
}

// Create creates a meeting, provisions its provider call under the meeting
// id, and registers the agent's provider identity
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*entities.Meeting, error) {
	agent, err := s.agentRepo.FindByID(ctx, input.AgentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAgentNotFound(input.AgentID)
		}
		return nil, apperrors.ErrInternal(err)
	}
	if agent.UserID != userID {
		return nil, apperrors.ErrAgentNotFound(input.AgentID)
	}

	meeting := &entities.Meeting{
		Name:    input.Name,
		UserID:  userID,
		AgentID: agent.ID,
		Status:  entities.MeetingStatusUpcoming,
	}
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	// The call id IS the meeting id; every later webhook resolves the
	// meeting through it.
	if err := s.video.CreateCall(ctx, meeting.ID, userID, meeting.Name, stream.CallSettings{}); err != nil {
		return nil, apperrors.ErrProviderFailed("create call", err)
	}

	identity := stream.UpsertUser{
		ID:    agent.ID,
		Name:  agent.Name,
		Role:  "user",
		Image: avatar.AgentURL(agent.Name),
	}
	if err := s.video.UpsertUsers(ctx, []stream.UpsertUser{identity}); err != nil {
		return nil, apperrors.ErrProviderFailed("upsert agent identity", err)
	}

	s.logger.Info("meeting created",
		zap.String("meeting_id", meeting.ID),
		zap.String("agent_id", agent.ID))
	meeting.Agent = agent
	return meeting, nil
}

// Get retrieves a meeting owned by the given user
func (s *Service) Get(ctx context.Context, id, userID string) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(id)
		}
		return nil, apperrors.ErrInternal(err)
	}
	return meeting, nil
}

// List retrieves meetings with filters
func (s *Service) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.ErrInternal(err)
	}
	return meetings, total, nil
}

// UpdateInput represents input for updating a meeting
type UpdateInput struct {
	Name    *string
	AgentID *string
}

// Update changes a meeting's name or agent for the owning user
func (s *Service) Update(ctx context.Context, id, userID string, input UpdateInput) (*entities.Meeting, error) {
	meeting, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		meeting.Name = *input.Name
	}
	if input.AgentID != nil {
		agent, err := s.agentRepo.FindByID(ctx, *input.AgentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAgentNotFound(*input.AgentID)
			}
			return nil, apperrors.ErrInternal(err)
		}
		if agent.UserID != userID {
			return nil, apperrors.ErrAgentNotFound(*input.AgentID)
		}
		meeting.AgentID = agent.ID
	}

	updated, err := s.meetingRepo.Update(ctx, meeting)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if !updated {
		return nil, apperrors.ErrMeetingNotFound(id)
	}
	return s.Get(ctx, id, userID)
}

// Remove deletes a meeting owned by the given user
func (s *Service) Remove(ctx context.Context, id, userID string) error {
	deleted, err := s.meetingRepo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if !deleted {
		return apperrors.ErrMeetingNotFound(id)
	}
	return nil
}

// Cancel is the single entry point for cancellation; provider events never
// cancel a meeting. Only upcoming and active meetings qualify.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*entities.Meeting, error) {
	cancelled, err := s.meetingRepo.Cancel(ctx, id, userID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if !cancelled {
		meeting, err := s.meetingRepo.FindByIDForUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrMeetingNotFound(id)
			}
			return nil, apperrors.ErrInternal(err)
		}
		return nil, apperrors.ErrInvalidArgument("Meeting cannot be cancelled in status " + string(meeting.Status))
	}

	return s.Get(ctx, id, userID)
}

// VideoToken mints a provider video token for the user, registering their
// provider identity first
func (s *Service) VideoToken(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrNotFound("User")
		}
		return "", apperrors.ErrInternal(err)
	}

	image := avatar.InitialsURL(user.Name)
	if user.Image != nil && *user.Image != "" {
		image = *user.Image
	}
	identity := stream.UpsertUser{
		ID:    user.ID,
		Name:  user.Name,
		Role:  "admin",
		Image: image,
	}
	if err := s.video.UpsertUsers(ctx, []stream.UpsertUser{identity}); err != nil {
		return "", apperrors.ErrProviderFailed("upsert user identity", err)
	}

	token, err := s.video.UserToken(userID)
	if err != nil {
		return "", apperrors.ErrProviderFailed("mint video token", err)
	}
	return token, nil
}

// ChatToken mints a provider chat token for the user
func (s *Service) ChatToken(ctx context.Context, userID string) (string, error) {
	token, err := s.chat.UserToken(userID)
	if err != nil {
		return "", apperrors.ErrProviderFailed("mint chat token", err)
	}
	return token, nil
}
