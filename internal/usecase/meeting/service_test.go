package meeting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
)

type fakeMeetingRepo struct {
	repositories.MeetingRepository

	stored *entities.Meeting

	finds     int
	afterFind func()
}

func (f *fakeMeetingRepo) FindByIDForUser(ctx context.Context, id, userID string) (*entities.Meeting, error) {
	if f.stored == nil || f.stored.ID != id || f.stored.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *f.stored
	f.finds++
	if f.finds == 1 && f.afterFind != nil {
		f.afterFind()
	}
	return &snapshot, nil
}

func (f *fakeMeetingRepo) Update(ctx context.Context, meeting *entities.Meeting) (bool, error) {
	if f.stored == nil || f.stored.ID != meeting.ID || f.stored.UserID != meeting.UserID {
		return false, nil
	}
	f.stored.Name = meeting.Name
	f.stored.AgentID = meeting.AgentID
	return true, nil
}

type fakeAgentRepo struct {
	repositories.AgentRepository

	agents map[string]*entities.Agent
}

func (f *fakeAgentRepo) FindByID(ctx context.Context, id string) (*entities.Agent, error) {
	a, ok := f.agents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeVideo struct {
	stream.VideoClient
}

type fakeChat struct {
	stream.ChatClient
}

func newService(meetings *fakeMeetingRepo, agents *fakeAgentRepo) *Service {
	return NewService(meetings, agents, nil, &fakeVideo{}, &fakeChat{}, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestUpdate_KeepsConcurrentStatusTransition(t *testing.T) {
	meetings := &fakeMeetingRepo{
		stored: &entities.Meeting{ID: "m1", UserID: "u1", AgentID: "a1", Name: "Standup", Status: entities.MeetingStatusUpcoming},
	}
	// A lifecycle event lands between the edit's read and its write.
	meetings.afterFind = func() {
		meetings.stored.Status = entities.MeetingStatusActive
	}

	s := newService(meetings, &fakeAgentRepo{})
	result, err := s.Update(context.Background(), "m1", "u1", UpdateInput{Name: strPtr("Renamed")})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", result.Name)
	assert.Equal(t, entities.MeetingStatusActive, result.Status)
	assert.Equal(t, entities.MeetingStatusActive, meetings.stored.Status)
}

func TestUpdate_ChangesAgentForOwner(t *testing.T) {
	meetings := &fakeMeetingRepo{
		stored: &entities.Meeting{ID: "m1", UserID: "u1", AgentID: "a1", Name: "Standup", Status: entities.MeetingStatusUpcoming},
	}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{
		"a2": {ID: "a2", UserID: "u1", Name: "Tutor"},
	}}

	s := newService(meetings, agents)
	result, err := s.Update(context.Background(), "m1", "u1", UpdateInput{AgentID: strPtr("a2")})

	require.NoError(t, err)
	assert.Equal(t, "a2", result.AgentID)
}

func TestUpdate_RejectsForeignAgent(t *testing.T) {
	meetings := &fakeMeetingRepo{
		stored: &entities.Meeting{ID: "m1", UserID: "u1", AgentID: "a1", Name: "Standup", Status: entities.MeetingStatusUpcoming},
	}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{
		"a2": {ID: "a2", UserID: "someone-else", Name: "Tutor"},
	}}

	s := newService(meetings, agents)
	_, err := s.Update(context.Background(), "m1", "u1", UpdateInput{AgentID: strPtr("a2")})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_AGENT_NOT_FOUND, appErr.Code)
	assert.Equal(t, "a1", meetings.stored.AgentID)
}

func TestUpdate_MeetingDeletedMidFlight(t *testing.T) {
	meetings := &fakeMeetingRepo{
		stored: &entities.Meeting{ID: "m1", UserID: "u1", AgentID: "a1", Name: "Standup", Status: entities.MeetingStatusUpcoming},
	}
	meetings.afterFind = func() {
		meetings.stored = nil
	}

	s := newService(meetings, &fakeAgentRepo{})
	_, err := s.Update(context.Background(), "m1", "u1", UpdateInput{Name: strPtr("Renamed")})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}
