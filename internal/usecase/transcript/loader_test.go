package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
)

type fakeMeetingRepo struct {
	repositories.MeetingRepository

	meeting *entities.Meeting
}

func (f *fakeMeetingRepo) FindByIDForUser(ctx context.Context, id, userID string) (*entities.Meeting, error) {
	if f.meeting == nil || f.meeting.ID != id || f.meeting.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.meeting, nil
}

type fakeUserRepo struct {
	repositories.UserRepository

	users []*entities.User
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	return f.users, nil
}

type fakeAgentRepo struct {
	repositories.AgentRepository

	agents []*entities.Agent
}

func (f *fakeAgentRepo) FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error) {
	return f.agents, nil
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

func strPtr(s string) *string { return &s }

func TestLoad_AttributesSpeakers(t *testing.T) {
	meetings := &fakeMeetingRepo{meeting: &entities.Meeting{
		ID: "m1", UserID: "owner", TranscriptURL: strPtr("https://cdn.example.com/t.jsonl"),
	}}
	users := &fakeUserRepo{users: []*entities.User{
		{ID: "u1", Name: "Alice", Image: strPtr("https://img.example.com/alice.png")},
	}}
	agents := &fakeAgentRepo{agents: []*entities.Agent{
		{ID: "a1", Name: "Tutor"},
	}}
	fetcher := &fakeFetcher{data: []byte(`{"speaker_id":"u1","text":"hello","type":"sentence"}
{"speaker_id":"a1","text":"hi","type":"sentence"}
{"speaker_id":"ghost","text":"who said that","type":"sentence"}`)}

	l := NewLoader(meetings, users, agents, fetcher, zap.NewNop())
	entries, err := l.Load(context.Background(), "m1", "owner")

	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Alice", entries[0].Speaker.Name)
	assert.Equal(t, entities.SpeakerKindHuman, entries[0].Speaker.Kind)
	assert.Equal(t, "https://img.example.com/alice.png", entries[0].Speaker.Image)

	assert.Equal(t, "Tutor", entries[1].Speaker.Name)
	assert.Equal(t, entities.SpeakerKindAgent, entries[1].Speaker.Kind)
	assert.Contains(t, entries[1].Speaker.Image, "bottts-neutral")

	assert.Equal(t, "Unknown", entries[2].Speaker.Name)
	assert.Contains(t, entries[2].Speaker.Image, "initials")
}

func TestLoad_NoTranscriptURLYieldsEmpty(t *testing.T) {
	meetings := &fakeMeetingRepo{meeting: &entities.Meeting{ID: "m1", UserID: "owner"}}

	l := NewLoader(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, &fakeFetcher{}, zap.NewNop())
	entries, err := l.Load(context.Background(), "m1", "owner")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_FetchFailureDegradesToEmpty(t *testing.T) {
	meetings := &fakeMeetingRepo{meeting: &entities.Meeting{
		ID: "m1", UserID: "owner", TranscriptURL: strPtr("https://cdn.example.com/t.jsonl"),
	}}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}

	l := NewLoader(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, fetcher, zap.NewNop())
	entries, err := l.Load(context.Background(), "m1", "owner")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_MeetingNotOwned(t *testing.T) {
	meetings := &fakeMeetingRepo{meeting: &entities.Meeting{ID: "m1", UserID: "owner"}}

	l := NewLoader(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, &fakeFetcher{}, zap.NewNop())
	_, err := l.Load(context.Background(), "m1", "intruder")

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}
