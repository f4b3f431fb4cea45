package chat

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
	"github.com/tamirazrab/parley/pkg/ai"
)

type fakeMeetingRepo struct {
	repositories.MeetingRepository

	completed map[string]*entities.Meeting
}

func (f *fakeMeetingRepo) FindCompleted(ctx context.Context, id string) (*entities.Meeting, error) {
	m, ok := f.completed[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
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

type fakeChat struct {
	stream.ChatClient

	history []stream.ChannelMessage

	upserted *stream.UpsertUser
	sentTo   string
	sentAs   string
	sentText string
}

func (f *fakeChat) RecentMessages(ctx context.Context, channelID string, limit int) ([]stream.ChannelMessage, error) {
	return f.history, nil
}

func (f *fakeChat) UpsertUser(ctx context.Context, user stream.UpsertUser) error {
	f.upserted = &user
	return nil
}

func (f *fakeChat) SendMessage(ctx context.Context, channelID, userID, text string) error {
	f.sentTo = channelID
	f.sentAs = userID
	f.sentText = text
	return nil
}

type fakeModel struct {
	reply    string
	err      error
	calls    int
	messages []ai.ChatMessage
}

func (f *fakeModel) Complete(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func strPtr(s string) *string { return &s }

func completedMeeting() *entities.Meeting {
	return &entities.Meeting{
		ID:      "m1",
		AgentID: "a1",
		Status:  entities.MeetingStatusCompleted,
		Summary: strPtr("We agreed to ship on Friday."),
	}
}

func newResponder(meetings *fakeMeetingRepo, agents *fakeAgentRepo, chat *fakeChat, model *fakeModel) *Responder {
	return NewResponder(meetings, agents, chat, model, zap.NewNop())
}

func TestRespond_PostsReplyAsAgent(t *testing.T) {
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{"m1": completedMeeting()}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{"a1": {ID: "a1", Name: "Tutor", Instructions: "Be patient."}}}
	chat := &fakeChat{}
	model := &fakeModel{reply: "You decided to ship on Friday."}

	r := newResponder(meetings, agents, chat, model)
	err := r.Respond(context.Background(), "m1", "u1", "what did we decide?")

	require.NoError(t, err)
	assert.Equal(t, "m1", chat.sentTo)
	assert.Equal(t, "a1", chat.sentAs)
	assert.Equal(t, "You decided to ship on Friday.", chat.sentText)

	require.NotNil(t, chat.upserted)
	assert.Equal(t, "a1", chat.upserted.ID)
	assert.Equal(t, "Tutor", chat.upserted.Name)
	assert.Contains(t, chat.upserted.Image, "bottts-neutral")
}

func TestRespond_GroundsModelOnSummaryAndInstructions(t *testing.T) {
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{"m1": completedMeeting()}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{"a1": {ID: "a1", Name: "Tutor", Instructions: "Be patient."}}}
	chat := &fakeChat{}
	model := &fakeModel{reply: "ok"}

	r := newResponder(meetings, agents, chat, model)
	require.NoError(t, r.Respond(context.Background(), "m1", "u1", "hello"))

	require.NotEmpty(t, model.messages)
	system := model.messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "We agreed to ship on Friday.")
	assert.Contains(t, system.Content, "Be patient.")
	assert.Equal(t, ai.ChatMessage{Role: "user", Content: "hello"}, model.messages[len(model.messages)-1])
}

func TestRespond_AgentOwnMessageIsSilentlyDropped(t *testing.T) {
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{"m1": completedMeeting()}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{"a1": {ID: "a1", Name: "Tutor"}}}
	chat := &fakeChat{}
	model := &fakeModel{reply: "should not be used"}

	r := newResponder(meetings, agents, chat, model)
	err := r.Respond(context.Background(), "m1", "a1", "my own reply")

	require.NoError(t, err)
	assert.Zero(t, model.calls)
	assert.Empty(t, chat.sentText)
}

func TestRespond_MeetingNotCompleted(t *testing.T) {
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{}}

	r := newResponder(meetings, agents, &fakeChat{}, &fakeModel{})
	err := r.Respond(context.Background(), "m1", "u1", "hello")

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}

func TestRespond_SummaryMissing(t *testing.T) {
	meeting := completedMeeting()
	meeting.Summary = nil
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{"m1": meeting}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{"a1": {ID: "a1", Name: "Tutor"}}}

	r := newResponder(meetings, agents, &fakeChat{}, &fakeModel{})
	err := r.Respond(context.Background(), "m1", "u1", "hello")

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_SUMMARY_NOT_READY, appErr.Code)
}

func TestRespond_EmptyCompletion(t *testing.T) {
	meetings := &fakeMeetingRepo{completed: map[string]*entities.Meeting{"m1": completedMeeting()}}
	agents := &fakeAgentRepo{agents: map[string]*entities.Agent{"a1": {ID: "a1", Name: "Tutor"}}}
	chat := &fakeChat{}
	model := &fakeModel{reply: ""}

	r := newResponder(meetings, agents, chat, model)
	err := r.Respond(context.Background(), "m1", "u1", "hello")

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_EMPTY_COMPLETION, appErr.Code)
	assert.Empty(t, chat.sentText)
}

func TestConversationWindow_FiltersBlanksBeforeWindowing(t *testing.T) {
	history := []stream.ChannelMessage{
		{Text: "first", UserID: "u1"},
		{Text: "second", UserID: "a1"},
		{Text: "   ", UserID: "u1"},
		{Text: "third", UserID: "u1"},
		{Text: "", UserID: "u1"},
		{Text: "fourth", UserID: "a1"},
		{Text: "fifth", UserID: "u1"},
		{Text: "sixth", UserID: "u1"},
	}

	got := conversationWindow(history, "a1")

	require.Len(t, got, 5)
	assert.Equal(t, []ai.ChatMessage{
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
		{Role: "assistant", Content: "fourth"},
		{Role: "user", Content: "fifth"},
		{Role: "user", Content: "sixth"},
	}, got)
}
