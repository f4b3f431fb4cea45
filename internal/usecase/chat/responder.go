package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
	"github.com/tamirazrab/parley/pkg/ai"
	"github.com/tamirazrab/parley/pkg/avatar"
)

// historyWindow is how many prior non-blank messages ground the reply
const historyWindow = 5

// fetchLimit is how many channel messages to pull before filtering. Larger
// than the window so blank messages do not shrink the usable history.
const fetchLimit = 20

// Completer produces a chat completion for a conversation
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// Responder answers follow-up chat messages on completed meetings as the
// meeting's agent, grounded on the stored summary
type Responder struct {
	meetingRepo repositories.MeetingRepository
	agentRepo   repositories.AgentRepository
	chat        stream.ChatClient
	model       Completer
	logger      *zap.Logger
}

// NewResponder creates a new follow-up chat responder
func NewResponder(
	meetingRepo repositories.MeetingRepository,
	agentRepo repositories.AgentRepository,
	chat stream.ChatClient,
	model Completer,
	logger *zap.Logger,
) *Responder {
	return &Responder{
		meetingRepo: meetingRepo,
		agentRepo:   agentRepo,
		chat:        chat,
		model:       model,
		logger:      logger,
	}
}

// Respond generates and posts the agent's reply to a new channel message.
// Messages authored by the agent itself return without any model call,
// which is what breaks the reply loop: the agent's own post triggers a new
// event that lands here and stops.
func (r *Responder) Respond(ctx context.Context, channelID, authorID, text string) error {
	meeting, err := r.meetingRepo.FindCompleted(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMeetingNotFound(channelID)
		}
		return apperrors.ErrInternal(err)
	}

	agent, err := r.agentRepo.FindByID(ctx, meeting.AgentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAgentNotFound(meeting.AgentID)
		}
		return apperrors.ErrInternal(err)
	}

	if authorID == agent.ID {
		return nil
	}

	if !meeting.HasSummary() {
		return apperrors.ErrSummaryNotReady()
	}

	history, err := r.chat.RecentMessages(ctx, channelID, fetchLimit)
	if err != nil {
		return apperrors.ErrProviderFailed("query channel messages", err)
	}

	messages := make([]ai.ChatMessage, 0, historyWindow+2)
	messages = append(messages, ai.ChatMessage{
		Role:    "system",
		Content: buildInstructions(meeting, agent),
	})
	messages = append(messages, conversationWindow(history, agent.ID)...)
	messages = append(messages, ai.ChatMessage{Role: "user", Content: text})

	reply, err := r.model.Complete(ctx, messages)
	if err != nil {
		return apperrors.ErrModelFailed(err)
	}
	if reply == "" {
		return apperrors.ErrEmptyCompletion()
	}

	identity := stream.UpsertUser{
		ID:    agent.ID,
		Name:  agent.Name,
		Image: avatar.AgentURL(agent.Name),
	}
	if err := r.chat.UpsertUser(ctx, identity); err != nil {
		return apperrors.ErrProviderFailed("upsert agent identity", err)
	}

	if err := r.chat.SendMessage(ctx, channelID, agent.ID, reply); err != nil {
		return apperrors.ErrProviderFailed("send message", err)
	}

	r.logger.Info("agent replied",
		zap.String("meeting_id", meeting.ID),
		zap.String("agent_id", agent.ID))
	return nil
}

// conversationWindow maps the most recent non-blank channel messages onto
// chat roles. Blank messages are dropped before the window is taken, so a
// run of empty posts cannot starve the model of context.
func conversationWindow(history []stream.ChannelMessage, agentID string) []ai.ChatMessage {
	filtered := make([]stream.ChannelMessage, 0, len(history))
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		filtered = append(filtered, m)
	}
	if len(filtered) > historyWindow {
		filtered = filtered[len(filtered)-historyWindow:]
	}

	messages := make([]ai.ChatMessage, 0, len(filtered))
	for _, m := range filtered {
		role := "user"
		if m.UserID == agentID {
			role = "assistant"
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: m.Text})
	}
	return messages
}

// buildInstructions grounds the agent on the meeting summary and layers the
// agent's original behavior on top
func buildInstructions(meeting *entities.Meeting, agent *entities.Agent) string {
	summary := ""
	if meeting.Summary != nil {
		summary = *meeting.Summary
	}
	return fmt.Sprintf(
		`You are an AI assistant helping the user revisit a recently completed meeting.
Below is a summary of the meeting, generated from the transcript:

%s

The following are your original instructions from the live meeting assistant. Please continue to follow these behavioral guidelines as you assist the user:

%s

The user may ask questions about the meeting, request clarifications, or ask for follow-up actions.
Always base your responses on the meeting summary above.

You also have access to the recent conversation history between you and the user. Use the context of previous messages to provide relevant, coherent, and helpful responses. If the user's question refers to something discussed earlier, make sure to take that into account and maintain continuity in the conversation.

If the summary does not contain enough information to answer a question, politely let the user know.

Be concise, helpful, and focus on providing accurate information from the meeting and the ongoing conversation.`,
		summary,
		agent.Instructions,
	)
}
