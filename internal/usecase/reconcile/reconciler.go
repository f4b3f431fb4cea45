package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
)

// Dispatcher enqueues transcript processing jobs
type Dispatcher interface {
	DispatchProcessing(ctx context.Context, job queue.ProcessingJob) error
}

// Responder produces the agent's reply to a follow-up chat message
type Responder interface {
	Respond(ctx context.Context, channelID, authorID, text string) error
}

// Reconciler applies provider lifecycle events to meeting state. Handlers
// are idempotent: the repository's guarded transitions absorb duplicate and
// out-of-order deliveries, so redelivery of any event is safe.
type Reconciler struct {
	meetingRepo repositories.MeetingRepository
	agentRepo   repositories.AgentRepository
	eventRepo   repositories.WebhookEventRepository
	video       stream.VideoClient
	dispatcher  Dispatcher
	responder   Responder
	logger      *zap.Logger

	handlers map[string]handlerFunc
}

type handlerFunc func(ctx context.Context, body []byte) error

// NewReconciler creates a new event reconciler
func NewReconciler(
	meetingRepo repositories.MeetingRepository,
	agentRepo repositories.AgentRepository,
	eventRepo repositories.WebhookEventRepository,
	video stream.VideoClient,
	dispatcher Dispatcher,
	responder Responder,
	logger *zap.Logger,
) *Reconciler {
	r := &Reconciler{
		meetingRepo: meetingRepo,
		agentRepo:   agentRepo,
		eventRepo:   eventRepo,
		video:       video,
		dispatcher:  dispatcher,
		responder:   responder,
		logger:      logger,
	}
	r.handlers = map[string]handlerFunc{
		EventSessionStarted:     r.handleSessionStarted,
		EventParticipantLeft:    r.handleParticipantLeft,
		EventSessionEnded:       r.handleSessionEnded,
		EventTranscriptionReady: r.handleTranscriptionReady,
		EventRecordingReady:     r.handleRecordingReady,
		EventMessageNew:         r.handleMessageNew,
	}
	return r
}

// Handle dispatches a verified event body to its handler. It returns the
// event type and whether the event was recognized; unknown types are
// acknowledged without side effects so the provider does not retry them.
func (r *Reconciler) Handle(ctx context.Context, body []byte) (string, bool, error) {
	eventType, err := EventType(body)
	if err != nil {
		return "", false, err
	}

	handler, ok := r.handlers[eventType]
	if !ok {
		r.logger.Debug("ignoring unknown event type", zap.String("event_type", eventType))
		return eventType, false, nil
	}

	return eventType, true, handler(ctx, body)
}

// handleSessionStarted activates the meeting and joins its agent to the
// live call
func (r *Reconciler) handleSessionStarted(ctx context.Context, body []byte) error {
	var payload callPayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	meetingID := payload.Call.Custom.MeetingID
	if meetingID == "" {
		return apperrors.ErrMissingMeetingID()
	}
	r.audit(ctx, EventSessionStarted, meetingID, body)

	started, err := r.meetingRepo.Start(ctx, meetingID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if !started {
		return apperrors.ErrMeetingNotFound(meetingID)
	}

	meeting, err := r.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}

	agent, err := r.agentRepo.FindByID(ctx, meeting.AgentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAgentNotFound(meeting.AgentID)
		}
		return apperrors.ErrInternal(err)
	}

	if err := r.video.ConnectAgent(ctx, meetingID, agent.ID, agent.Instructions); err != nil {
		return apperrors.ErrProviderFailed("connect agent", err)
	}

	r.logger.Info("meeting started",
		zap.String("meeting_id", meetingID),
		zap.String("agent_id", agent.ID))
	return nil
}

// handleParticipantLeft ends the call once no real participants remain.
// The agent never leaves on its own, so without this check a call would
// stay open indefinitely after the last human drops.
func (r *Reconciler) handleParticipantLeft(ctx context.Context, body []byte) error {
	var payload cidPayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	meetingID := meetingIDFromCID(payload.CallCID)
	if meetingID == "" {
		return apperrors.ErrMissingMeetingID()
	}
	r.audit(ctx, EventParticipantLeft, meetingID, body)

	members, err := r.video.GetCallMembers(ctx, meetingID)
	if err != nil {
		return apperrors.ErrProviderFailed("get call members", err)
	}

	remaining := 0
	for _, m := range members {
		if m.Role != "removed" && m.Role != "left" {
			remaining++
		}
	}
	if remaining > 0 {
		return nil
	}

	if err := r.video.EndCall(ctx, meetingID); err != nil {
		return apperrors.ErrProviderFailed("end call", err)
	}
	r.logger.Info("ended empty call", zap.String("meeting_id", meetingID))
	return nil
}

// handleSessionEnded moves an active meeting into processing. A stray
// event against a meeting in any other status is acknowledged without
// changes.
func (r *Reconciler) handleSessionEnded(ctx context.Context, body []byte) error {
	var payload callPayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	meetingID := payload.Call.Custom.MeetingID
	if meetingID == "" {
		return apperrors.ErrMissingMeetingID()
	}
	r.audit(ctx, EventSessionEnded, meetingID, body)

	updated, err := r.meetingRepo.MarkProcessing(ctx, meetingID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if !updated {
		r.logger.Debug("session ended for non-active meeting",
			zap.String("meeting_id", meetingID))
		return nil
	}

	r.logger.Info("meeting processing", zap.String("meeting_id", meetingID))
	return nil
}

// handleTranscriptionReady stores the artifact URL and enqueues exactly
// one summarization job for this delivery
func (r *Reconciler) handleTranscriptionReady(ctx context.Context, body []byte) error {
	var payload transcriptionPayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	meetingID := meetingIDFromCID(payload.CallCID)
	if meetingID == "" {
		return apperrors.ErrMissingMeetingID()
	}
	r.audit(ctx, EventTranscriptionReady, meetingID, body)

	meeting, err := r.meetingRepo.SetTranscriptURL(ctx, meetingID, payload.CallTranscription.URL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMeetingNotFound(meetingID)
		}
		return apperrors.ErrInternal(err)
	}

	job := queue.ProcessingJob{
		MeetingID:     meeting.ID,
		TranscriptURL: payload.CallTranscription.URL,
	}
	if err := r.dispatcher.DispatchProcessing(ctx, job); err != nil {
		return apperrors.ErrDispatchFailed(err)
	}

	r.logger.Info("transcript ready",
		zap.String("meeting_id", meetingID),
		zap.String("transcript_url", payload.CallTranscription.URL))
	return nil
}

// handleRecordingReady stores the recording URL on the meeting
func (r *Reconciler) handleRecordingReady(ctx context.Context, body []byte) error {
	var payload recordingPayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	meetingID := meetingIDFromCID(payload.CallCID)
	if meetingID == "" {
		return apperrors.ErrMissingMeetingID()
	}
	r.audit(ctx, EventRecordingReady, meetingID, body)

	if _, err := r.meetingRepo.SetRecordingURL(ctx, meetingID, payload.CallRecording.URL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMeetingNotFound(meetingID)
		}
		return apperrors.ErrInternal(err)
	}
	return nil
}

// handleMessageNew delegates follow-up chat messages to the responder
func (r *Reconciler) handleMessageNew(ctx context.Context, body []byte) error {
	var payload messagePayload
	if err := decode(body, &payload); err != nil {
		return err
	}
	if payload.ChannelID == "" || payload.User.ID == "" || payload.Message.Text == "" {
		return apperrors.ErrInvalidMessagePayload()
	}
	r.audit(ctx, EventMessageNew, payload.ChannelID, body)

	return r.responder.Respond(ctx, payload.ChannelID, payload.User.ID, payload.Message.Text)
}

// audit records the event best-effort; handling never fails on audit errors
func (r *Reconciler) audit(ctx context.Context, eventType, meetingID string, body []byte) {
	event := &entities.WebhookEvent{
		EventType: eventType,
		Payload:   datatypes.JSON(body),
	}
	if meetingID != "" {
		event.MeetingID = &meetingID
	}
	if err := r.eventRepo.Create(ctx, event); err != nil {
		r.logger.Warn("failed to record webhook event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
