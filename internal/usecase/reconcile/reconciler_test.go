package reconcile

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
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
)

type fakeMeetingRepo struct {
	repositories.MeetingRepository

	meetings map[string]*entities.Meeting

	startOK        bool
	startedIDs     []string
	processingOK   bool
	processingIDs  []string
	transcriptURLs map[string]string
	recordingURLs  map[string]string
}

func (f *fakeMeetingRepo) FindByID(ctx context.Context, id string) (*entities.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeMeetingRepo) Start(ctx context.Context, id string) (bool, error) {
	f.startedIDs = append(f.startedIDs, id)
	return f.startOK, nil
}

func (f *fakeMeetingRepo) MarkProcessing(ctx context.Context, id string) (bool, error) {
	f.processingIDs = append(f.processingIDs, id)
	return f.processingOK, nil
}

func (f *fakeMeetingRepo) SetTranscriptURL(ctx context.Context, id, url string) (*entities.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if f.transcriptURLs == nil {
		f.transcriptURLs = map[string]string{}
	}
	f.transcriptURLs[id] = url
	return m, nil
}

func (f *fakeMeetingRepo) SetRecordingURL(ctx context.Context, id, url string) (*entities.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if f.recordingURLs == nil {
		f.recordingURLs = map[string]string{}
	}
	f.recordingURLs[id] = url
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

type fakeEventRepo struct {
	events []*entities.WebhookEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, event *entities.WebhookEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeVideo struct {
	stream.VideoClient

	members []stream.CallMember

	connectedCallID string
	connectedAgent  string
	instructions    string
	endedCallIDs    []string
}

func (f *fakeVideo) ConnectAgent(ctx context.Context, callID, agentUserID, instructions string) error {
	f.connectedCallID = callID
	f.connectedAgent = agentUserID
	f.instructions = instructions
	return nil
}

func (f *fakeVideo) GetCallMembers(ctx context.Context, callID string) ([]stream.CallMember, error) {
	return f.members, nil
}

func (f *fakeVideo) EndCall(ctx context.Context, callID string) error {
	f.endedCallIDs = append(f.endedCallIDs, callID)
	return nil
}

type fakeDispatcher struct {
	jobs []queue.ProcessingJob
}

func (f *fakeDispatcher) DispatchProcessing(ctx context.Context, job queue.ProcessingJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeResponder struct {
	channelID string
	authorID  string
	text      string
	calls     int
}

func (f *fakeResponder) Respond(ctx context.Context, channelID, authorID, text string) error {
	f.channelID = channelID
	f.authorID = authorID
	f.text = text
	f.calls++
	return nil
}

type fixture struct {
	meetings   *fakeMeetingRepo
	agents     *fakeAgentRepo
	events     *fakeEventRepo
	video      *fakeVideo
	dispatcher *fakeDispatcher
	responder  *fakeResponder
	reconciler *Reconciler
}

func newFixture() *fixture {
	f := &fixture{
		meetings:   &fakeMeetingRepo{meetings: map[string]*entities.Meeting{}},
		agents:     &fakeAgentRepo{agents: map[string]*entities.Agent{}},
		events:     &fakeEventRepo{},
		video:      &fakeVideo{},
		dispatcher: &fakeDispatcher{},
		responder:  &fakeResponder{},
	}
	f.reconciler = NewReconciler(
		f.meetings, f.agents, f.events, f.video, f.dispatcher, f.responder, zap.NewNop(),
	)
	return f
}

func TestHandle_SessionStarted(t *testing.T) {
	f := newFixture()
	f.meetings.startOK = true
	f.meetings.meetings["m1"] = &entities.Meeting{ID: "m1", AgentID: "a1", Status: entities.MeetingStatusActive}
	f.agents.agents["a1"] = &entities.Agent{ID: "a1", Name: "Tutor", Instructions: "Be patient."}

	body := []byte(`{"type":"call.session_started","call":{"custom":{"meetingId":"m1"}}}`)
	eventType, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, EventSessionStarted, eventType)
	assert.Equal(t, []string{"m1"}, f.meetings.startedIDs)
	assert.Equal(t, "m1", f.video.connectedCallID)
	assert.Equal(t, "a1", f.video.connectedAgent)
	assert.Equal(t, "Be patient.", f.video.instructions)
}

func TestHandle_SessionStarted_MissingMeetingID(t *testing.T) {
	f := newFixture()

	body := []byte(`{"type":"call.session_started","call":{"custom":{}}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_WEBHOOK_MISSING_MEETING, appErr.Code)
}

func TestHandle_SessionStarted_GuardRejected(t *testing.T) {
	f := newFixture()
	f.meetings.startOK = false

	body := []byte(`{"type":"call.session_started","call":{"custom":{"meetingId":"m1"}}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
	assert.Empty(t, f.video.connectedCallID)
}

func TestHandle_SessionEnded_ActiveMeeting(t *testing.T) {
	f := newFixture()
	f.meetings.processingOK = true

	body := []byte(`{"type":"call.session_ended","call":{"custom":{"meetingId":"m1"}}}`)
	_, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"m1"}, f.meetings.processingIDs)
}

func TestHandle_SessionEnded_NonActiveMeetingIsAcknowledged(t *testing.T) {
	f := newFixture()
	f.meetings.processingOK = false

	body := []byte(`{"type":"call.session_ended","call":{"custom":{"meetingId":"m1"}}}`)
	_, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, handled)
}

func TestHandle_ParticipantLeft_EndsEmptyCall(t *testing.T) {
	f := newFixture()
	f.video.members = []stream.CallMember{
		{UserID: "u1", Role: "left"},
		{UserID: "a1", Role: "removed"},
	}

	body := []byte(`{"type":"call.session_participant_left","call_cid":"default:m1"}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, f.video.endedCallIDs)
}

func TestHandle_ParticipantLeft_KeepsCallWithRemainingMembers(t *testing.T) {
	f := newFixture()
	f.video.members = []stream.CallMember{
		{UserID: "u1", Role: "user"},
		{UserID: "u2", Role: "left"},
	}

	body := []byte(`{"type":"call.session_participant_left","call_cid":"default:m1"}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.Empty(t, f.video.endedCallIDs)
}

func TestHandle_TranscriptionReady(t *testing.T) {
	f := newFixture()
	f.meetings.meetings["m1"] = &entities.Meeting{ID: "m1", Status: entities.MeetingStatusProcessing}

	body := []byte(`{"type":"call.transcription_ready","call_cid":"default:m1","call_transcription":{"url":"https://cdn.example.com/t.jsonl"}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/t.jsonl", f.meetings.transcriptURLs["m1"])
	require.Len(t, f.dispatcher.jobs, 1)
	assert.Equal(t, queue.ProcessingJob{
		MeetingID:     "m1",
		TranscriptURL: "https://cdn.example.com/t.jsonl",
	}, f.dispatcher.jobs[0])
}

func TestHandle_TranscriptionReady_UnknownMeeting(t *testing.T) {
	f := newFixture()

	body := []byte(`{"type":"call.transcription_ready","call_cid":"default:m1","call_transcription":{"url":"https://cdn.example.com/t.jsonl"}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
	assert.Empty(t, f.dispatcher.jobs)
}

func TestHandle_RecordingReady(t *testing.T) {
	f := newFixture()
	f.meetings.meetings["m1"] = &entities.Meeting{ID: "m1", Status: entities.MeetingStatusProcessing}

	body := []byte(`{"type":"call.recording_ready","call_cid":"default:m1","call_recording":{"url":"https://cdn.example.com/r.mp4"}}`)
	_, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "https://cdn.example.com/r.mp4", f.meetings.recordingURLs["m1"])
}

func TestHandle_RecordingReady_UnknownMeeting(t *testing.T) {
	f := newFixture()

	body := []byte(`{"type":"call.recording_ready","call_cid":"default:m1","call_recording":{"url":"https://cdn.example.com/r.mp4"}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}

func TestHandle_MessageNew_DelegatesToResponder(t *testing.T) {
	f := newFixture()

	body := []byte(`{"type":"message.new","channel_id":"m1","user":{"id":"u1"},"message":{"text":"what did we decide?"}}`)
	_, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, f.responder.calls)
	assert.Equal(t, "m1", f.responder.channelID)
	assert.Equal(t, "u1", f.responder.authorID)
	assert.Equal(t, "what did we decide?", f.responder.text)
}

func TestHandle_UnknownEventIsIgnored(t *testing.T) {
	f := newFixture()

	body := []byte(`{"type":"call.ring"}`)
	eventType, handled, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "call.ring", eventType)
}

func TestHandle_RecordsAuditRow(t *testing.T) {
	f := newFixture()
	f.meetings.processingOK = true

	body := []byte(`{"type":"call.session_ended","call":{"custom":{"meetingId":"m1"}}}`)
	_, _, err := f.reconciler.Handle(context.Background(), body)

	require.NoError(t, err)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventSessionEnded, f.events.events[0].EventType)
	require.NotNil(t, f.events.events[0].MeetingID)
	assert.Equal(t, "m1", *f.events.events[0].MeetingID)
}

func TestMeetingIDFromCID(t *testing.T) {
	assert.Equal(t, "m1", meetingIDFromCID("default:m1"))
	assert.Equal(t, "", meetingIDFromCID("malformed"))
	assert.Equal(t, "", meetingIDFromCID(""))
}
