package summarize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
)

type fakeMeetingRepo struct {
	repositories.MeetingRepository

	completedID      string
	completedSummary string
}

func (f *fakeMeetingRepo) Complete(ctx context.Context, id, summary string) error {
	f.completedID = id
	f.completedSummary = summary
	return nil
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
	data     []byte
	failures int
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("not ready yet")
	}
	return f.data, nil
}

type fakeSummarizer struct {
	summary    string
	transcript string
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	f.transcript = transcript
	return f.summary, nil
}

type fakeArchiver struct {
	meetingID string
	data      []byte
	err       error
}

func (f *fakeArchiver) ArchiveTranscript(ctx context.Context, meetingID string, data []byte) error {
	f.meetingID = meetingID
	f.data = data
	return f.err
}

const artifact = `{"speaker_id":"u1","text":"let's ship friday","type":"sentence"}
{"speaker_id":"a1","text":"agreed","type":"sentence"}
{"speaker_id":"u1","text":"[cough]","type":"noise"}`

func TestProcess_CompletesMeeting(t *testing.T) {
	meetings := &fakeMeetingRepo{}
	users := &fakeUserRepo{users: []*entities.User{{ID: "u1", Name: "Alice"}}}
	agents := &fakeAgentRepo{agents: []*entities.Agent{{ID: "a1", Name: "Tutor"}}}
	fetcher := &fakeFetcher{data: []byte(artifact)}
	summarizer := &fakeSummarizer{summary: "Shipping on Friday."}
	archiver := &fakeArchiver{}

	s := NewService(meetings, users, agents, fetcher, summarizer, archiver, 3, zap.NewNop())
	err := s.Process(context.Background(), queue.ProcessingJob{
		MeetingID:     "m1",
		TranscriptURL: "https://cdn.example.com/t.jsonl",
	})

	require.NoError(t, err)
	assert.Equal(t, "m1", meetings.completedID)
	assert.Equal(t, "Shipping on Friday.", meetings.completedSummary)
	assert.Equal(t, "Alice: let's ship friday\nTutor: agreed\n", summarizer.transcript)

	assert.Equal(t, "m1", archiver.meetingID)
	assert.Equal(t, []byte(artifact), archiver.data)
}

func TestProcess_RetriesFetch(t *testing.T) {
	meetings := &fakeMeetingRepo{}
	fetcher := &fakeFetcher{data: []byte(artifact), failures: 2}
	summarizer := &fakeSummarizer{summary: "done"}

	s := NewService(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, fetcher, summarizer, nil, 3, zap.NewNop())
	err := s.Process(context.Background(), queue.ProcessingJob{MeetingID: "m1", TranscriptURL: "u"})

	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls)
	assert.Equal(t, "m1", meetings.completedID)
}

func TestProcess_FetchExhaustsRetries(t *testing.T) {
	meetings := &fakeMeetingRepo{}
	fetcher := &fakeFetcher{data: []byte(artifact), failures: 10}

	s := NewService(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, fetcher, &fakeSummarizer{}, nil, 2, zap.NewNop())
	err := s.Process(context.Background(), queue.ProcessingJob{MeetingID: "m1", TranscriptURL: "u"})

	require.Error(t, err)
	assert.Equal(t, 2, fetcher.calls)
	assert.Empty(t, meetings.completedID)
}

func TestProcess_ArchiveFailureDoesNotBlockSummary(t *testing.T) {
	meetings := &fakeMeetingRepo{}
	fetcher := &fakeFetcher{data: []byte(artifact)}
	archiver := &fakeArchiver{err: errors.New("bucket gone")}

	s := NewService(meetings, &fakeUserRepo{}, &fakeAgentRepo{}, fetcher, &fakeSummarizer{summary: "ok"}, archiver, 1, zap.NewNop())
	err := s.Process(context.Background(), queue.ProcessingJob{MeetingID: "m1", TranscriptURL: "u"})

	require.NoError(t, err)
	assert.Equal(t, "m1", meetings.completedID)
}

type failingJobSource struct {
	calls int
}

func (f *failingJobSource) Next(ctx context.Context) (*queue.ProcessingJob, error) {
	f.calls++
	return nil, errors.New("redis down")
}

func TestRun_PausesWhenQueueIsFailing(t *testing.T) {
	source := &failingJobSource{}
	s := NewService(&fakeMeetingRepo{}, &fakeUserRepo{}, &fakeAgentRepo{}, &fakeFetcher{}, &fakeSummarizer{}, nil, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	err := s.Run(ctx, source)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, source.calls)
}

func TestBuildTranscriptText_UnknownSpeakerFallback(t *testing.T) {
	items := []entities.TranscriptItem{
		{SpeakerID: "ghost", Text: "hello", Type: entities.TranscriptItemSentence},
	}

	assert.Equal(t, "Unknown: hello\n", buildTranscriptText(items, map[string]string{}))
}
