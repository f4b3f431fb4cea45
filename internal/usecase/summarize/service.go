package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
	"github.com/tamirazrab/parley/internal/usecase/transcript"
)

// Summarizer turns a speaker-attributed transcript into a summary
type Summarizer interface {
	GenerateSummary(ctx context.Context, transcript string) (string, error)
}

// Archiver keeps a durable copy of the raw transcript artifact
type Archiver interface {
	ArchiveTranscript(ctx context.Context, meetingID string, data []byte) error
}

// JobSource yields processing jobs; it returns queue.ErrNoJob when none is
// available within the pop timeout
type JobSource interface {
	Next(ctx context.Context) (*queue.ProcessingJob, error)
}

// Service consumes processing jobs and completes meetings with a generated
// summary
type Service struct {
	meetingRepo repositories.MeetingRepository
	userRepo    repositories.UserRepository
	agentRepo   repositories.AgentRepository
	fetcher     transcript.Fetcher
	summarizer  Summarizer
	archiver    Archiver
	maxAttempts int
	logger      *zap.Logger
}

// NewService creates a new summarization service. The archiver may be nil
// when object storage is not configured.
func NewService(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	agentRepo repositories.AgentRepository,
	fetcher transcript.Fetcher,
	summarizer Summarizer,
	archiver Archiver,
	maxAttempts int,
	logger *zap.Logger,
) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Service{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		agentRepo:   agentRepo,
		fetcher:     fetcher,
		summarizer:  summarizer,
		archiver:    archiver,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// receiveBackoff paces the loop when the queue itself is failing, so an
// outage does not turn into a hot spin.
const receiveBackoff = time.Second

// Run consumes jobs until the context is cancelled. A failed job is logged
// and dropped; the provider redelivers transcription events, so the queue
// sees the job again on the next delivery.
func (s *Service) Run(ctx context.Context, jobs JobSource) error {
	for {
		job, err := jobs.Next(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrNoJob) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("failed to receive job", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(receiveBackoff):
			}
			continue
		}

		if err := s.Process(ctx, *job); err != nil {
			s.logger.Error("failed to process meeting",
				zap.String("meeting_id", job.MeetingID),
				zap.Error(err))
		}
	}
}

// Process fetches the transcript, archives it, and completes the meeting
// with a generated summary
func (s *Service) Process(ctx context.Context, job queue.ProcessingJob) error {
	data, err := s.fetchWithRetry(ctx, job.TranscriptURL)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript: %w", err)
	}

	if s.archiver != nil {
		if err := s.archiver.ArchiveTranscript(ctx, job.MeetingID, data); err != nil {
			s.logger.Warn("failed to archive transcript",
				zap.String("meeting_id", job.MeetingID),
				zap.Error(err))
		}
	}

	items := transcript.Parse(data)
	names, err := s.speakerNames(ctx, transcript.SpeakerIDs(items))
	if err != nil {
		return fmt.Errorf("failed to resolve speakers: %w", err)
	}

	text := buildTranscriptText(items, names)
	summary, err := s.summarizer.GenerateSummary(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	if err := s.meetingRepo.Complete(ctx, job.MeetingID, summary); err != nil {
		return fmt.Errorf("failed to complete meeting: %w", err)
	}

	s.logger.Info("meeting completed", zap.String("meeting_id", job.MeetingID))
	return nil
}

// fetchWithRetry downloads the artifact, retrying with exponential backoff.
// Provider CDN URLs can lag the event by a few seconds.
func (s *Service) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	operation := func() error {
		var err error
		data, err = s.fetcher.Fetch(ctx, url)
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxAttempts-1))
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

// speakerNames resolves speaker ids to display names across users and agents
func (s *Service) speakerNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []*entities.User
	var agents []*entities.Agent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.userRepo.FindByIDs(gctx, ids)
		if err != nil {
			return err
		}
		users = found
		return nil
	})
	g.Go(func() error {
		found, err := s.agentRepo.FindByIDs(gctx, ids)
		if err != nil {
			return err
		}
		agents = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, u := range users {
		names[u.ID] = u.Name
	}
	for _, a := range agents {
		names[a.ID] = a.Name
	}
	return names, nil
}

// buildTranscriptText renders items as "Name: text" lines. Noise records
// and blank utterances are left out; speakers without a resolved name fall
// back to Unknown.
func buildTranscriptText(items []entities.TranscriptItem, names map[string]string) string {
	var b strings.Builder
	for _, item := range items {
		if item.Type == entities.TranscriptItemNoise {
			continue
		}
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		name, ok := names[item.SpeakerID]
		if !ok {
			name = "Unknown"
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}
