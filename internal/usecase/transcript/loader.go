package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "github.com/tamirazrab/parley/errors"
	"github.com/tamirazrab/parley/internal/domain/entities"
	"github.com/tamirazrab/parley/internal/domain/repositories"
	"github.com/tamirazrab/parley/pkg/avatar"
)

// unknownSpeakerName labels utterances whose speaker id resolves to nobody
const unknownSpeakerName = "Unknown"

// Fetcher retrieves a transcript artifact by URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches artifacts over plain HTTP
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an artifact fetcher
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 60 * time.Second}}
}

// Fetch downloads the artifact body
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("artifact fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Loader produces speaker-attributed transcripts for the dashboard. The
// view degrades gracefully: a missing or unreachable artifact yields an
// empty transcript, never an error page.
type Loader struct {
	meetingRepo repositories.MeetingRepository
	userRepo    repositories.UserRepository
	agentRepo   repositories.AgentRepository
	fetcher     Fetcher
	logger      *zap.Logger
}

// NewLoader creates a new transcript loader
func NewLoader(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	agentRepo repositories.AgentRepository,
	fetcher Fetcher,
	logger *zap.Logger,
) *Loader {
	return &Loader{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		agentRepo:   agentRepo,
		fetcher:     fetcher,
		logger:      logger,
	}
}

// Load returns the speaker-attributed transcript of a meeting owned by the
// given user
func (l *Loader) Load(ctx context.Context, meetingID, userID string) ([]entities.TranscriptEntry, error) {
	meeting, err := l.meetingRepo.FindByIDForUser(ctx, meetingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMeetingNotFound(meetingID)
		}
		return nil, apperrors.ErrInternal(err)
	}

	if meeting.TranscriptURL == nil || *meeting.TranscriptURL == "" {
		return []entities.TranscriptEntry{}, nil
	}

	data, err := l.fetcher.Fetch(ctx, *meeting.TranscriptURL)
	if err != nil {
		l.logger.Warn("failed to fetch transcript artifact",
			zap.String("meeting_id", meetingID),
			zap.Error(err))
		return []entities.TranscriptEntry{}, nil
	}

	items := Parse(data)
	speakers, err := l.resolveSpeakers(ctx, SpeakerIDs(items))
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	entries := make([]entities.TranscriptEntry, 0, len(items))
	for _, item := range items {
		speaker, ok := speakers[item.SpeakerID]
		if !ok {
			speaker = entities.Speaker{
				ID:    item.SpeakerID,
				Name:  unknownSpeakerName,
				Image: avatar.InitialsURL(unknownSpeakerName),
				Kind:  entities.SpeakerKindHuman,
			}
		}
		entries = append(entries, entities.TranscriptEntry{TranscriptItem: item, Speaker: speaker})
	}
	return entries, nil
}

// resolveSpeakers folds matching users and agents into the unified speaker
// shape. Both lookups run concurrently; an id matching neither side is left
// out and the caller applies the unknown fallback.
func (l *Loader) resolveSpeakers(ctx context.Context, ids []string) (map[string]entities.Speaker, error) {
	if len(ids) == 0 {
		return map[string]entities.Speaker{}, nil
	}

	var users []*entities.User
	var agents []*entities.Agent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := l.userRepo.FindByIDs(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to resolve users: %w", err)
		}
		users = found
		return nil
	})
	g.Go(func() error {
		found, err := l.agentRepo.FindByIDs(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to resolve agents: %w", err)
		}
		agents = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	speakers := make(map[string]entities.Speaker, len(users)+len(agents))
	for _, u := range users {
		image := avatar.InitialsURL(u.Name)
		if u.Image != nil && *u.Image != "" {
			image = *u.Image
		}
		speakers[u.ID] = entities.Speaker{
			ID:    u.ID,
			Name:  u.Name,
			Image: image,
			Kind:  entities.SpeakerKindHuman,
		}
	}
	for _, a := range agents {
		speakers[a.ID] = entities.Speaker{
			ID:    a.ID,
			Name:  a.Name,
			Image: avatar.AgentURL(a.Name),
			Kind:  entities.SpeakerKindAgent,
		}
	}
	return speakers, nil
}
