package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tamirazrab/parley/pkg/config"
)

// CallMember is one roster entry of a call
type CallMember struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpsertUser is the identity shape pushed to the provider
type UpsertUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Image string `json:"image,omitempty"`
}

// CallSettings mirrors the subset of call creation settings we override
type CallSettings struct {
	TranscriptionMode string
	RecordingMode     string
}

// VideoClient wraps the call provider's video REST API
type VideoClient interface {
	// CreateCall provisions a call whose custom data carries the meeting id
	CreateCall(ctx context.Context, callID, createdByID, meetingName string, settings CallSettings) error

	// GetCallMembers returns the current roster of a call
	GetCallMembers(ctx context.Context, callID string) ([]CallMember, error)

	// EndCall ends the call provider-side
	EndCall(ctx context.Context, callID string) error

	// ConnectAgent joins the agent as an AI participant and pushes its
	// instructions into the live session context
	ConnectAgent(ctx context.Context, callID, agentUserID, instructions string) error

	// UpsertUsers creates or updates provider identities
	UpsertUsers(ctx context.Context, users []UpsertUser) error

	// UserToken mints a provider token for a dashboard user
	UserToken(userID string) (string, error)
}

// videoClient is the HTTP implementation of VideoClient
type videoClient struct {
	apiKey       string
	apiSecret    string
	baseURL      string
	openAIAPIKey string
	client       *http.Client
}

// NewVideoClient creates a video client from config
func NewVideoClient(cfg *config.Config) VideoClient {
	return &videoClient{
		apiKey:       cfg.Stream.APIKey,
		apiSecret:    cfg.Stream.APISecret,
		baseURL:      cfg.Stream.VideoURL,
		openAIAPIKey: cfg.OpenAI.APIKey,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateCall provisions a call with transcription and recording auto-on
func (c *videoClient) CreateCall(ctx context.Context, callID, createdByID, meetingName string, settings CallSettings) error {
	transcription := settings.TranscriptionMode
	if transcription == "" {
		transcription = "auto-on"
	}
	recording := settings.RecordingMode
	if recording == "" {
		recording = "auto-on"
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"created_by_id": createdByID,
			"custom": map[string]interface{}{
				"meetingId":   callID,
				"meetingName": meetingName,
			},
			"settings_override": map[string]interface{}{
				"transcription": map[string]interface{}{
					"language":            "en",
					"mode":                transcription,
					"closed_caption_mode": transcription,
				},
				"recording": map[string]interface{}{
					"mode":    recording,
					"quality": "1080p",
				},
			},
		},
	}

	path := fmt.Sprintf("/video/call/default/%s", url.PathEscape(callID))
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// GetCallMembers returns the current roster of a call
func (c *videoClient) GetCallMembers(ctx context.Context, callID string) ([]CallMember, error) {
	path := fmt.Sprintf("/video/call/default/%s", url.PathEscape(callID))

	var out struct {
		Members []CallMember `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// EndCall ends the call provider-side
func (c *videoClient) EndCall(ctx context.Context, callID string) error {
	path := fmt.Sprintf("/video/call/default/%s/mark_ended", url.PathEscape(callID))
	return c.do(ctx, http.MethodPost, path, map[string]interface{}{}, nil)
}

// ConnectAgent joins the agent as an AI participant on the call
func (c *videoClient) ConnectAgent(ctx context.Context, callID, agentUserID, instructions string) error {
	path := fmt.Sprintf("/video/call/default/%s/openai/connect", url.PathEscape(callID))
	body := map[string]interface{}{
		"agent_user_id":  agentUserID,
		"openai_api_key": c.openAIAPIKey,
		"session": map[string]interface{}{
			"instructions": instructions,
		},
	}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// UpsertUsers creates or updates provider identities
func (c *videoClient) UpsertUsers(ctx context.Context, users []UpsertUser) error {
	byID := make(map[string]UpsertUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return c.do(ctx, http.MethodPost, "/users", map[string]interface{}{"users": byID}, nil)
}

// UserToken mints a provider token for a dashboard user
func (c *videoClient) UserToken(userID string) (string, error) {
	return UserToken(c.apiSecret, userID, time.Hour)
}

func (c *videoClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	endpoint := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	token, err := serverToken(c.apiSecret)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("stream-auth-type", "jwt")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("video API %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
