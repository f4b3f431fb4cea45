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

// ChannelMessage is one message of a chat channel, oldest-first when
// returned in a slice
type ChannelMessage struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

// ChatClient wraps the chat provider's REST API
type ChatClient interface {
	// RecentMessages returns up to limit most recent channel messages,
	// oldest-first
	RecentMessages(ctx context.Context, channelID string, limit int) ([]ChannelMessage, error)

	// UpsertUser creates or updates a chat identity
	UpsertUser(ctx context.Context, user UpsertUser) error

	// SendMessage posts a message to a channel attributed to the given user
	SendMessage(ctx context.Context, channelID, userID, text string) error

	// UserToken mints a provider token for a dashboard user
	UserToken(userID string) (string, error)
}

// chatClient is the HTTP implementation of ChatClient
type chatClient struct {
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

// NewChatClient creates a chat client from config
func NewChatClient(cfg *config.Config) ChatClient {
	return &chatClient{
		apiKey:    cfg.Stream.APIKey,
		apiSecret: cfg.Stream.APISecret,
		baseURL:   cfg.Stream.ChatURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// RecentMessages queries the channel state for its latest messages
func (c *chatClient) RecentMessages(ctx context.Context, channelID string, limit int) ([]ChannelMessage, error) {
	path := fmt.Sprintf("/channels/messaging/%s/query", url.PathEscape(channelID))
	body := map[string]interface{}{
		"state":    true,
		"messages": map[string]interface{}{"limit": limit},
	}

	var out struct {
		Messages []struct {
			Text string `json:"text"`
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"messages"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}

	messages := make([]ChannelMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, ChannelMessage{Text: m.Text, UserID: m.User.ID})
	}
	return messages, nil
}

// UpsertUser creates or updates a chat identity
func (c *chatClient) UpsertUser(ctx context.Context, user UpsertUser) error {
	body := map[string]interface{}{
		"users": map[string]UpsertUser{user.ID: user},
	}
	return c.do(ctx, http.MethodPost, "/users", body, nil)
}

// SendMessage posts a message to a channel attributed to the given user
func (c *chatClient) SendMessage(ctx context.Context, channelID, userID, text string) error {
	path := fmt.Sprintf("/channels/messaging/%s/message", url.PathEscape(channelID))
	body := map[string]interface{}{
		"message": map[string]interface{}{
			"text":    text,
			"user_id": userID,
		},
	}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// UserToken mints a provider token for a dashboard user
func (c *chatClient) UserToken(userID string) (string, error) {
	return UserToken(c.apiSecret, userID, time.Hour)
}

func (c *chatClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(b))
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
		return fmt.Errorf("chat API %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
