package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tamirazrab/parley/pkg/config"
)

// ChatMessage is one turn of a chat completion conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIClient is a minimal client for OpenAI chat completion calls
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI client using values from the provided config
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.openai.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation to the model and returns the assistant
// content. An empty string with a nil error means the model produced no
// choices; callers decide whether that is an error.
func (o *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := ChatRequest{
		Model:    o.model,
		Messages: messages,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := o.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	return cr.Choices[0].Message.Content, nil
}

// GenerateSummary sends a speaker-attributed transcript to the model and
// returns a markdown summary
func (o *OpenAIClient) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	system := ChatMessage{
		Role: "system",
		Content: "You are an expert summarizer. You write readable, concise, simple content. " +
			"Summarize the meeting transcript into an overview section followed by " +
			"notes with section headers covering the key topics discussed.",
	}
	user := ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Summarize the following transcript:\n\n%s", transcript),
	}

	summary, err := o.Complete(ctx, []ChatMessage{system, user})
	if err != nil {
		return "", err
	}
	if summary == "" {
		return "", fmt.Errorf("empty response from openai")
	}
	return summary, nil
}
