package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uzulab/soudanin/internal/assistant"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	replyMaxTokens   = 500
	openingMaxTokens = 300
	intentMaxTokens  = 10

	conversationTemperature = 0.7
	intentTemperature       = 0.1
)

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []assistant.Turn `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature"`
}

// chatResponse is the minimal response shape returned by the Chat Completions endpoint.
type chatResponse struct {
	Choices []struct {
		Index   int            `json:"index"`
		Message assistant.Turn `json:"message"`
	} `json:"choices"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// OpenAIAssistant is a focused OpenAI-compatible client for the three
// completions this system needs: opening message, conversational reply,
// and scheduling-intent classification.
type OpenAIAssistant struct {
	baseURL           string
	apiKey            string
	model             string
	consultationTopic string
	httpClient        *http.Client
}

type Option func(*OpenAIAssistant)

func WithBaseURL(baseURL string) Option {
	return func(a *OpenAIAssistant) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			a.baseURL = trimmed
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(a *OpenAIAssistant) {
		a.httpClient = httpClient
	}
}

func NewOpenAIAssistant(apiKey, model, consultationTopic string, opts ...Option) (assistant.Assistant, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key must not be empty")
	}
	if model == "" {
		return nil, errors.New("openai: model must not be empty")
	}
	a := &OpenAIAssistant{
		baseURL:           defaultBaseURL,
		apiKey:            apiKey,
		model:             model,
		consultationTopic: consultationTopic,
		httpClient:        &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *OpenAIAssistant) systemPrompt() string {
	return fmt.Sprintf("You are a professional consultant on %s. "+
		"Answer the client's questions, provide valuable information, and at a suitable moment "+
		"offer to set up a video call for a more detailed discussion. Do not offer the call too "+
		"early; first make sure the client is genuinely interested. Talk naturally, like a human, "+
		"and avoid phrasing typical of bots.", a.consultationTopic)
}

const intentSystemPrompt = "You are an intent detection system. Determine whether the client wants " +
	"to set up a meeting or a video consultation. Answer strictly with 'yes' or 'no'."

func (a *OpenAIAssistant) OpeningMessage(ctx context.Context) (string, error) {
	prompt := fmt.Sprintf("Write an engaging first message for a potential client interested in %s. "+
		"Do not offer a meeting yet, just spark their interest.", a.consultationTopic)
	return a.chat(ctx, chatRequest{
		Model: a.model,
		Messages: []assistant.Turn{
			{Role: assistant.RoleSystem, Content: a.systemPrompt()},
			{Role: assistant.RoleUser, Content: prompt},
		},
		MaxTokens:   openingMaxTokens,
		Temperature: conversationTemperature,
	})
}

func (a *OpenAIAssistant) Reply(ctx context.Context, transcript []assistant.Turn) (string, error) {
	messages := make([]assistant.Turn, 0, len(transcript)+1)
	messages = append(messages, assistant.Turn{Role: assistant.RoleSystem, Content: a.systemPrompt()})
	messages = append(messages, transcript...)
	return a.chat(ctx, chatRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   replyMaxTokens,
		Temperature: conversationTemperature,
	})
}

func (a *OpenAIAssistant) DetectSchedulingIntent(ctx context.Context, message string) (bool, error) {
	answer, err := a.chat(ctx, chatRequest{
		Model: a.model,
		Messages: []assistant.Turn{
			{Role: assistant.RoleSystem, Content: intentSystemPrompt},
			{Role: assistant.RoleUser, Content: message},
		},
		MaxTokens:   intentMaxTokens,
		Temperature: intentTemperature,
	})
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(answer), "yes"), nil
}

func (a *OpenAIAssistant) chat(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	url := chatURL(a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	raw, err := a.doJSONRequest(req, url)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

func (a *OpenAIAssistant) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
