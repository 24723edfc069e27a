package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uzulab/soudanin/internal/assistant"
)

func newTestServer(t *testing.T, answer string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": answer}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	}))
}

func newTestAssistant(t *testing.T, baseURL string) *OpenAIAssistant {
	t.Helper()
	a, err := NewOpenAIAssistant("sk-test", "gpt-4o-mini", "tax planning", WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("failed to create assistant: %v", err)
	}
	return a.(*OpenAIAssistant)
}

func TestReply_SendsSystemPromptAndTranscript(t *testing.T) {
	var captured chatRequest
	server := newTestServer(t, "  here is my advice  ", &captured)
	defer server.Close()

	a := newTestAssistant(t, server.URL)
	transcript := []assistant.Turn{
		{Role: assistant.RoleUser, Content: "hello"},
		{Role: assistant.RoleAssistant, Content: "hi"},
		{Role: assistant.RoleUser, Content: "tell me more"},
	}
	got, err := a.Reply(context.Background(), transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "here is my advice" {
		t.Fatalf("expected trimmed answer, got %q", got)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", captured.Model)
	}
	if len(captured.Messages) != len(transcript)+1 {
		t.Fatalf("expected system prompt plus transcript, got %d messages", len(captured.Messages))
	}
	if captured.Messages[0].Role != assistant.RoleSystem {
		t.Fatalf("first message must be the system prompt, got role %s", captured.Messages[0].Role)
	}
	if captured.Messages[len(captured.Messages)-1].Content != "tell me more" {
		t.Fatal("transcript order not preserved")
	}
	if captured.MaxTokens != replyMaxTokens {
		t.Fatalf("unexpected max_tokens: %d", captured.MaxTokens)
	}
}

func TestDetectSchedulingIntent(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{"Yes.", true},
		{"no", false},
		{"I cannot tell", false},
	}
	for _, tc := range cases {
		var captured chatRequest
		server := newTestServer(t, tc.answer, &captured)
		a := newTestAssistant(t, server.URL)
		got, err := a.DetectSchedulingIntent(context.Background(), "can we meet tomorrow?")
		server.Close()
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("answer %q: expected %v, got %v", tc.answer, tc.want, got)
		}
		if captured.Temperature != intentTemperature {
			t.Fatalf("unexpected temperature for intent call: %v", captured.Temperature)
		}
		if captured.MaxTokens != intentMaxTokens {
			t.Fatalf("unexpected max_tokens for intent call: %d", captured.MaxTokens)
		}
	}
}

func TestOpeningMessage_MentionsTopicInPrompt(t *testing.T) {
	var captured chatRequest
	server := newTestServer(t, "welcome!", &captured)
	defer server.Close()

	a := newTestAssistant(t, server.URL)
	got, err := a.OpeningMessage(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "welcome!" {
		t.Fatalf("unexpected opening: %q", got)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(captured.Messages))
	}
}

func TestChat_Non2xxReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	a := newTestAssistant(t, server.URL)
	_, err := a.Reply(context.Background(), []assistant.Turn{{Role: assistant.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	a := newTestAssistant(t, server.URL)
	if _, err := a.Reply(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"https://proxy.example.com", "https://proxy.example.com/v1/chat/completions"},
		{"", "https://api.openai.com/v1/chat/completions"},
	}
	for _, tc := range cases {
		if got := chatURL(tc.base); got != tc.want {
			t.Fatalf("chatURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestNewOpenAIAssistant_Validation(t *testing.T) {
	if _, err := NewOpenAIAssistant("", "gpt-4o-mini", "topic"); err == nil {
		t.Fatal("expected error for empty api key")
	}
	if _, err := NewOpenAIAssistant("sk-test", "", "topic"); err == nil {
		t.Fatal("expected error for empty model")
	}
}
