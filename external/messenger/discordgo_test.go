package messenger

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestSendDirectMessage_CachesDMChannel(t *testing.T) {
	var channelCreates, messageSends int
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/users/@me/channels"):
			channelCreates++
			return jsonResponse(`{"id":"dm-1"}`), nil
		case strings.HasSuffix(req.URL.Path, "/channels/dm-1/messages"):
			messageSends++
			return jsonResponse(`{"id":"msg-1"}`), nil
		default:
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
			return nil, nil
		}
	})

	c := &Client{session: s, dmChannels: make(map[string]string)}
	if err := c.SendDirectMessage("user-1", "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SendDirectMessage("user-1", "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channelCreates != 1 {
		t.Fatalf("expected one DM channel creation, got %d", channelCreates)
	}
	if messageSends != 2 {
		t.Fatalf("expected two message sends, got %d", messageSends)
	}
}

func TestGetBotUserID_UsesStateCacheFirst(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	s.State.User = &discordgo.User{ID: "bot-self"}

	c := &Client{session: s}
	got, err := c.GetBotUserID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bot-self" {
		t.Fatalf("expected bot-self, got %q", got)
	}
}

func TestGetBotUserID_NotConnected(t *testing.T) {
	c := &Client{}
	if _, err := c.GetBotUserID(); err == nil {
		t.Fatal("expected error when session is not connected")
	}
}

func TestRunBlocksUntilClose(t *testing.T) {
	c := NewClient("test-token").(*Client)
	done := make(chan error, 1)
	go func() {
		done <- c.Run()
	}()

	select {
	case <-done:
		t.Fatal("Run returned before Close")
	default:
	}

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
}
