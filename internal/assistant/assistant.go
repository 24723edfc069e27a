package assistant

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one transcript entry in chat-completions message shape.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Assistant interface {
	// OpeningMessage generates the first message sent to the client.
	OpeningMessage(ctx context.Context) (string, error)
	// Reply generates the next assistant turn from the full transcript.
	Reply(ctx context.Context, transcript []Turn) (string, error)
	// DetectSchedulingIntent reports whether the message asks to set up a
	// meeting.
	DetectSchedulingIntent(ctx context.Context, message string) (bool, error)
}
