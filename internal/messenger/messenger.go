package messenger

import "context"

// InboundMessage is a direct message received from a user.
type InboundMessage struct {
	UserID    string
	ChannelID string
	Content   string
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	// SendDirectMessage delivers content to the user's DM channel.
	SendDirectMessage(userID, content string) error
	RegisterMessageHandler(handler func(InboundMessage))
	GetBotUserID() (string, error)
	// Run blocks until Close is called.
	Run() error
}
