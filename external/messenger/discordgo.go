package messenger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	messengerpkg "github.com/uzulab/soudanin/internal/messenger"
)

// Client is the Discord DM transport. The bot converses over direct
// messages only; guild messages are ignored.
type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string

	mu   sync.Mutex
	done chan struct{}

	dmChannelMu sync.Mutex
	dmChannels  map[string]string
}

func NewClient(token string) messengerpkg.Client {
	return &Client{
		token:      token,
		done:       make(chan struct{}),
		dmChannels: make(map[string]string),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.mu.Unlock()
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) SendDirectMessage(userID, content string) error {
	channelID, err := c.dmChannelID(userID)
	if err != nil {
		return fmt.Errorf("resolve dm channel for user %s: %w", userID, err)
	}
	_, err = c.session.ChannelMessageSend(channelID, content)
	return err
}

func (c *Client) dmChannelID(userID string) (string, error) {
	c.dmChannelMu.Lock()
	defer c.dmChannelMu.Unlock()
	if id, ok := c.dmChannels[userID]; ok {
		return id, nil
	}
	ch, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return "", err
	}
	c.dmChannels[userID] = ch.ID
	return ch.ID, nil
}

func (c *Client) RegisterMessageHandler(handler func(messengerpkg.InboundMessage)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Author == nil {
			return
		}
		if m.Author.ID == c.botUserID || m.Author.Bot {
			return
		}
		// A non-empty GuildID means a guild channel, not a DM.
		if m.GuildID != "" {
			return
		}
		slog.Debug("direct message received", "user_id", m.Author.ID, "channel_id", m.ChannelID)
		handler(messengerpkg.InboundMessage{
			UserID:    m.Author.ID,
			ChannelID: m.ChannelID,
			Content:   m.Content,
		})
	})
}

func (c *Client) GetBotUserID() (string, error) {
	if c.session == nil {
		return "", fmt.Errorf("discord session is not connected")
	}
	if c.session.State != nil && c.session.State.User != nil {
		return c.session.State.User.ID, nil
	}
	user, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (c *Client) Run() error {
	<-c.done
	return nil
}
