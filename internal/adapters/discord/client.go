package discord

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// api is the slice of *discordgo.Session the client uses
type api interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Client talks to the Discord REST API. It implements ports.MessageSource,
// ports.ChannelDirectory and ports.Publisher.
type Client struct {
	api api
}

// New creates a client authenticated as a bot
func New(token string) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &Client{api: session}, nil
}

// newWithAPI wraps an existing api (used by tests)
func newWithAPI(a api) *Client {
	return &Client{api: a}
}

// Me returns the name of the authenticated bot
func (c *Client) Me(ctx context.Context) (string, error) {
	u, err := c.api.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return u.Username, nil
}

// Guild retrieves a guild by ID
func (c *Client) Guild(ctx context.Context, guildID string) (domain.Guild, error) {
	g, err := c.api.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.Guild{}, err
	}
	return domain.Guild{ID: g.ID, Name: g.Name}, nil
}

// Channels lists every channel of a guild
func (c *Client) Channels(ctx context.Context, guildID string) ([]domain.Channel, error) {
	raw, err := c.api.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	channels := make([]domain.Channel, 0, len(raw))
	for _, ch := range raw {
		channels = append(channels, domain.Channel{
			ID:   ch.ID,
			Name: ch.Name,
			Kind: kindOf(ch.Type),
		})
	}
	return channels, nil
}

// FetchPage returns up to limit messages older than before, newest first
func (c *Client) FetchPage(ctx context.Context, channelID string, before string, limit int) (domain.Page, error) {
	raw, err := c.api.ChannelMessages(channelID, limit, before, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return domain.Page{}, err
	}

	page := domain.Page{Messages: make([]domain.Message, 0, len(raw))}
	for _, m := range raw {
		page.Messages = append(page.Messages, domain.Message{
			ID:              m.ID,
			Timestamp:       m.Timestamp,
			AttachmentCount: len(m.Attachments),
		})
	}
	return page, nil
}

// Publish uploads files to a channel in one message
func (c *Client) Publish(ctx context.Context, channelID string, content string, files []string) error {
	send := &discordgo.MessageSend{Content: content}

	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		opened = append(opened, f)

		send.Files = append(send.Files, &discordgo.File{
			Name:        filepath.Base(path),
			ContentType: contentType(path),
			Reader:      f,
		})
	}

	if _, err := c.api.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx)); err != nil {
		return err
	}
	return nil
}

func kindOf(t discordgo.ChannelType) domain.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return domain.ChannelText
	case discordgo.ChannelTypeGuildNews:
		return domain.ChannelNews
	case discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return domain.ChannelThread
	case discordgo.ChannelTypeGuildForum:
		return domain.ChannelForum
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return domain.ChannelVoice
	case discordgo.ChannelTypeGuildCategory:
		return domain.ChannelCategory
	}
	return domain.ChannelOther
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".html":
		return "text/html"
	}
	return "application/octet-stream"
}
