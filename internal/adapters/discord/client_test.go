package discord

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

type fakeAPI struct {
	channels []*discordgo.Channel
	messages []*discordgo.Message
	sent     []*discordgo.MessageSend
	bodies   [][]byte
	before   []string
	err      error
}

func (f *fakeAPI) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	return &discordgo.User{ID: "1", Username: "chanplot"}, f.err
}

func (f *fakeAPI) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Guild{ID: guildID, Name: "Art Club"}, nil
}

func (f *fakeAPI) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, f.err
}

func (f *fakeAPI) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.before = append(f.before, beforeID)
	return f.messages, f.err
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, file := range data.Files {
		body, _ := io.ReadAll(file.Reader)
		f.bodies = append(f.bodies, body)
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "out"}, nil
}

func TestNew_EmptyToken(t *testing.T) {
	_, err := New("   ")
	assert.Error(t, err)
}

func TestNew_PrefixesBot(t *testing.T) {
	c, err := New("abc")
	require.NoError(t, err)
	session, ok := c.api.(*discordgo.Session)
	require.True(t, ok)
	assert.Equal(t, "Bot abc", session.Identify.Token)
}

func TestClient_Channels_MapsKinds(t *testing.T) {
	fake := &fakeAPI{channels: []*discordgo.Channel{
		{ID: "1", Name: "fan-art", Type: discordgo.ChannelTypeGuildText},
		{ID: "2", Name: "announcements", Type: discordgo.ChannelTypeGuildNews},
		{ID: "3", Name: "General", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "4", Name: "Text Channels", Type: discordgo.ChannelTypeGuildCategory},
		{ID: "5", Name: "help", Type: discordgo.ChannelTypeGuildForum},
	}}
	c := newWithAPI(fake)

	channels, err := c.Channels(context.Background(), "g")
	require.NoError(t, err)
	require.Len(t, channels, 5)

	assert.Equal(t, domain.ChannelText, channels[0].Kind)
	assert.Equal(t, domain.ChannelNews, channels[1].Kind)
	assert.Equal(t, domain.ChannelVoice, channels[2].Kind)
	assert.Equal(t, domain.ChannelCategory, channels[3].Kind)
	assert.Equal(t, domain.ChannelForum, channels[4].Kind)
	assert.True(t, channels[0].IsTextBased())
	assert.False(t, channels[2].IsTextBased())
}

func TestClient_FetchPage_CountsAttachments(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fake := &fakeAPI{messages: []*discordgo.Message{
		{ID: "9", Timestamp: ts, Attachments: []*discordgo.MessageAttachment{{ID: "a"}, {ID: "b"}}},
		{ID: "8", Timestamp: ts.Add(-time.Hour)},
	}}
	c := newWithAPI(fake)

	page, err := c.FetchPage(context.Background(), "chan", "10", 50)
	require.NoError(t, err)

	assert.Equal(t, []string{"10"}, fake.before)
	require.Equal(t, 2, page.Len())
	assert.Equal(t, 2, page.Messages[0].AttachmentCount)
	assert.Equal(t, 0, page.Messages[1].AttachmentCount)
	assert.Equal(t, "8", page.Oldest())
	assert.True(t, page.Messages[0].Timestamp.Equal(ts))
}

func TestClient_FetchPage_Error(t *testing.T) {
	c := newWithAPI(&fakeAPI{err: errors.New("HTTP 403 Forbidden")})
	_, err := c.FetchPage(context.Background(), "chan", "", 50)
	assert.Error(t, err)
}

func TestClient_Publish_AttachesFiles(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "fan_art_daily.png")
	weekly := filepath.Join(dir, "fan_art_weekly.png")
	require.NoError(t, os.WriteFile(daily, []byte("daily"), 0644))
	require.NoError(t, os.WriteFile(weekly, []byte("weekly"), 0644))

	fake := &fakeAPI{}
	c := newWithAPI(fake)

	require.NoError(t, c.Publish(context.Background(), "out", "Fan Art", []string{daily, weekly}))
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, "Fan Art", msg.Content)
	require.Len(t, msg.Files, 2)
	assert.Equal(t, "fan_art_daily.png", msg.Files[0].Name)
	assert.Equal(t, "image/png", msg.Files[0].ContentType)
	assert.Equal(t, []byte("daily"), fake.bodies[0])
	assert.Equal(t, []byte("weekly"), fake.bodies[1])
}

func TestClient_Publish_MissingFile(t *testing.T) {
	fake := &fakeAPI{}
	c := newWithAPI(fake)

	err := c.Publish(context.Background(), "out", "Fan Art", []string{"/nonexistent/chart.png"})
	assert.Error(t, err)
	assert.Empty(t, fake.sent)
}
