package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// FetchCall records a single FetchPage invocation
type FetchCall struct {
	ChannelID string
	Before    string
	Limit     int
}

// MockMessageSource serves channel history from memory, newest message first
type MockMessageSource struct {
	mu       sync.Mutex
	history  map[string][]domain.Message
	empties  map[string]int
	failures map[string]error
	calls    []FetchCall
}

// NewMockMessageSource creates an empty message source
func NewMockMessageSource() *MockMessageSource {
	return &MockMessageSource{
		history:  make(map[string][]domain.Message),
		empties:  make(map[string]int),
		failures: make(map[string]error),
	}
}

// SetHistory replaces the history of a channel. Messages must be newest first.
func (m *MockMessageSource) SetHistory(channelID string, messages []domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[channelID] = messages
}

// InjectEmpty makes the next n fetches for the channel return an empty page
func (m *MockMessageSource) InjectEmpty(channelID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.empties[channelID] = n
}

// FailWith makes every fetch for the channel return err
func (m *MockMessageSource) FailWith(channelID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[channelID] = err
}

// Calls returns the recorded fetches
func (m *MockMessageSource) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

func (m *MockMessageSource) FetchPage(ctx context.Context, channelID string, before string, limit int) (domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, FetchCall{ChannelID: channelID, Before: before, Limit: limit})

	if err, ok := m.failures[channelID]; ok {
		return domain.Page{}, err
	}
	if m.empties[channelID] > 0 {
		m.empties[channelID]--
		return domain.Page{}, nil
	}

	messages := m.history[channelID]
	start := 0
	if before != "" {
		start = -1
		for i, msg := range messages {
			if msg.ID == before {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return domain.Page{}, fmt.Errorf("unknown message: %s", before)
		}
	}

	end := start + limit
	if end > len(messages) {
		end = len(messages)
	}
	page := make([]domain.Message, end-start)
	copy(page, messages[start:end])
	return domain.Page{Messages: page}, nil
}

// GenerateHistory builds n messages, newest first, one every step going back
// from newest, each with the given number of attachments.
func GenerateHistory(n int, newest time.Time, step time.Duration, attachments int) []domain.Message {
	messages := make([]domain.Message, n)
	for i := 0; i < n; i++ {
		messages[i] = domain.Message{
			ID:              fmt.Sprintf("m%05d", n-i),
			Timestamp:       newest.Add(-time.Duration(i) * step),
			AttachmentCount: attachments,
		}
	}
	return messages
}

// --- MockChannelDirectory ---

type MockChannelDirectory struct {
	mu        sync.RWMutex
	guilds    map[string]domain.Guild
	channels  map[string][]domain.Channel
	failGuild error
}

func NewMockChannelDirectory() *MockChannelDirectory {
	return &MockChannelDirectory{
		guilds:   make(map[string]domain.Guild),
		channels: make(map[string][]domain.Channel),
	}
}

// AddGuild registers a guild and its channels
func (m *MockChannelDirectory) AddGuild(guild domain.Guild, channels ...domain.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds[guild.ID] = guild
	m.channels[guild.ID] = channels
}

// FailWith makes every lookup return err
func (m *MockChannelDirectory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGuild = err
}

func (m *MockChannelDirectory) Guild(ctx context.Context, guildID string) (domain.Guild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failGuild != nil {
		return domain.Guild{}, m.failGuild
	}
	g, ok := m.guilds[guildID]
	if !ok {
		return domain.Guild{}, fmt.Errorf("guild not found: %s", guildID)
	}
	return g, nil
}

func (m *MockChannelDirectory) Channels(ctx context.Context, guildID string) ([]domain.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failGuild != nil {
		return nil, m.failGuild
	}
	if _, ok := m.guilds[guildID]; !ok {
		return nil, fmt.Errorf("guild not found: %s", guildID)
	}
	return append([]domain.Channel(nil), m.channels[guildID]...), nil
}

// --- MockPublisher ---

// Post records a single Publish call
type Post struct {
	ChannelID string
	Content   string
	Files     []string
}

type MockPublisher struct {
	mu         sync.Mutex
	posts      []Post
	shouldFail bool
	failError  error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// SetShouldFail makes every Publish call return err
func (m *MockPublisher) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockPublisher) Publish(ctx context.Context, channelID string, content string, files []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("mock publish failed")
	}
	m.posts = append(m.posts, Post{ChannelID: channelID, Content: content, Files: append([]string(nil), files...)})
	return nil
}

// Posts returns the recorded posts
func (m *MockPublisher) Posts() []Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Post(nil), m.posts...)
}
