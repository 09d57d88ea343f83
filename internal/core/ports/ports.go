package ports

import (
	"context"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// MessageSource defines the port for reading channel history
type MessageSource interface {
	// FetchPage returns up to limit messages older than before, newest first.
	// An empty before requests the most recent messages.
	FetchPage(ctx context.Context, channelID string, before string, limit int) (domain.Page, error)
}

// ChannelDirectory defines the port for guild and channel lookups
type ChannelDirectory interface {
	// Guild retrieves a guild by ID
	Guild(ctx context.Context, guildID string) (domain.Guild, error)

	// Channels lists every channel of a guild
	Channels(ctx context.Context, guildID string) ([]domain.Channel, error)
}

// Publisher defines the port for posting rendered charts
type Publisher interface {
	// Publish sends files to a channel with content as the message text
	Publish(ctx context.Context, channelID string, content string, files []string) error
}

// ChartWriter defines the port for turning a chart layout into a file
type ChartWriter interface {
	// Write renders the layout to path
	Write(ctx context.Context, layout domain.ChartLayout, path string) error

	// Ext returns the file extension produced, including the dot
	Ext() string
}

// Confirmer defines the port for asking the operator a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Progress receives status updates while a report runs.
// Implementations must not fail; updates are cosmetic.
type Progress interface {
	// Reporting announces the guild whose channels are about to be reduced
	Reporting(guild domain.Guild)

	// Tracking announces the channel being reduced
	Tracking(channel string)

	// Tick is called once per fetched page
	Tick(page int)

	// Saved announces a written chart
	Saved(path string)

	// Failed announces a chart that could not be written
	Failed(series string, err error)

	// Done clears any in-place status line
	Done()
}
