package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
)

// errEmptyPage marks a page that came back empty before the history ended
var errEmptyPage = errors.New("empty page")

// HistorySettings tunes how history is paged and bucketed
type HistorySettings struct {
	// Location decides which calendar day an instant belongs to
	Location *time.Location

	// BatchSize is the number of messages per page
	BatchSize int

	// EmptyPageRetries is how many times an empty page is re-requested
	// before it is taken as the end of history
	EmptyPageRetries int

	// NewBackOff builds the delay policy between empty-page retries
	NewBackOff func() backoff.BackOff
}

// DefaultHistorySettings returns the settings used by the CLI
func DefaultHistorySettings() HistorySettings {
	return HistorySettings{
		Location:         time.Local,
		BatchSize:        domain.MessageBatch,
		EmptyPageRetries: 2,
		NewBackOff:       newEmptyPageBackOff,
	}
}

func newEmptyPageBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.Multiplier = 2
	return bo
}

// HistoryService drains a channel's history into daily and weekly counters
type HistoryService struct {
	source   ports.MessageSource
	settings HistorySettings
	log      zerolog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(source ports.MessageSource, settings HistorySettings, log zerolog.Logger) *HistoryService {
	defaults := DefaultHistorySettings()
	if settings.Location == nil {
		settings.Location = defaults.Location
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = defaults.BatchSize
	}
	if settings.EmptyPageRetries < 0 {
		settings.EmptyPageRetries = 0
	}
	if settings.NewBackOff == nil {
		settings.NewBackOff = defaults.NewBackOff
	}

	return &HistoryService{
		source:   source,
		settings: settings,
		log:      log,
	}
}

// HistoryRequest represents a request to reduce one channel
type HistoryRequest struct {
	ChannelID string

	// OnPage is called once per fetched page, retries included
	OnPage func(page int)
}

// HistoryResponse represents the reduced history of one channel
type HistoryResponse struct {
	Counters domain.Counters
	Pages    int
	Events   int
}

// Reduce pages backwards through the whole channel history
func (s *HistoryService) Reduce(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	resp := &HistoryResponse{Counters: domain.NewCounters()}
	cursor := ""

	for {
		page, err := s.fetch(ctx, req, cursor, resp)
		if err != nil {
			return nil, err
		}

		for _, ev := range page.Events() {
			resp.Counters.Add(ev, s.settings.Location)
			resp.Events++
		}

		if page.Terminal(s.settings.BatchSize) {
			break
		}
		cursor = page.Oldest()
	}

	s.log.Debug().
		Str("channel", req.ChannelID).
		Int("pages", resp.Pages).
		Int("events", resp.Events).
		Msg("history reduced")

	return resp, nil
}

// fetch requests one page, retrying while it comes back empty.
// Transport errors are not retried.
func (s *HistoryService) fetch(ctx context.Context, req HistoryRequest, cursor string, resp *HistoryResponse) (domain.Page, error) {
	op := func() (domain.Page, error) {
		page, err := s.source.FetchPage(ctx, req.ChannelID, cursor, s.settings.BatchSize)
		if req.OnPage != nil {
			req.OnPage(resp.Pages)
		}
		resp.Pages++

		if err != nil {
			return domain.Page{}, backoff.Permanent(fmt.Errorf("failed to get messages for %s: %w", req.ChannelID, err))
		}
		if page.Len() == 0 {
			return page, errEmptyPage
		}
		return page, nil
	}

	// An empty first page means an empty channel; only pages behind a
	// cursor are re-requested.
	tries := 1
	if cursor != "" {
		tries = s.settings.EmptyPageRetries + 1
	}

	page, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(s.settings.NewBackOff()),
		backoff.WithMaxTries(uint(tries)),
	)
	if errors.Is(err, errEmptyPage) {
		if cursor != "" {
			s.log.Warn().
				Str("channel", req.ChannelID).
				Str("before", cursor).
				Int("attempts", tries).
				Msg("repeated empty page, treating history as exhausted")
		}
		return domain.Page{}, nil
	}
	if err != nil {
		return domain.Page{}, err
	}
	return page, nil
}
