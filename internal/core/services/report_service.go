package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
)

// ReportService builds the charts of one destination
type ReportService struct {
	directory ports.ChannelDirectory
	history   *HistoryService
	charts    *ChartService
	progress  ports.Progress
	log       zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(directory ports.ChannelDirectory, history *HistoryService, charts *ChartService, progress ports.Progress, log zerolog.Logger) *ReportService {
	return &ReportService{
		directory: directory,
		history:   history,
		charts:    charts,
		progress:  progress,
		log:       log,
	}
}

// ReportRequest represents a request to report on one guild
type ReportRequest struct {
	GuildID           string
	ChannelsToTrack   []string
	OutputChannelName string
	OutputDir         string

	// KeepGoing skips a channel whose history cannot be read instead of
	// aborting the whole report
	KeepGoing bool
}

// Build reduces and charts every tracked channel of a guild.
// A transport error aborts unless KeepGoing is set.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*domain.Report, error) {
	guild, err := s.directory.Guild(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("couldn't get guild %s: %w", req.GuildID, err)
	}
	s.progress.Reporting(guild)

	channels, err := s.directory.Channels(ctx, guild.ID)
	if err != nil {
		return nil, fmt.Errorf("couldn't get channels of %s: %w", guild.Name, err)
	}

	report := &domain.Report{Guild: guild}
	logger := s.log.With().Str("guild", guild.Name).Logger()

	if out, ok := domain.FindChannel(channels, req.OutputChannelName); ok {
		report.OutputChannel = &out
	} else {
		logger.Warn().Str("channel", req.OutputChannelName).Msg("output channel not found")
		report.Skipped = append(report.Skipped, domain.Skip{
			Name:   req.OutputChannelName,
			Reason: domain.ErrOutputChannelNotFound,
		})
	}

	seen := make(map[string]bool)
	for _, name := range req.ChannelsToTrack {
		if seen[name] {
			continue
		}
		seen[name] = true

		channel, ok := domain.FindChannel(channels, name)
		if !ok {
			logger.Warn().Str("channel", name).Msg("tracked channel not found")
			report.Skipped = append(report.Skipped, domain.Skip{Name: name, Reason: domain.ErrChannelNotFound})
			continue
		}
		if !channel.IsTextBased() {
			logger.Warn().Str("channel", name).Str("kind", string(channel.Kind)).Msg("tracked channel is not text based")
			report.Skipped = append(report.Skipped, domain.Skip{Name: name, Reason: domain.ErrNotTextBased})
			continue
		}

		set, err := s.buildChannel(ctx, channel, req.OutputDir)
		if err != nil {
			if !req.KeepGoing {
				s.progress.Done()
				return nil, err
			}
			logger.Error().Err(err).Str("channel", name).Msg("skipping channel")
			report.Skipped = append(report.Skipped, domain.Skip{Name: name, Reason: err})
			continue
		}
		report.Sets = append(report.Sets, set)
	}

	s.progress.Done()
	return report, nil
}

func (s *ReportService) buildChannel(ctx context.Context, channel domain.Channel, dir string) (domain.ImageSet, error) {
	s.progress.Tracking(channel.Name)

	resp, err := s.history.Reduce(ctx, HistoryRequest{
		ChannelID: channel.ID,
		OnPage:    s.progress.Tick,
	})
	if err != nil {
		return domain.ImageSet{}, err
	}

	name := domain.DisplayName(channel.Name)
	if name == "" {
		name = channel.Name
	}

	set := s.charts.RenderSet(ctx, name, resp.Counters, dir)
	set.Channel = channel
	return set, nil
}
