package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
)

// PublishService posts a finished report after one confirmation
type PublishService struct {
	publisher ports.Publisher
	confirmer ports.Confirmer
	log       zerolog.Logger
}

// NewPublishService creates a new publish service
func NewPublishService(publisher ports.Publisher, confirmer ports.Confirmer, log zerolog.Logger) *PublishService {
	return &PublishService{
		publisher: publisher,
		confirmer: confirmer,
		log:       log,
	}
}

// PublishRequest represents a request to post a report
type PublishRequest struct {
	Report *domain.Report

	// AssumeYes skips the confirmation prompt
	AssumeYes bool
}

// PublishResponse represents the outcome of a publication
type PublishResponse struct {
	Confirmed bool
	Posted    int
	Reason    string // set when nothing was asked
}

// Question returns the confirmation prompt for a report
func Question(report *domain.Report) string {
	return fmt.Sprintf("Do you want to post these graphs in #%s?", report.OutputChannel.Name)
}

// Publish asks once for the whole batch, then uploads every image set.
// Any upload failure aborts the remaining uploads.
func (s *PublishService) Publish(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	report := req.Report
	resp := &PublishResponse{}

	if report.OutputChannel == nil {
		resp.Reason = "no output channel"
		return resp, nil
	}
	if len(report.Sets) == 0 {
		resp.Reason = "nothing to post"
		return resp, nil
	}

	confirmed := req.AssumeYes
	if !confirmed {
		ok, err := s.confirmer.Confirm(ctx, Question(report))
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		confirmed = ok
	}
	resp.Confirmed = confirmed
	if !confirmed {
		return resp, nil
	}

	for _, set := range report.Sets {
		files := renderedFiles(set)
		if len(files) == 0 {
			s.log.Warn().Str("name", set.Name).Msg("no charts to post")
			continue
		}

		if err := s.publisher.Publish(ctx, report.OutputChannel.ID, set.Name, files); err != nil {
			return resp, fmt.Errorf("couldn't send message for %s: %w", set.Name, err)
		}
		resp.Posted++
		s.log.Debug().Str("name", set.Name).Str("channel", report.OutputChannel.Name).Msg("charts posted")
	}

	return resp, nil
}

// renderedFiles keeps the daily, weekly order and drops failed charts
func renderedFiles(set domain.ImageSet) []string {
	var files []string
	if set.DailyErr == nil {
		files = append(files, set.Daily)
	}
	if set.WeeklyErr == nil {
		files = append(files, set.Weekly)
	}
	return files
}
