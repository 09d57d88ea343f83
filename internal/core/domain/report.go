package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelNotFound is recorded when a tracked name is absent from the guild
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNotTextBased is recorded when a tracked channel has no message history
	ErrNotTextBased = errors.New("channel is not text based")

	// ErrOutputChannelNotFound is recorded when a destination cannot be published to
	ErrOutputChannelNotFound = errors.New("output channel not found")
)

// Granularity selects the bucket size of a chart
type Granularity string

const (
	Daily  Granularity = "daily"
	Weekly Granularity = "weekly"
)

// Title returns the caption suffix of the granularity
func (g Granularity) Title() string {
	switch g {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	}
	return string(g)
}

// ChartSpec describes a chart to render. It is consumed once.
type ChartSpec struct {
	Caption     string
	Counter     Counter
	Granularity Granularity
	Path        string
}

// Point is one plotted bucket
type Point struct {
	Date  Date
	Count int
}

// ChartLayout is everything needed to draw a chart, computed from a counter
type ChartLayout struct {
	Caption     string
	WindowStart Date
	XMin        Date
	XMax        Date
	YMax        int
	LabelCount  int
	Points      []Point
}

// ImageSet holds the charts rendered for one channel
type ImageSet struct {
	Name      string
	Channel   Channel
	Daily     string
	Weekly    string
	DailyErr  error
	WeeklyErr error
}

// Paths returns the chart files in publication order (daily, weekly)
func (s ImageSet) Paths() []string {
	return []string{s.Daily, s.Weekly}
}

// Skip records a channel that was not reported and why
type Skip struct {
	Name   string
	Reason error
}

func (s Skip) String() string {
	return fmt.Sprintf("#%s: %v", s.Name, s.Reason)
}

// Report is the outcome of one destination run
type Report struct {
	Guild         Guild
	OutputChannel *Channel
	Sets          []ImageSet
	Skipped       []Skip
}

// Publishable reports whether the report has a target and something to send
func (r *Report) Publishable() bool {
	return r.OutputChannel != nil && len(r.Sets) > 0
}
