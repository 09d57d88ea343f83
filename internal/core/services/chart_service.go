package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
	"github.com/kamal-hamza/chanplot/internal/core/ports"
)

const (
	// WindowMonths bounds how far back a chart reaches
	WindowMonths = 3

	// EmptyScale is the y range used when nothing is plotted
	EmptyScale = 10

	// Headroom keeps the highest point off the frame
	Headroom = 2

	// MaxLabels caps the number of x axis labels
	MaxLabels = 30
)

// Clock returns the current time
type Clock func() time.Time

// ComputeLayout derives the visible window, axis scale and points of a chart.
// The x range starts at the oldest bucket, clamped to the window; the scale
// and label density follow the whole counter while only in-window buckets
// are plotted. It is a pure function of its inputs.
func ComputeLayout(caption string, counter domain.Counter, today domain.Date) domain.ChartLayout {
	windowStart := today.AddMonths(-WindowMonths)

	var points []domain.Point
	maxCount := 0
	for _, day := range counter.Keys() {
		n := counter[day]
		if n > maxCount {
			maxCount = n
		}
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		points = append(points, domain.Point{Date: day, Count: n})
	}

	layout := domain.ChartLayout{
		Caption:     caption,
		WindowStart: windowStart,
		XMin:        today,
		XMax:        today,
		YMax:        EmptyScale + Headroom,
		LabelCount:  labelCount(len(counter)),
		Points:      points,
	}

	if earliest, ok := counter.Earliest(); ok {
		layout.YMax = maxCount + Headroom
		switch {
		case earliest.Before(windowStart):
			layout.XMin = windowStart
		case earliest.Before(today):
			layout.XMin = earliest
		}
	}

	return layout
}

// labelCount thins labels on dense charts and caps them
func labelCount(buckets int) int {
	target := buckets + 1
	if buckets > 15 {
		target = buckets / 2
	}
	if target > MaxLabels {
		target = MaxLabels
	}
	return target
}

// ChartService renders counters into chart files
type ChartService struct {
	primary    ports.ChartWriter
	companions []ports.ChartWriter
	progress   ports.Progress
	location   *time.Location
	now        Clock
	log        zerolog.Logger
}

// NewChartService creates a chart service. The primary writer produces the
// published file; companions are best effort.
func NewChartService(primary ports.ChartWriter, progress ports.Progress, loc *time.Location, now Clock, log zerolog.Logger, companions ...ports.ChartWriter) *ChartService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ChartService{
		primary:    primary,
		companions: companions,
		progress:   progress,
		location:   loc,
		now:        now,
		log:        log,
	}
}

// Today returns the current date in the chart location
func (s *ChartService) Today() domain.Date {
	return domain.DateOf(s.now(), s.location)
}

// Render writes one chart. Errors are reported to the progress sink and returned.
func (s *ChartService) Render(ctx context.Context, spec domain.ChartSpec) error {
	if err := os.MkdirAll(filepath.Dir(spec.Path), 0755); err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		s.fail(spec, err)
		return err
	}

	layout := ComputeLayout(spec.Caption, spec.Counter, s.Today())

	if err := s.primary.Write(ctx, layout, spec.Path); err != nil {
		s.fail(spec, err)
		return err
	}
	s.progress.Saved(spec.Path)

	for _, w := range s.companions {
		path := strings.TrimSuffix(spec.Path, filepath.Ext(spec.Path)) + w.Ext()
		if err := w.Write(ctx, layout, path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("companion chart failed")
			continue
		}
		s.log.Debug().Str("path", path).Msg("companion chart saved")
	}

	return nil
}

func (s *ChartService) fail(spec domain.ChartSpec, err error) {
	s.progress.Failed(spec.Granularity.Title(), err)
	s.log.Warn().Err(err).Str("caption", spec.Caption).Str("series", string(spec.Granularity)).Msg("chart failed")
}

// RenderSet writes the daily and weekly charts of a channel into dir.
// A daily failure does not stop the weekly chart.
func (s *ChartService) RenderSet(ctx context.Context, name string, counters domain.Counters, dir string) domain.ImageSet {
	set := domain.ImageSet{
		Name:   name,
		Daily:  ChartPath(dir, name, domain.Daily, s.primary.Ext()),
		Weekly: ChartPath(dir, name, domain.Weekly, s.primary.Ext()),
	}

	set.DailyErr = s.Render(ctx, domain.ChartSpec{
		Caption:     name + " " + domain.Daily.Title(),
		Counter:     counters.Daily,
		Granularity: domain.Daily,
		Path:        set.Daily,
	})
	set.WeeklyErr = s.Render(ctx, domain.ChartSpec{
		Caption:     name + " " + domain.Weekly.Title(),
		Counter:     counters.Weekly,
		Granularity: domain.Weekly,
		Path:        set.Weekly,
	})

	return set
}

// ChartPath returns dir/<name>_<granularity><ext>
func ChartPath(dir, name string, g domain.Granularity, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", domain.FileStem(name), g, ext))
}
