package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// clearLine erases the current terminal line and returns the cursor
const clearLine = "\x1b[2K\r"

// Spinner is a single-line progress display. The status line is rewritten
// in place; saved and failed charts are printed on their own lines.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	frames  []string
	channel string
	dirty   bool
}

// NewSpinner creates a spinner writing to out (stdout when nil)
func NewSpinner(out io.Writer) *Spinner {
	if out == nil {
		out = os.Stdout
	}
	return &Spinner{
		out:    out,
		frames: spinner.Line.Frames,
	}
}

// Frame returns the wheel frame shown for page n
func (s *Spinner) Frame(n int) string {
	if n < 0 {
		n = -n
	}
	return s.frames[n%len(s.frames)]
}

// Reporting prints the guild header on its own line
func (s *Spinner) Reporting(guild domain.Guild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		fmt.Fprint(s.out, clearLine)
		s.dirty = false
	}
	fmt.Fprintln(s.out, FormatTitle(guild.Name+" : "+guild.ID))
}

// Tracking announces the channel being reduced
func (s *Spinner) Tracking(channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = channel
	s.status(0)
}

// Tick advances the wheel once per fetched page
func (s *Spinner) Tick(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status(page)
}

func (s *Spinner) status(page int) {
	fmt.Fprintf(s.out, "%s  %s %s ",
		clearLine,
		StyleInfo.Render("tracking #"+s.channel),
		StyleAccent.Render(s.Frame(page)),
	)
	s.dirty = true
}

// Saved prints the path of a written chart
func (s *Spinner) Saved(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s  %s\n", clearLine, FormatSuccess("saved to "+path))
	s.dirty = false
}

// Failed prints which series could not be rendered
func (s *Spinner) Failed(series string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s  %s\n", clearLine, FormatError(fmt.Sprintf("Error plotting %s: %v", series, err)))
	s.dirty = false
}

// Done clears a pending status line
func (s *Spinner) Done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		fmt.Fprint(s.out, clearLine)
		s.dirty = false
	}
}
