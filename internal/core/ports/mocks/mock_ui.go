package mocks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// --- MockChartWriter ---

type MockChartWriter struct {
	mu       sync.Mutex
	layouts  map[string]domain.ChartLayout
	failOn   map[string]error
	writeOut bool
}

// NewMockChartWriter creates a writer that records layouts. When touch is
// true it also creates an empty file at each path.
func NewMockChartWriter(touch bool) *MockChartWriter {
	return &MockChartWriter{
		layouts:  make(map[string]domain.ChartLayout),
		failOn:   make(map[string]error),
		writeOut: touch,
	}
}

// FailOn makes writes to path return err
func (m *MockChartWriter) FailOn(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[path] = err
}

func (m *MockChartWriter) Write(ctx context.Context, layout domain.ChartLayout, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[path]; ok {
		return err
	}
	m.layouts[path] = layout
	if m.writeOut {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockChartWriter) Ext() string { return ".png" }

// Layout returns the layout written to path
func (m *MockChartWriter) Layout(path string) (domain.ChartLayout, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[path]
	return l, ok
}

// Count returns the number of successful writes
func (m *MockChartWriter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.layouts)
}

// --- MockConfirmer ---

type MockConfirmer struct {
	mu        sync.Mutex
	answer    bool
	err       error
	questions []string
}

func NewMockConfirmer(answer bool) *MockConfirmer {
	return &MockConfirmer{answer: answer}
}

// SetError makes Confirm fail
func (m *MockConfirmer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, question)
	if m.err != nil {
		return false, m.err
	}
	return m.answer, nil
}

// Questions returns every question asked
func (m *MockConfirmer) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.questions...)
}

// --- MockProgress ---

type MockProgress struct {
	mu       sync.Mutex
	Events   []string
	Ticks    int
	Saves    []string
	Failures []string
}

func NewMockProgress() *MockProgress {
	return &MockProgress{}
}

func (m *MockProgress) Reporting(guild domain.Guild) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, "reporting "+guild.Name+" : "+guild.ID)
}

func (m *MockProgress) Tracking(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, "tracking #"+channel)
}

func (m *MockProgress) Tick(page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
}

func (m *MockProgress) Saved(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves = append(m.Saves, path)
	m.Events = append(m.Events, "saved "+path)
}

func (m *MockProgress) Failed(series string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, series)
	m.Events = append(m.Events, fmt.Sprintf("failed %s: %v", series, err))
}

func (m *MockProgress) Done() {}
