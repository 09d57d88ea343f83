package domain

import (
	"sort"
	"time"
)

// MessageBatch is the number of messages requested per history page.
// A page shorter than this is the last one.
const MessageBatch = 50

// Message is the slice of a chat message the reports care about
type Message struct {
	ID              string
	Timestamp       time.Time
	AttachmentCount int
}

// Page is one batch of history, newest message first
type Page struct {
	Messages []Message
}

// Len returns the number of messages in the page
func (p Page) Len() int { return len(p.Messages) }

// Oldest returns the ID of the oldest message in the page, or "" when empty
func (p Page) Oldest() string {
	if len(p.Messages) == 0 {
		return ""
	}
	return p.Messages[len(p.Messages)-1].ID
}

// Terminal reports whether the page closes the history for a given batch size
func (p Page) Terminal(batch int) bool {
	return len(p.Messages) < batch
}

// AttachmentEvent is a single attachment observed at a point in time.
// A message with three attachments produces three events.
type AttachmentEvent struct {
	At time.Time
}

// Events expands the page into one event per attachment
func (p Page) Events() []AttachmentEvent {
	var events []AttachmentEvent
	for _, m := range p.Messages {
		for i := 0; i < m.AttachmentCount; i++ {
			events = append(events, AttachmentEvent{At: m.Timestamp})
		}
	}
	return events
}

// Counter maps a bucket key to the number of events that fell into it.
// Buckets with no events are absent.
type Counter map[Date]int

// Inc adds one event to the bucket
func (c Counter) Inc(key Date) {
	c[key]++
}

// Total returns the sum of all buckets
func (c Counter) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the bucket keys in ascending date order
func (c Counter) Keys() []Date {
	keys := make([]Date, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})
	return keys
}

// Earliest returns the oldest bucket key; ok is false for an empty counter
func (c Counter) Earliest() (Date, bool) {
	var earliest Date
	found := false
	for k := range c {
		if !found || k.Before(earliest) {
			earliest = k
			found = true
		}
	}
	return earliest, found
}

// Counters holds the daily and weekly aggregation of one channel
type Counters struct {
	Daily  Counter
	Weekly Counter
}

// NewCounters returns empty daily and weekly counters
func NewCounters() Counters {
	return Counters{
		Daily:  make(Counter),
		Weekly: make(Counter),
	}
}

// Add buckets one event by its local date and by the end of its week
func (c Counters) Add(ev AttachmentEvent, loc *time.Location) {
	day := DateOf(ev.At, loc)
	c.Daily.Inc(day)
	c.Weekly.Inc(day.WeekEnd())
}
