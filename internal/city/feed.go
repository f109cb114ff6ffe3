package city

import (
	"fmt"
	"strings"
)

const feedMaxEntries = 32

// Feed is a ring buffer of the most recent ledger events, the kind of thing a
// status panel shows ("house placed at (3,4)").
type Feed struct {
	entries []Event
	head    int
	count   int
}

// NewFeed creates a feed with a fixed capacity. Non-positive capacity uses
// the default.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = feedMaxEntries
	}
	return &Feed{entries: make([]Event, capacity)}
}

// Listener returns the function to subscribe to a ledger.
func (f *Feed) Listener() Listener {
	return f.Add
}

// Add appends an event, overwriting the oldest when full.
func (f *Feed) Add(e Event) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
}

// Len returns how many events are held.
func (f *Feed) Len() int { return f.count }

// Recent returns events in chronological order (oldest first).
func (f *Feed) Recent() []Event {
	n := len(f.entries)
	result := make([]Event, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + n) % n
		result[i] = f.entries[idx]
	}
	return result
}

// Lines renders the last limit events, newest last.
func (f *Feed) Lines(limit int) []string {
	recent := f.Recent()
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, feedLine(e))
	}
	return lines
}

func feedLine(e Event) string {
	switch e.Kind {
	case EventPlaced:
		return fmt.Sprintf("%4d %s placed at %s", e.Seq, e.Type, e.Pos)
	case EventRemoved:
		return fmt.Sprintf("%4d %s removed at %s", e.Seq, e.Type, e.Pos)
	case EventRunCompleted:
		return fmt.Sprintf("%4d road run of %d finished", e.Seq, len(e.Positions))
	case EventReshaped:
		return fmt.Sprintf("%4d road at %s now %s", e.Seq, e.Pos, strings.ReplaceAll(e.Variant.Shape.String(), "_", " "))
	default:
		return fmt.Sprintf("%4d %s", e.Seq, e)
	}
}
