package city

import (
	"fmt"
	"strings"
)

// EventLogEntry is one recorded ledger event.
type EventLogEntry struct {
	Event
	Note string // optional caller annotation, e.g. the scripted action
}

// String formats the entry as a fixed-width log line.
//
//	[#004] placed        structure  (2,1)    cottage_a
func (e EventLogEntry) String() string {
	detail := e.Model
	switch e.Kind {
	case EventReshaped:
		detail = e.Variant.String()
	case EventRunCompleted:
		detail = fmt.Sprintf("%d cells", len(e.Positions))
	}
	if e.Note != "" {
		detail += "  // " + e.Note
	}
	return fmt.Sprintf("[#%03d] %-13s %-10s %-8s %s",
		e.Seq, e.Kind, e.Type, e.Pos, detail)
}

// EventLog collects ledger events. Unlike Feed it is unbounded and meant for
// assertions and reports. Reshape events are only kept in verbose mode since
// every road edit produces several.
type EventLog struct {
	entries []EventLogEntry
	verbose bool
	note    string
}

// NewEventLog creates an EventLog.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Listener returns the function to subscribe to a ledger.
func (el *EventLog) Listener() Listener {
	return el.Add
}

// Annotate tags subsequent entries with note until changed.
func (el *EventLog) Annotate(note string) {
	el.note = note
}

// Add records e.
func (el *EventLog) Add(e Event) {
	if e.Kind == EventReshaped && !el.verbose {
		return
	}
	el.entries = append(el.entries, EventLogEntry{Event: e, Note: el.note})
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []EventLogEntry {
	return el.entries
}

// Filter returns entries of the given kind.
func (el *EventLog) Filter(kind EventKind) []EventLogEntry {
	var out []EventLogEntry
	for _, e := range el.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// FilterPos returns entries concerning p, including runs that contain p.
func (el *EventLog) FilterPos(p Pos) []EventLogEntry {
	var out []EventLogEntry
	for _, e := range el.entries {
		if e.Kind == EventRunCompleted {
			for _, q := range e.Positions {
				if q == p {
					out = append(out, e)
					break
				}
			}
			continue
		}
		if e.Pos == p {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries have the given kind.
func (el *EventLog) Count(kind EventKind) int {
	return len(el.Filter(kind))
}

// LastOf returns the most recent entry of kind, or false if none.
func (el *EventLog) LastOf(kind EventKind) (EventLogEntry, bool) {
	entries := el.Filter(kind)
	if len(entries) == 0 {
		return EventLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log as one string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
