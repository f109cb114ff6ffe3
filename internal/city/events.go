package city

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// EventKind names a ledger mutation.
type EventKind uint8

const (
	EventPlaced       EventKind = iota // committed placement
	EventRemoved                       // committed placement deleted
	EventRunCompleted                  // provisional run committed
	EventReshaped                      // road piece re-tiled
)

func (k EventKind) String() string {
	switch k {
	case EventPlaced:
		return "placed"
	case EventRemoved:
		return "removed"
	case EventRunCompleted:
		return "run_completed"
	case EventReshaped:
		return "reshaped"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event is delivered to listeners after a successful mutation.
type Event struct {
	Seq       int
	Kind      EventKind
	Pos       Pos
	Type      CellType
	Handle    uuid.UUID
	Model     string
	Variant   Variant
	Positions []Pos // run_completed only
}

func (e Event) String() string {
	switch e.Kind {
	case EventRunCompleted:
		return fmt.Sprintf("#%d %s cells=%d", e.Seq, e.Kind, len(e.Positions))
	case EventReshaped:
		return fmt.Sprintf("#%d %s %s %s", e.Seq, e.Kind, e.Pos, e.Variant)
	default:
		return fmt.Sprintf("#%d %s %s %s", e.Seq, e.Kind, e.Type, e.Pos)
	}
}

// Listener observes ledger events. It must not mutate the ledger.
type Listener func(Event)

type listeners struct {
	fns []Listener
	seq int
}

func (ls *listeners) add(l Listener) {
	if l != nil {
		ls.fns = append(ls.fns, l)
	}
}

// emit delivers e to every listener in registration order. A panicking
// listener is logged and skipped; the mutation it observed stands.
func (ls *listeners) emit(e Event) {
	ls.seq++
	e.Seq = ls.seq
	for i, fn := range ls.fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("city: listener %d panicked on %s: %v", i, e, r)
				}
			}()
			fn(e)
		}()
	}
}
