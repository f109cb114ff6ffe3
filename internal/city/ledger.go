package city

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Record is the model handle created for one placement.
type Record struct {
	Pos         Pos
	Type        CellType
	Handle      uuid.UUID
	Model       string
	Variant     Variant // last piece applied, roads only
	Provisional bool
}

// Ledger owns the committed and provisional placement records and is the
// only writer of the grid. A cell is non-empty in the grid exactly when it has
// a record in one of the two sets; the sets never share a position.
type Ledger struct {
	grid        *Grid
	committed   map[Pos]*Record
	provisional map[Pos]*Record
	rules       map[CellType][]Rule
	listeners   listeners
}

// NewLedger creates an empty ledger over g. The grid must be empty.
func NewLedger(g *Grid) *Ledger {
	return &Ledger{
		grid:        g,
		committed:   make(map[Pos]*Record),
		provisional: make(map[Pos]*Record),
		rules:       make(map[CellType][]Rule),
	}
}

// Grid exposes the grid for read-only queries.
func (l *Ledger) Grid() *Grid { return l.grid }

// AddRule attaches a precondition to placements of type t.
func (l *Ledger) AddRule(t CellType, r Rule) {
	if r != nil {
		l.rules[t] = append(l.rules[t], r)
	}
}

// Subscribe registers a listener. Listeners run in registration order.
func (l *Ledger) Subscribe(fn Listener) {
	l.listeners.add(fn)
}

// Check runs the placement preconditions for t at p without mutating anything.
func (l *Ledger) Check(p Pos, t CellType) error {
	if t == Empty || t >= cellTypeCount {
		return fmt.Errorf("place %s at %s: not a placeable type", t, p)
	}
	cur, err := l.grid.Get(p)
	if err != nil {
		return fmt.Errorf("place %s: %w", t, err)
	}
	if cur != Empty {
		return fmt.Errorf("place %s at %s (holds %s): %w", t, p, cur, ErrCellOccupied)
	}
	for _, r := range l.rules[t] {
		if err := r(l.grid, p, t); err != nil {
			return err
		}
	}
	return nil
}

// PlaceCommitted places t at p as a finished placement.
func (l *Ledger) PlaceCommitted(p Pos, t CellType) (Record, error) {
	return l.PlaceCommittedAs(p, t, t.String())
}

// PlaceCommittedAs is PlaceCommitted with an explicit model name. Emits
// EventPlaced on success.
func (l *Ledger) PlaceCommittedAs(p Pos, t CellType, model string) (Record, error) {
	rec, err := l.place(p, t, model, false)
	if err != nil {
		return Record{}, err
	}
	l.listeners.emit(Event{Kind: EventPlaced, Pos: p, Type: t, Handle: rec.Handle, Model: rec.Model})
	return *rec, nil
}

// PlaceProvisional places t at p as part of an open run. No event is emitted
// until the run is committed.
func (l *Ledger) PlaceProvisional(p Pos, t CellType) (Record, error) {
	rec, err := l.place(p, t, t.String(), true)
	if err != nil {
		return Record{}, err
	}
	return *rec, nil
}

func (l *Ledger) place(p Pos, t CellType, model string, provisional bool) (*Record, error) {
	if err := l.Check(p, t); err != nil {
		return nil, err
	}
	if err := l.grid.Set(p, t); err != nil {
		return nil, err
	}
	rec := &Record{
		Pos:         p,
		Type:        t,
		Handle:      uuid.New(),
		Model:       model,
		Provisional: provisional,
	}
	if provisional {
		l.provisional[p] = rec
	} else {
		l.committed[p] = rec
	}
	return rec, nil
}

// CommitProvisional promotes every provisional record at once and returns the
// promoted positions. Emits one EventRunCompleted if anything was promoted.
func (l *Ledger) CommitProvisional() []Pos {
	if len(l.provisional) == 0 {
		return nil
	}
	moved := sortedKeys(l.provisional)
	for _, p := range moved {
		rec := l.provisional[p]
		rec.Provisional = false
		l.committed[p] = rec
	}
	l.provisional = make(map[Pos]*Record)
	l.listeners.emit(Event{Kind: EventRunCompleted, Type: Road, Positions: moved})
	return moved
}

// RollbackProvisional empties every provisional cell and discards the
// records. The reverted positions are returned so their neighbours can be
// re-tiled. Calling it with nothing open is a no-op.
func (l *Ledger) RollbackProvisional() []Pos {
	if len(l.provisional) == 0 {
		return nil
	}
	reverted := sortedKeys(l.provisional)
	for _, p := range reverted {
		l.grid.cells[l.grid.index(p)] = Empty
	}
	l.provisional = make(map[Pos]*Record)
	return reverted
}

// Delete removes the committed placement at p and returns its type so the
// caller can apply the matching refund.
func (l *Ledger) Delete(p Pos) (CellType, error) {
	if !l.grid.InBounds(p) {
		return Empty, fmt.Errorf("delete: %w", outOfBounds(p))
	}
	rec, ok := l.committed[p]
	if !ok {
		return Empty, fmt.Errorf("delete %s: %w", p, ErrNotFound)
	}
	delete(l.committed, p)
	l.grid.cells[l.grid.index(p)] = Empty
	l.listeners.emit(Event{Kind: EventRemoved, Pos: p, Type: rec.Type, Handle: rec.Handle, Model: rec.Model})
	return rec.Type, nil
}

// SetVariant records the piece applied to the road at p and announces it.
// Positions without a record are ignored.
func (l *Ledger) SetVariant(p Pos, v Variant) {
	rec, ok := l.committed[p]
	if !ok {
		rec, ok = l.provisional[p]
	}
	if !ok {
		return
	}
	rec.Variant = v
	l.listeners.emit(Event{Kind: EventReshaped, Pos: p, Type: rec.Type, Handle: rec.Handle, Model: rec.Model, Variant: v})
}

// Lookup returns the record at p from either set.
func (l *Ledger) Lookup(p Pos) (Record, bool) {
	if rec, ok := l.committed[p]; ok {
		return *rec, true
	}
	if rec, ok := l.provisional[p]; ok {
		return *rec, true
	}
	return Record{}, false
}

// IsProvisional reports whether p holds a provisional record.
func (l *Ledger) IsProvisional(p Pos) bool {
	_, ok := l.provisional[p]
	return ok
}

func (l *Ledger) ProvisionalCount() int { return len(l.provisional) }
func (l *Ledger) CommittedCount() int   { return len(l.committed) }

// Committed returns a snapshot of committed records in row order.
func (l *Ledger) Committed() []Record { return snapshot(l.committed) }

// Provisional returns a snapshot of provisional records in row order.
func (l *Ledger) Provisional() []Record { return snapshot(l.provisional) }

func snapshot(m map[Pos]*Record) []Record {
	out := make([]Record, 0, len(m))
	for _, p := range sortedKeys(m) {
		out = append(out, *m[p])
	}
	return out
}

func sortedKeys(m map[Pos]*Record) []Pos {
	keys := make([]Pos, 0, len(m))
	for p := range m {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
