package city

import (
	"errors"
	"testing"
)

func newTestLedger(t *testing.T, w, h int) *Ledger {
	t.Helper()
	return NewLedger(mustGrid(t, w, h))
}

func TestLedger_PlaceCommitted(t *testing.T) {
	l := newTestLedger(t, 5, 5)
	var events []Event
	l.Subscribe(func(e Event) { events = append(events, e) })

	rec, err := l.PlaceCommitted(Pos{1, 1}, Road)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Provisional || rec.Type != Road || rec.Pos != (Pos{1, 1}) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if got, _ := l.Grid().Get(Pos{1, 1}); got != Road {
		t.Fatalf("grid not written, got %s", got)
	}
	if len(events) != 1 || events[0].Kind != EventPlaced || events[0].Handle != rec.Handle {
		t.Fatalf("expected one placed event carrying the handle, got %v", events)
	}
	if events[0].Seq != 1 {
		t.Fatalf("first event seq=%d, want 1", events[0].Seq)
	}
}

func TestLedger_RejectsOccupiedAndInvalid(t *testing.T) {
	l := newTestLedger(t, 3, 3)
	if _, err := l.PlaceCommitted(Pos{0, 0}, Road); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PlaceCommitted(Pos{0, 0}, Structure); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("err=%v, want ErrCellOccupied", err)
	}
	if _, err := l.PlaceProvisional(Pos{0, 0}, Road); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("provisional on committed: err=%v, want ErrCellOccupied", err)
	}
	if _, err := l.PlaceCommitted(Pos{1, 1}, Empty); err == nil {
		t.Fatal("placing Empty should fail")
	}
	if l.CommittedCount() != 1 {
		t.Fatalf("failed placements must not add records, committed=%d", l.CommittedCount())
	}
}

func TestLedger_OutOfBounds(t *testing.T) {
	l := newTestLedger(t, 3, 3)
	for _, p := range []Pos{{-1, 0}, {3, 0}, {0, 3}, {0, -1}} {
		if _, err := l.PlaceCommitted(p, Road); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("PlaceCommitted(%s) err=%v, want ErrOutOfBounds", p, err)
		}
		if _, err := l.PlaceProvisional(p, Road); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("PlaceProvisional(%s) err=%v, want ErrOutOfBounds", p, err)
		}
		if _, err := l.Delete(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Delete(%s) err=%v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestLedger_RuleRejectsHouseWithoutRoad(t *testing.T) {
	l := newTestLedger(t, 5, 5)
	l.AddRule(Structure, NeedsAdjacent(Road))

	_, err := l.PlaceCommitted(Pos{2, 2}, Structure)
	if !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("err=%v, want a rule rejection", err)
	}
	var re *RuleError
	if !errors.As(err, &re) || re.Pos != (Pos{2, 2}) {
		t.Fatalf("expected RuleError at (2,2), got %v", err)
	}
	if got, _ := l.Grid().Get(Pos{2, 2}); got != Empty {
		t.Fatalf("rejected cell should stay empty, got %s", got)
	}

	if _, err := l.PlaceCommitted(Pos{2, 1}, Road); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PlaceCommitted(Pos{2, 2}, Structure); err != nil {
		t.Fatalf("house beside a road should be accepted: %v", err)
	}
}

func TestLedger_AvoidAdjacentRule(t *testing.T) {
	l := newTestLedger(t, 5, 5)
	l.AddRule(SpecialStructure, AllRules(NeedsAdjacent(Road), AvoidAdjacent(SpecialStructure)))
	_, _ = l.PlaceCommitted(Pos{0, 0}, Road)
	_, _ = l.PlaceCommitted(Pos{1, 0}, Road)
	if _, err := l.PlaceCommitted(Pos{0, 1}, SpecialStructure); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PlaceCommitted(Pos{1, 1}, SpecialStructure); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("special next to special: err=%v, want rejection", err)
	}
}

func TestLedger_ProvisionalCommit(t *testing.T) {
	l := newTestLedger(t, 5, 5)
	var events []Event
	l.Subscribe(func(e Event) { events = append(events, e) })

	for x := 3; x >= 1; x-- {
		if _, err := l.PlaceProvisional(Pos{x, 0}, Road); err != nil {
			t.Fatal(err)
		}
	}
	if len(events) != 0 {
		t.Fatalf("provisional placements should be silent, got %v", events)
	}
	if !l.IsProvisional(Pos{2, 0}) || l.ProvisionalCount() != 3 {
		t.Fatal("expected three provisional records")
	}

	moved := l.CommitProvisional()
	want := []Pos{{1, 0}, {2, 0}, {3, 0}}
	if len(moved) != 3 {
		t.Fatalf("moved=%v", moved)
	}
	for i := range want {
		if moved[i] != want[i] {
			t.Fatalf("moved=%v, want row order %v", moved, want)
		}
	}
	if l.ProvisionalCount() != 0 || l.CommittedCount() != 3 {
		t.Fatalf("after commit: provisional=%d committed=%d", l.ProvisionalCount(), l.CommittedCount())
	}
	if len(events) != 1 || events[0].Kind != EventRunCompleted || len(events[0].Positions) != 3 {
		t.Fatalf("expected one run_completed event, got %v", events)
	}
	if l.CommitProvisional() != nil {
		t.Fatal("second commit should be a no-op")
	}
	if len(events) != 1 {
		t.Fatal("empty commit must not emit")
	}
}

func TestLedger_RollbackIdempotent(t *testing.T) {
	l := newTestLedger(t, 4, 4)
	_, _ = l.PlaceCommitted(Pos{0, 0}, Road)
	_, _ = l.PlaceProvisional(Pos{1, 0}, Road)
	_, _ = l.PlaceProvisional(Pos{2, 0}, Road)

	first := l.RollbackProvisional()
	if len(first) != 2 {
		t.Fatalf("expected 2 reverted cells, got %v", first)
	}
	snap := append([]CellType(nil), l.Grid().cells...)

	if again := l.RollbackProvisional(); again != nil {
		t.Fatalf("second rollback should revert nothing, got %v", again)
	}
	for i, c := range l.Grid().cells {
		if c != snap[i] {
			t.Fatalf("second rollback changed cell %d", i)
		}
	}
	if got, _ := l.Grid().Get(Pos{0, 0}); got != Road {
		t.Fatal("rollback must not touch committed cells")
	}
	checkLedgerConsistent(t, l)
}

func TestLedger_Delete(t *testing.T) {
	l := newTestLedger(t, 4, 4)
	var removed []Event
	l.Subscribe(func(e Event) {
		if e.Kind == EventRemoved {
			removed = append(removed, e)
		}
	})
	rec, _ := l.PlaceCommitted(Pos{1, 1}, Road)

	got, err := l.Delete(Pos{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != Road {
		t.Fatalf("deleted type=%s, want road", got)
	}
	if len(removed) != 1 || removed[0].Handle != rec.Handle {
		t.Fatalf("expected removed event for %s, got %v", rec.Handle, removed)
	}
	if _, err := l.Delete(Pos{1, 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err=%v, want ErrNotFound", err)
	}
	if _, err := l.Delete(Pos{3, 3}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty delete err=%v, want ErrNotFound", err)
	}
}

func TestLedger_DeleteIgnoresProvisional(t *testing.T) {
	l := newTestLedger(t, 4, 4)
	_, _ = l.PlaceProvisional(Pos{2, 2}, Road)
	if _, err := l.Delete(Pos{2, 2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if !l.IsProvisional(Pos{2, 2}) {
		t.Fatal("provisional record should survive")
	}
}

func TestLedger_ListenerPanicDoesNotStopOthers(t *testing.T) {
	l := newTestLedger(t, 3, 3)
	var seen int
	l.Subscribe(func(Event) { panic("boom") })
	l.Subscribe(func(Event) { seen++ })

	if _, err := l.PlaceCommitted(Pos{0, 0}, Road); err != nil {
		t.Fatal(err)
	}
	if seen != 1 {
		t.Fatalf("second listener saw %d events, want 1", seen)
	}
	if got, _ := l.Grid().Get(Pos{0, 0}); got != Road {
		t.Fatal("placement should stand after a listener panic")
	}
}

func TestLedger_ListenerOrder(t *testing.T) {
	l := newTestLedger(t, 3, 3)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		l.Subscribe(func(Event) { order = append(order, i) })
	}
	_, _ = l.PlaceCommitted(Pos{0, 0}, Road)
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("listeners ran in %v, want registration order", order)
	}
}
