package city

import (
	"strings"
	"testing"
)

func TestRenderMap(t *testing.T) {
	tc, err := NewTestCity(WithGridSize(3, 2), WithRoad(Pos{0, 0}, Pos{2, 0}), WithHouse(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	got := RenderMap(tc.Engine.Ledger())
	want := "  1 .H.\n  0 ╶─╴\n    012\n"
	if got != want {
		t.Fatalf("map mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderMap_ProvisionalGhost(t *testing.T) {
	tc, _ := NewTestCity(WithGridSize(4, 1))
	if err := tc.HoldRoad(Pos{0, 0}, Pos{2, 0}); err != nil {
		t.Fatal(err)
	}
	if got := RenderMap(tc.Engine.Ledger()); !strings.HasPrefix(got, "  0 ===.\n") {
		t.Fatalf("ghost run should render as '=':\n%s", got)
	}
}

func TestReport_Sections(t *testing.T) {
	tc, err := NewTestCity(
		WithGridSize(6, 4),
		WithBudget(12500, 1),
		WithRoad(Pos{0, 1}, Pos{5, 1}),
		WithHouse(2, 2),
		WithSpecial(4, 0),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := tc.HoldRoad(Pos{0, 3}, Pos{1, 3}); err != nil {
		t.Fatal(err)
	}
	out := tc.Report("smoke", 2)
	for _, want := range []string{
		"--- smoke ---",
		"grid=6x4 roads=8 houses=1 specials=1 provisional=2",
		"balance=$11,940",
		"drag open at (0,3), 2 cells, charged $40",
		"events (2):",
		"placed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestEventLog_FiltersAndNotes(t *testing.T) {
	tc, err := NewTestCity(WithGridSize(5, 5), WithVerbose(true))
	if err != nil {
		t.Fatal(err)
	}
	tc.Log.Annotate("street")
	if err := tc.DragRoad(Pos{0, 2}, Pos{4, 2}); err != nil {
		t.Fatal(err)
	}
	tc.Log.Annotate("")
	if _, err := tc.Engine.PlaceHouse(Pos{2, 3}); err != nil {
		t.Fatal(err)
	}

	if tc.Log.Count(EventReshaped) == 0 {
		t.Fatal("verbose log should keep reshape events")
	}
	run, ok := tc.Log.LastOf(EventRunCompleted)
	if !ok || run.Note != "street" || len(run.Positions) != 5 {
		t.Fatalf("run entry = %+v", run)
	}
	if got := tc.Log.FilterPos(Pos{2, 2}); len(got) == 0 {
		t.Fatal("FilterPos should find the run covering (2,2)")
	}
	house, _ := tc.Log.LastOf(EventPlaced)
	if house.Note != "" || house.Type != Structure {
		t.Fatalf("house entry = %+v", house)
	}
	if !strings.Contains(tc.Log.Format(), "run_completed") {
		t.Fatalf("formatted log:\n%s", tc.Log.Format())
	}

	quiet, _ := NewTestCity(WithGridSize(5, 5))
	_ = quiet.DragRoad(Pos{0, 0}, Pos{3, 0})
	if quiet.Log.Count(EventReshaped) != 0 {
		t.Fatal("quiet log should drop reshape events")
	}
}

func TestFeed_RingBuffer(t *testing.T) {
	f := NewFeed(3)
	for i := 1; i <= 5; i++ {
		f.Add(Event{Seq: i, Kind: EventPlaced, Type: Road, Pos: Pos{i, 0}})
	}
	if f.Len() != 3 {
		t.Fatalf("len=%d, want 3", f.Len())
	}
	recent := f.Recent()
	if recent[0].Seq != 3 || recent[2].Seq != 5 {
		t.Fatalf("recent seqs %d..%d, want 3..5", recent[0].Seq, recent[2].Seq)
	}
	lines := f.Lines(2)
	if len(lines) != 2 || !strings.Contains(lines[1], "road placed at (5,0)") {
		t.Fatalf("lines=%q", lines)
	}
	if NewFeed(0).entries == nil || len(NewFeed(0).entries) != feedMaxEntries {
		t.Fatal("non-positive capacity should use the default")
	}
}

func TestFeed_ReshapeLine(t *testing.T) {
	line := feedLine(Event{Seq: 9, Kind: EventReshaped, Pos: Pos{1, 0}, Variant: variantForSides(SideLeft | SideUp | SideRight)})
	if !strings.Contains(line, "now t junction") {
		t.Fatalf("line=%q", line)
	}
}
