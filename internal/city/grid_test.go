package city

import (
	"errors"
	"testing"
)

func TestNewGrid_AllEmpty(t *testing.T) {
	g, err := NewGrid(6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 6 || g.Height() != 4 {
		t.Fatalf("expected 6x4, got %dx%d", g.Width(), g.Height())
	}
	if n := g.Count(Empty); n != 24 {
		t.Fatalf("expected 24 empty cells, got %d", n)
	}
}

func TestNewGrid_RejectsNonPositive(t *testing.T) {
	for _, sz := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		if _, err := NewGrid(sz[0], sz[1]); err == nil {
			t.Fatalf("NewGrid(%d,%d) should fail", sz[0], sz[1])
		}
	}
}

func TestGrid_SetGet(t *testing.T) {
	g, _ := NewGrid(5, 5)
	p := Pos{X: 3, Z: 1}
	if err := g.Set(p, Road); err != nil {
		t.Fatal(err)
	}
	got, err := g.Get(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != Road {
		t.Fatalf("cell %s = %s, want road", p, got)
	}
	// Row-major layout: (3,1) is index 1*5+3.
	if g.cells[8] != Road {
		t.Fatalf("expected index 8 to hold the road, cells=%v", g.cells)
	}
	if err := g.Set(p, cellTypeCount); err == nil {
		t.Fatal("setting an invalid type should fail")
	}
}

func TestGrid_OutOfBounds(t *testing.T) {
	g, _ := NewGrid(4, 3)
	for _, p := range []Pos{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}, {-5, 10}} {
		if g.InBounds(p) {
			t.Fatalf("%s should be out of bounds", p)
		}
		if _, err := g.Get(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get(%s) err=%v, want ErrOutOfBounds", p, err)
		}
		if err := g.Set(p, Road); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set(%s) err=%v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestGrid_Adjacent4_Order(t *testing.T) {
	g, _ := NewGrid(3, 3)
	got := g.Adjacent4(Pos{X: 1, Z: 1})
	want := []Pos{{0, 1}, {1, 2}, {2, 1}, {1, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbours, got %d", len(want), len(got))
	}
	for i, n := range got {
		if n.Pos != want[i] {
			t.Fatalf("neighbour %d = %s, want %s", i, n.Pos, want[i])
		}
	}
}

func TestGrid_Adjacent4_CornerNoWrap(t *testing.T) {
	g, _ := NewGrid(3, 3)
	got := g.Adjacent4(Pos{X: 0, Z: 0})
	if len(got) != 2 {
		t.Fatalf("corner should have 2 neighbours, got %d", len(got))
	}
	if got[0].Side != SideUp || got[1].Side != SideRight {
		t.Fatalf("unexpected sides %v %v", got[0].Side, got[1].Side)
	}
	if n := g.Adjacent4(Pos{X: 7, Z: 7}); n != nil {
		t.Fatalf("out-of-bounds cell should have no neighbours, got %v", n)
	}
}

func TestGrid_SidesOfType(t *testing.T) {
	g, _ := NewGrid(3, 3)
	_ = g.Set(Pos{X: 0, Z: 1}, Road)
	_ = g.Set(Pos{X: 1, Z: 0}, Road)
	_ = g.Set(Pos{X: 2, Z: 1}, Structure)
	s := g.SidesOfType(Pos{X: 1, Z: 1}, Road)
	if s != SideLeft|SideDown {
		t.Fatalf("sides=%b, want left|down", s)
	}
	if s.Count() != 2 {
		t.Fatalf("count=%d, want 2", s.Count())
	}
	if got := g.AdjacentOfType(Pos{X: 1, Z: 1}, Structure); len(got) != 1 || got[0] != (Pos{X: 2, Z: 1}) {
		t.Fatalf("structure neighbours=%v", got)
	}
}

func TestParseCellType(t *testing.T) {
	for _, ct := range []CellType{Empty, Road, Structure, SpecialStructure} {
		got, err := ParseCellType(ct.String())
		if err != nil || got != ct {
			t.Fatalf("ParseCellType(%q)=%s,%v", ct.String(), got, err)
		}
	}
	if got, err := ParseCellType(" House "); err != nil || got != Structure {
		t.Fatalf("house alias: %s,%v", got, err)
	}
	if _, err := ParseCellType("lake"); err == nil {
		t.Fatal("unknown name should fail")
	}
}

func TestPos_LessRowOrder(t *testing.T) {
	if !(Pos{X: 5, Z: 0}).Less(Pos{X: 0, Z: 1}) {
		t.Fatal("lower row should sort first")
	}
	if !(Pos{X: 1, Z: 2}).Less(Pos{X: 2, Z: 2}) {
		t.Fatal("same row should sort by x")
	}
}
