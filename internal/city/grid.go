package city

import (
	"fmt"
	"strings"
)

// CellType identifies what occupies a grid cell.
type CellType uint8

const (
	Empty            CellType = iota // Nothing placed
	Road                             // Road piece, auto-tiled
	Structure                        // House
	SpecialStructure                 // Special building
	cellTypeCount                    // sentinel
)

func (t CellType) String() string {
	switch t {
	case Empty:
		return "empty"
	case Road:
		return "road"
	case Structure:
		return "structure"
	case SpecialStructure:
		return "special"
	default:
		return fmt.Sprintf("celltype(%d)", uint8(t))
	}
}

// ParseCellType accepts the names produced by String.
func ParseCellType(s string) (CellType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty":
		return Empty, nil
	case "road":
		return Road, nil
	case "structure", "house":
		return Structure, nil
	case "special", "specialstructure", "special_structure":
		return SpecialStructure, nil
	}
	return Empty, fmt.Errorf("unknown cell type %q", s)
}

// Pos is a cell coordinate. X runs along the width, Z along the height.
type Pos struct {
	X, Z int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Z)
}

// Add returns p offset by (dx, dz).
func (p Pos) Add(dx, dz int) Pos {
	return Pos{X: p.X + dx, Z: p.Z + dz}
}

// Less orders positions row by row, used for stable snapshots.
func (p Pos) Less(o Pos) bool {
	if p.Z != o.Z {
		return p.Z < o.Z
	}
	return p.X < o.X
}

// Grid is the authoritative per-cell occupancy map.
type Grid struct {
	width  int
	height int
	cells  []CellType // row-major: index = z*width + x
}

// NewGrid creates an all-empty grid. Non-positive dimensions are rejected.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size %dx%d must be positive", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellType, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds returns true if p lies within [0,width)×[0,height).
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.width && p.Z >= 0 && p.Z < g.height
}

func (g *Grid) index(p Pos) int {
	return p.Z*g.width + p.X
}

// Get returns the cell type at p.
func (g *Grid) Get(p Pos) (CellType, error) {
	if !g.InBounds(p) {
		return Empty, outOfBounds(p)
	}
	return g.cells[g.index(p)], nil
}

// Set writes the cell type at p.
func (g *Grid) Set(p Pos, t CellType) error {
	if !g.InBounds(p) {
		return outOfBounds(p)
	}
	if t >= cellTypeCount {
		return fmt.Errorf("set %s: invalid cell type %d", p, uint8(t))
	}
	g.cells[g.index(p)] = t
	return nil
}

// typeAt is the unchecked read used after an InBounds test.
func (g *Grid) typeAt(p Pos) CellType {
	return g.cells[g.index(p)]
}

// Count returns how many cells hold type t.
func (g *Grid) Count(t CellType) int {
	n := 0
	for _, c := range g.cells {
		if c == t {
			n++
		}
	}
	return n
}

// Each visits every cell in row-major order.
func (g *Grid) Each(fn func(p Pos, t CellType)) {
	for i, c := range g.cells {
		fn(Pos{X: i % g.width, Z: i / g.width}, c)
	}
}
