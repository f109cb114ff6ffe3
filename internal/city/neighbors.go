package city

// Side is a bitmask of the four edge-sharing neighbours of a cell.
type Side uint8

const (
	SideLeft  Side = 1 << iota // -X
	SideUp                     // +Z
	SideRight                  // +X
	SideDown                   // -Z
)

// sides lists the 4-connected offsets in the fixed left, up, right, down order.
// Neighbour queries and path expansion both walk this order.
var sides = [4]struct {
	side   Side
	dx, dz int
}{
	{SideLeft, -1, 0},
	{SideUp, 0, 1},
	{SideRight, 1, 0},
	{SideDown, 0, -1},
}

// Count returns the number of sides set.
func (s Side) Count() int {
	n := 0
	for _, d := range sides {
		if s&d.side != 0 {
			n++
		}
	}
	return n
}

// Neighbor pairs an in-bounds adjacent cell with its current type.
type Neighbor struct {
	Pos  Pos
	Side Side
	Type CellType
}

// Adjacent4 returns the in-bounds cells sharing an edge with p. There is no
// wraparound; an out-of-bounds p has no neighbours.
func (g *Grid) Adjacent4(p Pos) []Neighbor {
	if !g.InBounds(p) {
		return nil
	}
	out := make([]Neighbor, 0, 4)
	for _, d := range sides {
		n := p.Add(d.dx, d.dz)
		if !g.InBounds(n) {
			continue
		}
		out = append(out, Neighbor{Pos: n, Side: d.side, Type: g.typeAt(n)})
	}
	return out
}

// AdjacentOfType returns the neighbours of p whose type is t.
func (g *Grid) AdjacentOfType(p Pos, t CellType) []Pos {
	var out []Pos
	for _, n := range g.Adjacent4(p) {
		if n.Type == t {
			out = append(out, n.Pos)
		}
	}
	return out
}

// SidesOfType returns which sides of p border a cell of type t.
func (g *Grid) SidesOfType(p Pos, t CellType) Side {
	var s Side
	for _, n := range g.Adjacent4(p) {
		if n.Type == t {
			s |= n.Side
		}
	}
	return s
}
