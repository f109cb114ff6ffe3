package city

import (
	"fmt"
	"sort"
)

// ResolveVariant picks the connector piece for the road at p from which of its
// four neighbours are roads. It does not touch any state.
func ResolveVariant(g *Grid, p Pos) (Variant, error) {
	t, err := g.Get(p)
	if err != nil {
		return Variant{}, err
	}
	if t != Road {
		return Variant{}, fmt.Errorf("resolve %s (%s): %w", p, t, ErrNotRoad)
	}
	return variantForSides(g.SidesOfType(p, Road)), nil
}

// Resolver re-tiles road cells after the road graph changes and mirrors the
// result onto the ledger's records.
type Resolver struct {
	grid   *Grid
	ledger *Ledger
}

// NewResolver binds a resolver to the grid and ledger it re-tiles.
func NewResolver(g *Grid, l *Ledger) *Resolver {
	return &Resolver{grid: g, ledger: l}
}

// Fix resolves p and applies the result. Asking for a non-road or
// out-of-bounds cell is a caller defect: it panics in citydebug builds.
func (r *Resolver) Fix(p Pos) (Variant, error) {
	v, err := ResolveVariant(r.grid, p)
	if err != nil {
		assertf("road fix: %v", err)
		return Variant{}, err
	}
	r.ledger.SetVariant(p, v)
	return v, nil
}

// FixAround re-tiles the closure of the given cells: each one that is a road,
// plus every road neighbour of each, visited once in row order. Non-road seeds
// are allowed since a removed or reverted cell still changes its neighbours.
func (r *Resolver) FixAround(seeds ...Pos) int {
	touched := make(map[Pos]bool)
	for _, p := range seeds {
		if !r.grid.InBounds(p) {
			continue
		}
		if r.grid.typeAt(p) == Road {
			touched[p] = true
		}
		for _, n := range r.grid.AdjacentOfType(p, Road) {
			touched[n] = true
		}
	}
	order := make([]Pos, 0, len(touched))
	for p := range touched {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Less(order[j]) })
	for _, p := range order {
		_, _ = r.Fix(p)
	}
	return len(order)
}
