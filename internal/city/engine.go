package city

import (
	"fmt"
	"math/rand"
)

type engineConfig struct {
	wallet       Wallet
	prices       Prices
	houses       Catalog
	specials     Catalog
	seed         int64
	listeners    []Listener
	rules        map[CellType][]Rule
	noRoadAccess bool
}

// Option configures an Engine at construction.
type Option func(*engineConfig)

// WithWallet charges placements to w. Without it placements are free.
func WithWallet(w Wallet) Option {
	return func(c *engineConfig) { c.wallet = w }
}

// WithPrices sets the per-piece costs.
func WithPrices(p Prices) Option {
	return func(c *engineConfig) { c.prices = p }
}

// WithModels sets the weighted model catalogs for houses and specials.
func WithModels(houses, specials Catalog) Option {
	return func(c *engineConfig) {
		c.houses = houses
		c.specials = specials
	}
}

// WithSeed seeds model selection.
func WithSeed(seed int64) Option {
	return func(c *engineConfig) { c.seed = seed }
}

// WithListener subscribes l before any placement happens.
func WithListener(l Listener) Option {
	return func(c *engineConfig) { c.listeners = append(c.listeners, l) }
}

// WithRule adds a placement rule for cells of type t.
func WithRule(t CellType, r Rule) Option {
	return func(c *engineConfig) { c.rules[t] = append(c.rules[t], r) }
}

// WithoutRoadAccess drops the default rule that buildings must touch a road.
func WithoutRoadAccess() Option {
	return func(c *engineConfig) { c.noRoadAccess = true }
}

// Engine wires the grid, ledger, resolver, road drawer and structure placer
// together. It is the only entry point surrounding systems need.
type Engine struct {
	grid       *Grid
	ledger     *Ledger
	resolver   *Resolver
	roads      *RoadDrawer
	structures *StructurePlacer
}

// NewEngine builds an engine over an empty width×height grid.
func NewEngine(width, height int, opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		prices: DefaultPrices,
		seed:   1,
		rules:  make(map[CellType][]Rule),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.wallet == nil {
		cfg.wallet = freeWallet{}
	}

	g, err := NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	l := NewLedger(g)
	if !cfg.noRoadAccess {
		l.AddRule(Structure, NeedsAdjacent(Road))
		l.AddRule(SpecialStructure, NeedsAdjacent(Road))
	}
	for t, rs := range cfg.rules {
		for _, r := range rs {
			l.AddRule(t, r)
		}
	}
	for _, fn := range cfg.listeners {
		l.Subscribe(fn)
	}
	r := NewResolver(g, l)
	rng := rand.New(rand.NewSource(cfg.seed)) // #nosec G404 -- cosmetic model choice

	return &Engine{
		grid:       g,
		ledger:     l,
		resolver:   r,
		roads:      NewRoadDrawer(l, r, cfg.wallet, cfg.prices.Road),
		structures: NewStructurePlacer(l, cfg.wallet, cfg.prices, cfg.houses, cfg.specials, rng),
	}, nil
}

func (e *Engine) Grid() *Grid                  { return e.grid }
func (e *Engine) Ledger() *Ledger              { return e.ledger }
func (e *Engine) Resolver() *Resolver          { return e.resolver }
func (e *Engine) Roads() *RoadDrawer           { return e.roads }
func (e *Engine) Structures() *StructurePlacer { return e.structures }

// Query returns the cell type at p.
func (e *Engine) Query(p Pos) (CellType, error) { return e.grid.Get(p) }

// InBounds reports whether p is on the grid.
func (e *Engine) InBounds(p Pos) bool { return e.grid.InBounds(p) }

// NeighborsOfType lists the edge neighbours of p holding t.
func (e *Engine) NeighborsOfType(p Pos, t CellType) []Pos { return e.grid.AdjacentOfType(p, t) }

// RequestPath plans a road run from start to goal, reusing existing road.
func (e *Engine) RequestPath(start, goal Pos) (Path, error) {
	return FindPath(e.grid, start, goal, PaveOver(Road))
}

// Subscribe registers a listener for placement events.
func (e *Engine) Subscribe(l Listener) { e.ledger.Subscribe(l) }

// Variant returns the current piece for the road at p.
func (e *Engine) Variant(p Pos) (Variant, error) { return ResolveVariant(e.grid, p) }

// PlaceHouse places a house next to a road.
func (e *Engine) PlaceHouse(p Pos) (Record, error) { return e.structures.PlaceHouse(p) }

// PlaceSpecial places a special building next to a road.
func (e *Engine) PlaceSpecial(p Pos) (Record, error) { return e.structures.PlaceSpecial(p) }

// Delete removes the committed placement at p and re-tiles the roads around
// it. The removed type tells the caller which refund applies.
func (e *Engine) Delete(p Pos) (CellType, error) {
	t, err := e.ledger.Delete(p)
	if err != nil {
		return Empty, err
	}
	e.resolver.FixAround(p)
	return t, nil
}

// PlaceCommitted places t at p outside of any drag, re-tiling roads when t is
// a road. Buildings should go through PlaceHouse/PlaceSpecial so they are
// charged and given a model.
func (e *Engine) PlaceCommitted(p Pos, t CellType) (Record, error) {
	rec, err := e.ledger.PlaceCommitted(p, t)
	if err != nil {
		return Record{}, err
	}
	if t == Road {
		e.resolver.FixAround(p)
		rec, _ = e.ledger.Lookup(p)
	}
	return rec, nil
}
