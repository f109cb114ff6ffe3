package city

import (
	"errors"
	"fmt"
)

// RoadDrawer runs the press → hold → release road drag. The run is kept as
// provisional ledger records from the anchor cell to the cursor, replanned
// with A* every time the cursor enters a new cell.
type RoadDrawer struct {
	ledger   *Ledger
	resolver *Resolver
	wallet   Wallet
	price    int

	active  bool
	start   Pos
	path    Path         // last planned path, anchor first
	recheck map[Pos]bool // existing roads touched by the run
	charged int          // money taken for the current run
}

// NewRoadDrawer creates an idle drawer charging price per new road piece.
func NewRoadDrawer(l *Ledger, r *Resolver, w Wallet, price int) *RoadDrawer {
	if w == nil {
		w = freeWallet{}
	}
	return &RoadDrawer{
		ledger:   l,
		resolver: r,
		wallet:   w,
		price:    price,
		recheck:  make(map[Pos]bool),
	}
}

// Active reports whether a drag is open.
func (d *RoadDrawer) Active() bool { return d.active }

// Start returns the anchor cell of the open drag.
func (d *RoadDrawer) Start() Pos { return d.start }

// Charged returns how much the open run has cost so far.
func (d *RoadDrawer) Charged() int { return d.charged }

// Run returns the provisional cells of the open drag in row order.
func (d *RoadDrawer) Run() []Pos {
	recs := d.ledger.Provisional()
	out := make([]Pos, len(recs))
	for i, r := range recs {
		out[i] = r.Pos
	}
	return out
}

// PlaceRoad is the handler for both click and hold: it opens a drag when idle
// and extends the open one otherwise.
func (d *RoadDrawer) PlaceRoad(p Pos) error {
	if !d.active {
		return d.Begin(p)
	}
	return d.Extend(p)
}

// Begin opens a drag anchored at p.
func (d *RoadDrawer) Begin(p Pos) error {
	if d.active {
		return ErrDragInProgress
	}
	if err := d.ledger.Check(p, Road); err != nil {
		return err
	}
	if !d.wallet.CanAfford(d.price) {
		return fmt.Errorf("start road at %s: %w", p, ErrInsufficientFunds)
	}
	if _, err := d.ledger.PlaceProvisional(p, Road); err != nil {
		return err
	}
	d.wallet.Charge(d.price)
	d.active = true
	d.start = p
	d.path = Path{p}
	d.charged = d.price
	clear(d.recheck)
	d.retile()
	return nil
}

// Extend replans the run from the anchor to p. On any error the run is left
// exactly as it was.
func (d *RoadDrawer) Extend(p Pos) error {
	if !d.active {
		return ErrNoDrag
	}
	grid := d.ledger.Grid()
	t, err := grid.Get(p)
	if err != nil {
		return fmt.Errorf("extend road: %w", err)
	}
	if t != Empty {
		return fmt.Errorf("extend road to %s (holds %s): %w", p, t, ErrCellOccupied)
	}
	path, err := FindPath(grid, d.start, p, PaveOver(Road))
	if err != nil {
		return fmt.Errorf("extend road %s -> %s: %w", d.start, p, err)
	}

	pieces := 0
	for _, c := range path {
		if grid.typeAt(c) == Empty || d.ledger.IsProvisional(c) {
			pieces++
		}
	}
	delta := pieces*d.price - d.charged
	if delta > 0 && !d.wallet.CanAfford(delta) {
		return fmt.Errorf("extend road to %s: %w", p, ErrInsufficientFunds)
	}

	prev := d.path
	if err := d.lay(path); err != nil {
		// Restore the previous run; it was valid on this same grid a moment ago.
		if rerr := d.lay(prev); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	if delta > 0 {
		d.wallet.Charge(delta)
	} else if delta < 0 {
		d.wallet.Refund(-delta)
	}
	d.charged += delta
	return nil
}

// lay replaces the provisional run with the cells of path.
func (d *RoadDrawer) lay(path Path) error {
	d.revert()
	grid := d.ledger.Grid()
	for _, c := range path {
		if grid.typeAt(c) != Empty {
			d.recheck[c] = true
			continue
		}
		if _, err := d.ledger.PlaceProvisional(c, Road); err != nil {
			d.revert()
			return fmt.Errorf("lay road at %s: %w", c, err)
		}
	}
	d.path = path
	d.retile()
	return nil
}

// revert rolls the provisional run back and re-tiles every road it touched.
func (d *RoadDrawer) revert() {
	seeds := d.ledger.RollbackProvisional()
	for p := range d.recheck {
		seeds = append(seeds, p)
	}
	clear(d.recheck)
	d.resolver.FixAround(seeds...)
}

// retile resolves the run and every existing road bordering it.
func (d *RoadDrawer) retile() {
	grid := d.ledger.Grid()
	run := d.Run()
	for _, p := range run {
		for _, n := range grid.AdjacentOfType(p, Road) {
			if !d.ledger.IsProvisional(n) {
				d.recheck[n] = true
			}
		}
	}
	seeds := run
	for p := range d.recheck {
		seeds = append(seeds, p)
	}
	d.resolver.FixAround(seeds...)
}

// Finish commits the run and closes the drag. Returns the committed cells.
func (d *RoadDrawer) Finish() []Pos {
	if !d.active {
		return nil
	}
	moved := d.ledger.CommitProvisional()
	d.reset()
	return moved
}

// Cancel abandons the run, refunding what it cost. Safe to call when idle.
func (d *RoadDrawer) Cancel() {
	if !d.active {
		return
	}
	d.revert()
	if d.charged > 0 {
		d.wallet.Refund(d.charged)
	}
	d.reset()
}

func (d *RoadDrawer) reset() {
	d.active = false
	d.start = Pos{}
	d.path = nil
	d.charged = 0
	clear(d.recheck)
}
