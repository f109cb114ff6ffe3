package city

import (
	"fmt"
	"math/rand"
)

// WeightedModel is one entry of a model catalog.
type WeightedModel struct {
	Name   string
	Weight float64
}

// Catalog is a weighted list of interchangeable models for one building kind.
type Catalog []WeightedModel

// Pick draws a model name with probability proportional to its weight.
// An empty catalog yields "".
func (c Catalog) Pick(rng *rand.Rand) string {
	if len(c) == 0 {
		return ""
	}
	sum := 0.0
	for _, m := range c {
		if m.Weight > 0 {
			sum += m.Weight
		}
	}
	if sum <= 0 {
		return c[0].Name
	}
	v := rng.Float64() * sum
	acc := 0.0
	for _, m := range c {
		if m.Weight <= 0 {
			continue
		}
		if v >= acc && v < acc+m.Weight {
			return m.Name
		}
		acc += m.Weight
	}
	return c[0].Name
}

// StructurePlacer places houses and special buildings. The road access rule
// is enforced by the ledger rules registered for their cell types.
type StructurePlacer struct {
	ledger   *Ledger
	wallet   Wallet
	prices   Prices
	houses   Catalog
	specials Catalog
	rng      *rand.Rand
}

// NewStructurePlacer creates a placer drawing models with rng.
func NewStructurePlacer(l *Ledger, w Wallet, prices Prices, houses, specials Catalog, rng *rand.Rand) *StructurePlacer {
	if w == nil {
		w = freeWallet{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- model choice is cosmetic
	}
	return &StructurePlacer{
		ledger:   l,
		wallet:   w,
		prices:   prices,
		houses:   houses,
		specials: specials,
		rng:      rng,
	}
}

// PlaceHouse places a Structure at p.
func (sp *StructurePlacer) PlaceHouse(p Pos) (Record, error) {
	return sp.place(p, Structure, sp.prices.House, sp.houses)
}

// PlaceSpecial places a SpecialStructure at p.
func (sp *StructurePlacer) PlaceSpecial(p Pos) (Record, error) {
	return sp.place(p, SpecialStructure, sp.prices.Special, sp.specials)
}

func (sp *StructurePlacer) place(p Pos, t CellType, price int, models Catalog) (Record, error) {
	if err := sp.ledger.Check(p, t); err != nil {
		return Record{}, err
	}
	if !sp.wallet.CanAfford(price) {
		return Record{}, fmt.Errorf("place %s at %s: %w", t, p, ErrInsufficientFunds)
	}
	model := models.Pick(sp.rng)
	if model == "" {
		model = t.String()
	}
	rec, err := sp.ledger.PlaceCommittedAs(p, t, model)
	if err != nil {
		return Record{}, err
	}
	sp.wallet.Charge(price)
	return rec, nil
}
