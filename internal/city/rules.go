package city

// Rule is a placement precondition checked after the bounds and emptiness
// tests. Returning a non-nil error rejects the placement.
type Rule func(g *Grid, p Pos, t CellType) error

// NeedsAdjacent requires at least one edge neighbour of type want.
func NeedsAdjacent(want CellType) Rule {
	name := "needs adjacent " + want.String()
	return func(g *Grid, p Pos, t CellType) error {
		if len(g.AdjacentOfType(p, want)) == 0 {
			return &RuleError{Rule: name, Pos: p, Type: t}
		}
		return nil
	}
}

// AvoidAdjacent rejects a cell bordering any cell of type avoid.
func AvoidAdjacent(avoid CellType) Rule {
	name := "avoid adjacent " + avoid.String()
	return func(g *Grid, p Pos, t CellType) error {
		if len(g.AdjacentOfType(p, avoid)) > 0 {
			return &RuleError{Rule: name, Pos: p, Type: t}
		}
		return nil
	}
}

// AllRules combines rules; the first rejection wins.
func AllRules(rules ...Rule) Rule {
	return func(g *Grid, p Pos, t CellType) error {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(g, p, t); err != nil {
				return err
			}
		}
		return nil
	}
}
