package city

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// roadGlyph maps a road's connected sides to a box-drawing rune. Rows are
// printed with +Z at the top, so SideUp is the upper edge.
var roadGlyph = map[Side]rune{
	0:                                        'o',
	SideLeft:                                 '╴',
	SideRight:                                '╶',
	SideUp:                                   '╵',
	SideDown:                                 '╷',
	SideLeft | SideRight:                     '─',
	SideUp | SideDown:                        '│',
	SideUp | SideRight:                       '└',
	SideRight | SideDown:                     '┌',
	SideDown | SideLeft:                      '┐',
	SideLeft | SideUp:                        '┘',
	SideUp | SideRight | SideDown:            '├',
	SideLeft | SideRight | SideDown:          '┬',
	SideLeft | SideUp | SideDown:             '┤',
	SideLeft | SideUp | SideRight:            '┴',
	SideLeft | SideUp | SideRight | SideDown: '┼',
}

// cellGlyph returns the map character for p.
func cellGlyph(g *Grid, p Pos) rune {
	switch g.typeAt(p) {
	case Road:
		return roadGlyph[g.SidesOfType(p, Road)]
	case Structure:
		return 'H'
	case SpecialStructure:
		return 'S'
	default:
		return '.'
	}
}

// RenderMap draws the grid as text, one row per line, +Z first. Provisional
// roads are drawn as '='.
func RenderMap(l *Ledger) string {
	g := l.Grid()
	var b strings.Builder
	for z := g.height - 1; z >= 0; z-- {
		fmt.Fprintf(&b, "%3d ", z)
		for x := 0; x < g.width; x++ {
			p := Pos{X: x, Z: z}
			if l.IsProvisional(p) {
				b.WriteRune('=')
				continue
			}
			b.WriteRune(cellGlyph(g, p))
		}
		b.WriteByte('\n')
	}
	b.WriteString("    ")
	for x := 0; x < g.width; x++ {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteByte('\n')
	return b.String()
}

// ReportOptions selects the optional sections of Report.
type ReportOptions struct {
	Title      string
	Balance    *int      // wallet balance, if known
	Log        *EventLog // event section source
	LastEvents int       // 0 = all
}

// Report returns a text summary of the engine state: counts, map and events.
func Report(e *Engine, opts ReportOptions) string {
	title := opts.Title
	if title == "" {
		title = "City-Sense report"
	}
	g := e.grid
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", title)
	fmt.Fprintf(&b, "grid=%dx%d roads=%s houses=%s specials=%s provisional=%d\n",
		g.width, g.height,
		humanize.Comma(int64(g.Count(Road))),
		humanize.Comma(int64(g.Count(Structure))),
		humanize.Comma(int64(g.Count(SpecialStructure))),
		e.ledger.ProvisionalCount(),
	)
	if opts.Balance != nil {
		fmt.Fprintf(&b, "balance=$%s\n", humanize.Comma(int64(*opts.Balance)))
	}
	if e.roads.Active() {
		fmt.Fprintf(&b, "drag open at %s, %d cells, charged $%s\n",
			e.roads.Start(), e.ledger.ProvisionalCount(), humanize.Comma(int64(e.roads.Charged())))
	}
	b.WriteByte('\n')
	b.WriteString(RenderMap(e.ledger))

	if opts.Log != nil {
		entries := opts.Log.Entries()
		if opts.LastEvents > 0 && len(entries) > opts.LastEvents {
			entries = entries[len(entries)-opts.LastEvents:]
		}
		fmt.Fprintf(&b, "\nevents (%d):\n", len(entries))
		for _, en := range entries {
			b.WriteString("  ")
			b.WriteString(en.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
