package city

import "container/heap"

// Path is an ordered list of cells from start to goal inclusive.
type Path []Pos

// Len is the number of cells; the step cost is Len-1.
func (p Path) Len() int { return len(p) }

// Cost returns the number of unit steps along the path.
func (p Path) Cost() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Contains reports whether q is on the path.
func (p Path) Contains(q Pos) bool {
	for _, c := range p {
		if c == q {
			return true
		}
	}
	return false
}

// Passable decides whether the search may enter a cell of the given type.
type Passable func(CellType) bool

// PaveOver lets the search cross empty cells and cells already of type target,
// so a road run can reuse existing road but never cross a building.
func PaveOver(target CellType) Passable {
	return func(t CellType) bool {
		return t == Empty || t == target
	}
}

// --- A* pathfinding ---

type pathNode struct {
	pos    Pos
	g, h   int
	seq    int // insertion order, breaks f ties first-in first-out
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

func manhattan(a, b Pos) int {
	return intAbs(a.X-b.X) + intAbs(a.Z-b.Z)
}

// FindPath runs A* from start to goal over 4-connected cells with unit step
// cost. The start cell is the anchor of the run and is not tested against
// passable; every other cell on the path, goal included, must pass it.
// Returns ErrNoPath when either end is out of bounds, the goal is blocked, or
// the search space is exhausted.
func FindPath(g *Grid, start, goal Pos, passable Passable) (Path, error) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil, ErrNoPath
	}
	if start == goal {
		return Path{start}, nil
	}
	if passable == nil {
		passable = PaveOver(Empty)
	}
	if !passable(g.typeAt(goal)) {
		return nil, ErrNoPath
	}

	limit := g.width * g.height
	seq := 0
	root := &pathNode{pos: start, h: manhattan(start, goal)}
	ol := &openList{root}
	heap.Init(ol)

	closed := make(map[Pos]bool, limit)
	best := map[Pos]*pathNode{start: root}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.pos == goal {
			return buildPath(cur), nil
		}
		if closed[cur.pos] {
			continue
		}
		closed[cur.pos] = true
		if len(closed) > limit {
			break
		}

		for _, d := range sides {
			np := cur.pos.Add(d.dx, d.dz)
			if !g.InBounds(np) || closed[np] {
				continue
			}
			if !passable(g.typeAt(np)) {
				continue
			}
			ng := cur.g + 1
			if prev, ok := best[np]; ok && ng >= prev.g {
				continue
			}
			seq++
			node := &pathNode{pos: np, g: ng, h: manhattan(np, goal), seq: seq, parent: cur}
			best[np] = node
			heap.Push(ol, node)
		}
	}
	return nil, ErrNoPath
}

func buildPath(end *pathNode) Path {
	var cells Path
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.pos)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
