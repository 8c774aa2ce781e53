// Package conn evaluates the electrical state of a routed board: given
// occupancy, drilled holes and jumpers, it decides whether every required
// net is fully connected and whether any two distinct nets are shorted.
package conn

import "github.com/chazu/veroplace/pkg/board"

// Verdict is the outcome of one connectivity evaluation.
type Verdict struct {
	// Connected is true when every net's terminal holes lie in a single
	// electrical component.
	Connected bool
	// Short is true when holes of two distinct nets share a component.
	Short bool
}

// Accepted reports whether the board state satisfies the netlist.
func (v Verdict) Accepted() bool {
	return v.Connected && !v.Short
}

// Evaluator computes verdicts with a pooled union-find, so the search
// engine can call it once per candidate state without allocating.
// An Evaluator is owned by a single search and is not safe for
// concurrent use.
type Evaluator struct {
	parent []int32
	rank   []int8
	netAt  []int32 // net index per component root, -1 for unclaimed
}

// NewEvaluator returns an Evaluator sized lazily on first use.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) reset(n int) {
	if cap(e.parent) < n {
		e.parent = make([]int32, n)
		e.rank = make([]int8, n)
		e.netAt = make([]int32, n)
	}
	e.parent = e.parent[:n]
	e.rank = e.rank[:n]
	e.netAt = e.netAt[:n]
	for i := range e.parent {
		e.parent[i] = int32(i)
		e.rank[i] = 0
		e.netAt[i] = -1
	}
}

func (e *Evaluator) find(i int32) int32 {
	for e.parent[i] != i {
		e.parent[i] = e.parent[e.parent[i]] // path halving
		i = e.parent[i]
	}
	return i
}

func (e *Evaluator) union(a, b int32) {
	ra, rb := e.find(a), e.find(b)
	if ra == rb {
		return
	}
	if e.rank[ra] < e.rank[rb] {
		ra, rb = rb, ra
	}
	e.parent[rb] = ra
	if e.rank[ra] == e.rank[rb] {
		e.rank[ra]++
	}
}

// Evaluate rebuilds the electrical components of b and checks them
// against the required nets. Strip links between two undrilled holes
// conduct; a drilled hole loses its copper pad and is electrically
// isolated from its strip. Jumpers conduct unconditionally.
//
// nets holds, per net, the absolute terminal holes of that net's
// members under the current placement.
func (e *Evaluator) Evaluate(b *board.Board, nets [][]board.Coord, jumpers [][2]board.Coord) Verdict {
	e.reset(b.Holes())

	b.StripLinks(func(a, c board.Coord) {
		if !b.Drilled(a) && !b.Drilled(c) {
			e.union(int32(b.Index(a)), int32(b.Index(c)))
		}
	})
	for _, j := range jumpers {
		e.union(int32(b.Index(j[0])), int32(b.Index(j[1])))
	}

	v := Verdict{Connected: true}
	for ni, holes := range nets {
		var root int32
		for i, h := range holes {
			r := e.find(int32(b.Index(h)))
			if i == 0 {
				root = r
			} else if r != root {
				v.Connected = false
			}
			switch owner := e.netAt[r]; {
			case owner == -1:
				e.netAt[r] = int32(ni)
			case owner != int32(ni):
				v.Short = true
			}
		}
	}
	return v
}
