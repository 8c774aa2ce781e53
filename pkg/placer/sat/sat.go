// Package sat is an alternative placement backend. Instead of the
// depth-first placement scan it encodes the placement phase as a boolean
// formula (one variable per candidate placement, exactly-one per
// instance, at-most-one per hole) and enumerates models with blocking
// clauses; routing still runs through the shared routing phase.
//
// The two backends accept exactly the same solution set, but the model
// enumeration order is solver-internal, so the sequence order may differ
// from the depth-first backend.
package sat

import (
	"iter"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/part"
	"github.com/chazu/veroplace/pkg/placer"
)

// Backend wraps a validated search with a SAT placement front end.
type Backend struct {
	s *placer.Search
}

// New validates p exactly like placer.New.
func New(p placer.Problem) (*Backend, error) {
	s, err := placer.New(p)
	if err != nil {
		return nil, err
	}
	return &Backend{s: s}, nil
}

type candidate struct {
	inst int
	pl   part.Placement
	m    z.Lit
}

// Solutions enumerates placement models and routes each one.
func (b *Backend) Solutions() iter.Seq[placer.Solution] {
	return func(yield func(placer.Solution) bool) {
		p := b.s.Problem()
		g := gini.New()

		var cands []candidate
		perInst := make([][]z.Lit, len(p.Instances))
		holeUsers := make(map[board.Coord][]z.Lit)
		for i := range p.Instances {
			for _, pl := range b.s.Candidates(i) {
				m := g.Lit()
				cands = append(cands, candidate{inst: i, pl: pl, m: m})
				perInst[i] = append(perInst[i], m)
				for _, h := range pl.Holes(p.Instances[i].Type) {
					holeUsers[h] = append(holeUsers[h], m)
				}
			}
		}

		// Exactly one placement per instance.
		for _, ms := range perInst {
			if len(ms) == 0 {
				return // some instance fits nowhere
			}
			for _, m := range ms {
				g.Add(m)
			}
			g.Add(z.LitNull)
			addAtMostOne(g, ms)
		}

		// At most one occupant per hole, in row-major hole order so the
		// formula is reproducible.
		for y := 0; y < p.Board.Height; y++ {
			for x := 0; x < p.Board.Width; x++ {
				addAtMostOne(g, holeUsers[board.Coord{X: x, Y: y}])
			}
		}

		chosen := make([]z.Lit, len(p.Instances))
		placements := make([]part.Placement, len(p.Instances))
		for g.Solve() == 1 {
			for _, c := range cands {
				if g.Value(c.m) {
					chosen[c.inst] = c.m
					placements[c.inst] = c.pl
				}
			}

			yielded := false
			for sol := range b.s.RouteFixed(placements) {
				yielded = true
				if !yield(sol) {
					return
				}
			}
			if yielded && p.Bounds.FirstOnly {
				return
			}

			// Block this placement model and look for the next.
			for _, m := range chosen {
				g.Add(m.Not())
			}
			g.Add(z.LitNull)
		}
	}
}

// addAtMostOne adds pairwise exclusion clauses over ms.
func addAtMostOne(g *gini.Gini, ms []z.Lit) {
	for i := 0; i < len(ms); i++ {
		for j := i + 1; j < len(ms); j++ {
			g.Add(ms[i].Not())
			g.Add(ms[j].Not())
			g.Add(z.LitNull)
		}
	}
}
