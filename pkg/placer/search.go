package placer

import (
	"fmt"
	"iter"
	"sort"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/conn"
	"github.com/chazu/veroplace/pkg/netlist"
	"github.com/chazu/veroplace/pkg/part"
)

// Search is a validated, immutable problem ready to be enumerated. It can
// be ranged over any number of times; every range restarts the search
// from scratch and produces the identical solution sequence.
type Search struct {
	p    Problem
	nets *netlist.Resolved

	// occupants[i][o] is the occupant template for instance i in
	// orientation o, aligned with the orientation's footprint.
	occupants [][][]board.Occupant
	// jumperCands is the static jumper candidate list, in row-major
	// first-endpoint order, ascending length. Empty when no jumpers are
	// allowed.
	jumperCands []Jumper
}

// New validates p and prepares a search. All structural findings are
// collected into a single *ConfigError; no search work happens here.
func New(p Problem) (*Search, error) {
	var findings []string

	if p.Board.Width < 1 || p.Board.Height < 1 {
		findings = append(findings,
			fmt.Sprintf("board dimensions must be positive, got %dx%d", p.Board.Width, p.Board.Height))
	}
	if len(p.Instances) == 0 {
		findings = append(findings, "at least one component instance is required")
	}
	if p.Bounds.MaxDrilled < Unbounded {
		findings = append(findings,
			fmt.Sprintf("maxDrilled must be non-negative or unbounded, got %d", p.Bounds.MaxDrilled))
	}
	if p.Bounds.MaxJumpers < Unbounded {
		findings = append(findings,
			fmt.Sprintf("maxJumpers must be non-negative or unbounded, got %d", p.Bounds.MaxJumpers))
	}
	if p.Bounds.MaxJumperLength < Unbounded ||
		(p.Bounds.MaxJumperLength == 0 && p.Bounds.MaxJumpers != 0) {
		findings = append(findings,
			fmt.Sprintf("maxJumperLength must be positive or unbounded when jumpers are allowed, got %d",
				p.Bounds.MaxJumperLength))
	}
	for _, inst := range p.Instances {
		if inst.Type != nil && len(inst.Type.Orients) == 0 {
			findings = append(findings,
				fmt.Sprintf("component %q has no orientations", inst.Label))
		}
	}

	nets, errs := netlist.Resolve(p.Nets, p.Instances)
	for _, err := range errs {
		findings = append(findings, err.Error())
	}
	if len(findings) > 0 {
		return nil, &ConfigError{Findings: findings}
	}

	s := &Search{p: p, nets: nets}
	s.occupants = occupantTemplates(p.Instances)
	if p.Bounds.MaxJumpers != 0 {
		s.jumperCands = jumperCandidates(p.Board, p.Bounds.MaxJumperLength)
	}
	return s, nil
}

// Problem returns the validated problem definition.
func (s *Search) Problem() Problem {
	return s.p
}

// Solutions returns the lazy solution sequence. The consumer may stop
// ranging at any point; with FirstOnly set the sequence ends after the
// first solution regardless.
func (s *Search) Solutions() iter.Seq[Solution] {
	return func(yield func(Solution) bool) {
		r := s.newRunner()
		r.place(0, func(sol Solution) bool {
			if !yield(sol) {
				return false
			}
			return !s.p.Bounds.FirstOnly
		})
	}
}

// Candidates returns every in-bounds placement of instance i, in the
// search's canonical order (row-major origin, then orientation index).
// Overlap with other instances is not considered.
func (s *Search) Candidates(i int) []part.Placement {
	b := board.New(s.p.Board.Width, s.p.Board.Height, s.p.Board.Dir)
	typ := s.p.Instances[i].Type
	var out []part.Placement
	for hi := 0; hi < b.Holes(); hi++ {
		origin := b.CoordAt(hi)
		for oi := range typ.Orients {
			pl := part.Placement{Instance: i, Orient: oi, Origin: origin}
			if pl.Fits(typ, b) {
				out = append(out, pl)
			}
		}
	}
	return out
}

// RouteFixed runs only the routing phase over a fixed, complete placement
// assignment, yielding every drill/jumper combination that satisfies the
// netlist. Overlapping placements yield an empty sequence. This is the
// entry point for alternative placement backends.
func (s *Search) RouteFixed(placements []part.Placement) iter.Seq[Solution] {
	return func(yield func(Solution) bool) {
		r := s.newRunner()
		for i, pl := range placements {
			typ := s.p.Instances[i].Type
			if err := r.b.Occupy(pl.Holes(typ), s.occupants[i][pl.Orient]); err != nil {
				return
			}
			r.placements[i] = pl
		}
		r.route(func(sol Solution) bool {
			if !yield(sol) {
				return false
			}
			return !s.p.Bounds.FirstOnly
		})
	}
}

// runner is the mutable state of one enumeration pass. All mutation is
// exactly reverted on backtrack, so the board is pristine again after the
// tree is exhausted.
type runner struct {
	s    *Search
	b    *board.Board
	eval *conn.Evaluator

	placements []part.Placement
	netHoles   [][]board.Coord
	drillCands []board.Coord
	drills     []board.Coord
	jumps      [][2]board.Coord
}

func (s *Search) newRunner() *runner {
	return &runner{
		s:          s,
		b:          board.New(s.p.Board.Width, s.p.Board.Height, s.p.Board.Dir),
		eval:       conn.NewEvaluator(),
		placements: make([]part.Placement, len(s.p.Instances)),
		netHoles:   make([][]board.Coord, len(s.nets.Nets)),
	}
}

// place tries every candidate placement for instance idx and recurses.
// It returns false only when the consumer has stopped the enumeration.
func (r *runner) place(idx int, emit func(Solution) bool) bool {
	if idx == len(r.s.p.Instances) {
		return r.route(emit)
	}
	typ := r.s.p.Instances[idx].Type
	for hi := 0; hi < r.b.Holes(); hi++ {
		origin := r.b.CoordAt(hi)
		for oi := range typ.Orients {
			pl := part.Placement{Instance: idx, Orient: oi, Origin: origin}
			if !pl.Fits(typ, r.b) {
				continue
			}
			holes := pl.Holes(typ)
			if err := r.b.Occupy(holes, r.s.occupants[idx][oi]); err != nil {
				continue
			}
			r.placements[idx] = pl
			more := true
			if r.viable(idx + 1) {
				more = r.place(idx+1, emit)
			}
			r.b.Vacate(holes)
			if !more {
				return false
			}
		}
	}
	return true
}

// viable prunes partial placements that are already beyond repair. A
// short between placed terminals can only ever be fixed by drilling, so
// when no drilling is allowed the whole subtree is dead.
func (r *runner) viable(placed int) bool {
	if r.s.p.Bounds.MaxDrilled != 0 {
		return true
	}
	r.fillNetHoles(placed)
	return !r.eval.Evaluate(r.b, r.netHoles, nil).Short
}

// fillNetHoles refreshes the per-net terminal holes for the instances
// placed so far, reusing the runner's buffers.
func (r *runner) fillNetHoles(placed int) {
	for ni, members := range r.s.nets.Nets {
		holes := r.netHoles[ni][:0]
		for _, m := range members {
			if m.Instance >= placed {
				continue
			}
			pl := r.placements[m.Instance]
			holes = append(holes, pl.PinHole(r.s.p.Instances[m.Instance].Type, m.Pin))
		}
		r.netHoles[ni] = holes
	}
}

// route enumerates drill and jumper combinations for the current complete
// placement, in ascending combination order, yielding every accepted one.
func (r *runner) route(emit func(Solution) bool) bool {
	r.fillNetHoles(len(r.placements))
	r.drillCands = r.drillCandidates(r.drillCands[:0])
	return r.drillPhase(0, emit)
}

// drillCandidates lists the holes a drill may target under the current
// occupancy. Drilling a terminal hole would cut the pad its lead is
// soldered to, so those are excluded; holes under a component body are
// fair game, which is how facing DIP pin rows get isolated.
func (r *runner) drillCandidates(buf []board.Coord) []board.Coord {
	if r.s.p.Bounds.MaxDrilled == 0 {
		return buf
	}
	for i := 0; i < r.b.Holes(); i++ {
		c := r.b.CoordAt(i)
		if o, ok := r.b.OccupantAt(c); ok && o.Pin >= 0 {
			continue
		}
		buf = append(buf, c)
	}
	return buf
}

func (r *runner) drillLimit() int {
	if r.s.p.Bounds.MaxDrilled == Unbounded {
		return len(r.drillCands)
	}
	return r.s.p.Bounds.MaxDrilled
}

func (r *runner) jumperLimit() int {
	if r.s.p.Bounds.MaxJumpers == Unbounded {
		return len(r.s.jumperCands)
	}
	return r.s.p.Bounds.MaxJumpers
}

// drillPhase extends the current drill set with candidates from start
// onward. Each drill set is fully explored for jumpers before growing.
func (r *runner) drillPhase(start int, emit func(Solution) bool) bool {
	if !r.jumperPhase(0, emit) {
		return false
	}
	if len(r.drills) >= r.drillLimit() {
		return true
	}
	for i := start; i < len(r.drillCands); i++ {
		c := r.drillCands[i]
		r.b.Drill(c)
		r.drills = append(r.drills, c)
		more := r.drillPhase(i+1, emit)
		r.drills = r.drills[:len(r.drills)-1]
		r.b.Undrill(c)
		if !more {
			return false
		}
	}
	return true
}

// jumperPhase evaluates the current drill/jumper set and extends it with
// jumper candidates from start onward. Jumpers only ever add electrical
// edges, so a set that already shorts two nets is abandoned outright; no
// extension can recover it.
func (r *runner) jumperPhase(start int, emit func(Solution) bool) bool {
	v := r.eval.Evaluate(r.b, r.netHoles, r.jumps)
	if v.Short {
		return true
	}
	if v.Connected {
		if !emit(r.snapshot()) {
			return false
		}
	}
	if len(r.jumps) >= r.jumperLimit() {
		return true
	}
	for i := start; i < len(r.s.jumperCands); i++ {
		j := r.s.jumperCands[i]
		// A drilled hole has no pad left to solder to.
		if r.b.Drilled(j.A) || r.b.Drilled(j.B) {
			continue
		}
		r.jumps = append(r.jumps, [2]board.Coord{j.A, j.B})
		more := r.jumperPhase(i+1, emit)
		r.jumps = r.jumps[:len(r.jumps)-1]
		if !more {
			return false
		}
	}
	return true
}

// snapshot copies the current assignment into an immutable Solution.
func (r *runner) snapshot() Solution {
	sol := Solution{
		Placements: append([]part.Placement(nil), r.placements...),
		Drilled:    append([]board.Coord(nil), r.drills...),
		Jumpers:    make([]Jumper, len(r.jumps)),
	}
	for i, j := range r.jumps {
		sol.Jumpers[i] = NewJumper(j[0], j[1])
	}
	sort.Slice(sol.Drilled, func(a, b int) bool { return sol.Drilled[a].Less(sol.Drilled[b]) })
	sort.Slice(sol.Jumpers, func(a, b int) bool {
		if sol.Jumpers[a].A != sol.Jumpers[b].A {
			return sol.Jumpers[a].A.Less(sol.Jumpers[b].A)
		}
		return sol.Jumpers[a].B.Less(sol.Jumpers[b].B)
	})
	return sol
}

// occupantTemplates precomputes, per instance and orientation, the
// occupant records aligned with the orientation footprint. Footprint
// holes without a terminal get Pin -1.
func occupantTemplates(instances []part.Instance) [][][]board.Occupant {
	out := make([][][]board.Occupant, len(instances))
	for ii, inst := range instances {
		out[ii] = make([][]board.Occupant, len(inst.Type.Orients))
		for oi, o := range inst.Type.Orients {
			pinOf := make(map[board.Coord]int, len(o.Pins))
			for pin, off := range o.Pins {
				pinOf[off] = pin
			}
			occs := make([]board.Occupant, len(o.Footprint))
			for fi, off := range o.Footprint {
				pin, ok := pinOf[off]
				if !ok {
					pin = -1
				}
				occs[fi] = board.Occupant{Instance: ii, Pin: pin}
			}
			out[ii][oi] = occs
		}
	}
	return out
}

// jumperCandidates lists every useful jumper on the board, row-major by
// first endpoint, then ascending length. A jumper along a strip joins
// holes that are already connected, so only spans crossing strips are
// generated.
func jumperCandidates(bs BoardSpec, maxLen int) []Jumper {
	if maxLen == Unbounded {
		maxLen = bs.Width + bs.Height
	}
	var out []Jumper
	for y := 0; y < bs.Height; y++ {
		for x := 0; x < bs.Width; x++ {
			if bs.Dir == board.StripsVertical {
				for l := 1; l <= maxLen && x+l < bs.Width; l++ {
					out = append(out, Jumper{A: board.Coord{X: x, Y: y}, B: board.Coord{X: x + l, Y: y}})
				}
			} else {
				for l := 1; l <= maxLen && y+l < bs.Height; l++ {
					out = append(out, Jumper{A: board.Coord{X: x, Y: y}, B: board.Coord{X: x, Y: y + l}})
				}
			}
		}
	}
	return out
}
