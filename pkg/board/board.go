// Package board models a fixed-pitch perforated prototyping board whose
// holes are grouped into parallel conductive strips. It is pure state plus
// O(1) queries; no search logic lives here.
package board

import "fmt"

// StripDirection selects which way the conductive strips run.
type StripDirection int

const (
	StripsHorizontal StripDirection = iota // each row is one strip
	StripsVertical                         // each column is one strip
)

func (d StripDirection) String() string {
	switch d {
	case StripsHorizontal:
		return "horizontal"
	case StripsVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Coord identifies a hole by integer grid coordinates.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate translated by the offset o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Less orders coordinates row-major: by Y, then by X. This is the canonical
// candidate and output order everywhere in the solver.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Occupant records which terminal of which component instance sits in a hole.
// Pin is -1 for holes covered by a component body without a terminal.
type Occupant struct {
	Instance int
	Pin      int
}

// OverlapError reports an attempt to occupy an already-occupied hole.
// It is a backtracking signal inside the search engine and is never
// surfaced to callers of the solve entry point.
type OverlapError struct {
	Hole Coord
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("hole %s is already occupied", e.Hole)
}

// Board is the mutable arena the search engine works on. It is exclusively
// owned and serially mutated by a single search; it is not safe for
// concurrent use.
type Board struct {
	Width  int
	Height int
	Dir    StripDirection

	occ     []Occupant // Instance == -1 means empty
	drilled []bool
}

// New creates an empty board. Width and Height must be positive; the caller
// (solve entry validation) is responsible for checking that.
func New(width, height int, dir StripDirection) *Board {
	b := &Board{
		Width:   width,
		Height:  height,
		Dir:     dir,
		occ:     make([]Occupant, width*height),
		drilled: make([]bool, width*height),
	}
	for i := range b.occ {
		b.occ[i].Instance = -1
	}
	return b
}

// Holes returns the number of holes on the board.
func (b *Board) Holes() int {
	return b.Width * b.Height
}

// InBounds reports whether c is a hole on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// Index maps a coordinate to a dense hole index (row-major).
func (b *Board) Index(c Coord) int {
	return c.Y*b.Width + c.X
}

// CoordAt is the inverse of Index.
func (b *Board) CoordAt(i int) Coord {
	return Coord{i % b.Width, i / b.Width}
}

// StripOf returns the identifier of the strip containing c: the row index
// for horizontal strips, the column index for vertical ones.
func (b *Board) StripOf(c Coord) int {
	if b.Dir == StripsVertical {
		return c.X
	}
	return c.Y
}

// StripNeighbors returns the immediate strip neighbors of c, in ascending
// order. These are exactly the links a drill at c disconnects.
func (b *Board) StripNeighbors(c Coord) []Coord {
	var step Coord
	if b.Dir == StripsVertical {
		step = Coord{0, 1}
	} else {
		step = Coord{1, 0}
	}
	var ns []Coord
	if prev := (Coord{c.X - step.X, c.Y - step.Y}); b.InBounds(prev) {
		ns = append(ns, prev)
	}
	if next := c.Add(step); b.InBounds(next) {
		ns = append(ns, next)
	}
	return ns
}

// StripLinks calls fn for every adjacent hole pair joined by a strip.
func (b *Board) StripLinks(fn func(a, c Coord)) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Dir == StripsVertical {
				if y+1 < b.Height {
					fn(Coord{x, y}, Coord{x, y + 1})
				}
			} else {
				if x+1 < b.Width {
					fn(Coord{x, y}, Coord{x + 1, y})
				}
			}
		}
	}
}

// OccupantAt returns the occupant of hole c, if any.
func (b *Board) OccupantAt(c Coord) (Occupant, bool) {
	o := b.occ[b.Index(c)]
	return o, o.Instance >= 0
}

// IsOccupied reports whether hole c holds a terminal or component body.
func (b *Board) IsOccupied(c Coord) bool {
	return b.occ[b.Index(c)].Instance >= 0
}

// Occupy claims the given holes for the occupants at matching indices.
// On any conflict nothing is changed and an *OverlapError is returned.
func (b *Board) Occupy(holes []Coord, occupants []Occupant) error {
	for _, c := range holes {
		if b.IsOccupied(c) {
			return &OverlapError{Hole: c}
		}
	}
	for i, c := range holes {
		b.occ[b.Index(c)] = occupants[i]
	}
	return nil
}

// Vacate releases the given holes. Vacating an empty hole is a no-op.
func (b *Board) Vacate(holes []Coord) {
	for _, c := range holes {
		b.occ[b.Index(c)].Instance = -1
	}
}

// Drilled reports whether hole c has been drilled out.
func (b *Board) Drilled(c Coord) bool {
	return b.drilled[b.Index(c)]
}

// Drill marks hole c as drilled. Idempotent.
func (b *Board) Drill(c Coord) {
	b.drilled[b.Index(c)] = true
}

// Undrill clears the drilled flag on hole c. Idempotent.
func (b *Board) Undrill(c Coord) {
	b.drilled[b.Index(c)] = false
}

// Pristine reports whether the board has no occupants and no drilled holes.
// The search engine must leave the board pristine after exhausting its tree.
func (b *Board) Pristine() bool {
	for i := range b.occ {
		if b.occ[i].Instance >= 0 || b.drilled[i] {
			return false
		}
	}
	return true
}
