// Package placer is the search engine: it enumerates assignments of
// component placements, drilled holes and jumpers, in a fixed
// deterministic order, and yields every assignment whose realized
// connectivity exactly matches the netlist under the configured bounds.
package placer

import (
	"fmt"
	"strings"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/netlist"
	"github.com/chazu/veroplace/pkg/part"
)

// Unbounded disables a numeric bound.
const Unbounded = -1

// BoardSpec describes the board to place onto.
type BoardSpec struct {
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Dir    board.StripDirection `json:"dir"`
}

// Bounds caps the routing effort. The zero value allows no drilled holes
// and no jumpers; set a field to Unbounded to lift its cap.
type Bounds struct {
	MaxDrilled      int  `json:"maxDrilled"`
	MaxJumpers      int  `json:"maxJumpers"`
	MaxJumperLength int  `json:"maxJumperLength"`
	FirstOnly       bool `json:"firstOnly"`
}

// Jumper is a wire soldered between two holes. A is never after B in
// row-major order.
type Jumper struct {
	A board.Coord `json:"a"`
	B board.Coord `json:"b"`
}

// NewJumper builds a jumper in canonical endpoint order.
func NewJumper(a, b board.Coord) Jumper {
	if b.Less(a) {
		a, b = b, a
	}
	return Jumper{A: a, B: b}
}

// Length is the Manhattan distance between the endpoints.
func (j Jumper) Length() int {
	return abs(j.A.X-j.B.X) + abs(j.A.Y-j.B.Y)
}

func (j Jumper) String() string {
	return fmt.Sprintf("%s-%s", j.A, j.B)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Problem is a complete, immutable problem instance.
type Problem struct {
	Board     BoardSpec
	Instances []part.Instance
	Nets      netlist.Netlist
	Bounds    Bounds
}

// Solution is one accepted assignment. Placements are indexed like the
// problem's instance list; Drilled and Jumpers are in canonical order.
// Solutions are immutable snapshots, detached from any search state.
type Solution struct {
	Placements []part.Placement `json:"placements"`
	Drilled    []board.Coord    `json:"drilled"`
	Jumpers    []Jumper         `json:"jumpers"`
}

// ConfigError reports a malformed problem. Every finding is collected so
// the caller can present all input problems at once. An exhausted search
// is not a ConfigError; it simply yields no solutions.
type ConfigError struct {
	Findings []string
}

func (e *ConfigError) Error() string {
	if len(e.Findings) == 1 {
		return "invalid problem: " + e.Findings[0]
	}
	return fmt.Sprintf("invalid problem (%d findings): %s",
		len(e.Findings), strings.Join(e.Findings, "; "))
}
