package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/part"
	"github.com/chazu/veroplace/pkg/placer"
)

func solveFirst(t *testing.T, p placer.Problem) placer.Solution {
	t.Helper()
	s, err := placer.New(p)
	if err != nil {
		t.Fatal(err)
	}
	for sol := range s.Solutions() {
		return sol
	}
	t.Fatal("no solution found")
	return placer.Solution{}
}

func TestWriteSVG(t *testing.T) {
	typ, err := part.Resistor("R", 1, part.LeadedOpts{VerticalOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	p := placer.Problem{
		Board:     placer.BoardSpec{Width: 3, Height: 3, Dir: board.StripsHorizontal},
		Instances: []part.Instance{{Label: "R1", Type: typ}},
		Bounds:    placer.Bounds{FirstOnly: true},
	}
	sol := solveFirst(t, p)

	var buf bytes.Buffer
	WriteSVG(&buf, p, []placer.Solution{sol})
	out := buf.String()

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Errorf("output does not start with an XML header: %.40q", out)
	}
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Error("output is not a complete SVG document")
	}
	// 9 holes plus 2 terminal rings.
	if got := strings.Count(out, "<circle"); got != 11 {
		t.Errorf("got %d circles, want 11", got)
	}
	if !strings.Contains(out, "R1") {
		t.Error("component label missing")
	}
	if !strings.Contains(out, typ.Color) {
		t.Error("component color missing")
	}
}

func TestWriteSVGStacksSolutions(t *testing.T) {
	typ, err := part.Resistor("R", 1, part.LeadedOpts{VerticalOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	p := placer.Problem{
		Board:     placer.BoardSpec{Width: 1, Height: 2, Dir: board.StripsHorizontal},
		Instances: []part.Instance{{Label: "R1", Type: typ}},
	}
	s, err := placer.New(p)
	if err != nil {
		t.Fatal(err)
	}
	var sols []placer.Solution
	for sol := range s.Solutions() {
		sols = append(sols, sol)
	}
	if len(sols) != 2 {
		t.Fatalf("got %d solutions, want 2", len(sols))
	}

	var buf bytes.Buffer
	WriteSVG(&buf, p, sols)
	out := buf.String()

	if got := strings.Count(out, "translate("); got != 2 {
		t.Errorf("got %d translated groups, want 2", got)
	}
	// One drilled cross would add red lines; none should be present.
	if strings.Contains(out, crossColor) {
		t.Error("unexpected drill markers in undrilled solution")
	}
}

func TestDrilledHolesGetCrosses(t *testing.T) {
	dip, err := part.DIP("U", 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	p := placer.Problem{
		Board:     placer.BoardSpec{Width: 3, Height: 2, Dir: board.StripsHorizontal},
		Instances: []part.Instance{{Label: "U1", Type: dip}},
		Bounds:    placer.Bounds{MaxDrilled: 2, FirstOnly: true},
	}
	sol := solveFirst(t, p)
	if len(sol.Drilled) != 2 {
		t.Fatalf("expected 2 drilled holes, got %v", sol.Drilled)
	}

	var buf bytes.Buffer
	WriteSVG(&buf, p, []placer.Solution{sol})
	// Two crossed lines per drilled hole.
	if got := strings.Count(buf.String(), crossColor); got != 4 {
		t.Errorf("got %d cross strokes, want 4", got)
	}
}
