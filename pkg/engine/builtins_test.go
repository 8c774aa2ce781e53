package engine

import (
	"strings"
	"testing"

	"github.com/chazu/veroplace/pkg/board"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple keyword", ":width", `"__kw_width"`},
		{"kebab keyword", ":max-jumper-length", `"__kw_max-jumper-length"`},
		{"keyword in form", "(stripboard :width 5)", `(stripboard "__kw_width" 5)`},
		{"assignment preserved", "(x := 3)", "(x := 3)"},
		{"keyword in string untouched", `"a :width b"`, `"a :width b"`},
		{"kebab identifier", "(first-only)", "(first_only)"},
		{"subtraction untouched", "(- 5 3)", "(- 5 3)"},
		{"comment converted", "; note\n(+ 1 2)", "// note\n(+ 1 2)"},
	}
	for _, tt := range tests {
		if got := preprocessSource(tt.in); got != tt.want {
			t.Errorf("%s: preprocessSource(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestStripboardDirections(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(`(stripboard :width 4 :height 3 :strips :vertical)`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate failed: %v %v", evalErrs, err)
	}
	if p.Board.Dir != board.StripsVertical {
		t.Errorf("dir = %v, want vertical", p.Board.Dir)
	}

	_, evalErrs, err = eng.Evaluate(`(stripboard :strips :diagonal)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "diagonal") {
		t.Errorf("expected error naming the bad direction, got %v", evalErrs)
	}
}

func TestPinAcceptsRefOrLabel(t *testing.T) {
	eng := NewEngine()

	source := `
(def r1 (resistor "R1" :max-length 2))
(resistor "R2" :max-length 2)
(net (pin r1 1) (pin "R2" 2))
`
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate failed: %v %v", evalErrs, err)
	}
	if len(p.Nets) != 1 {
		t.Fatalf("nets = %+v", p.Nets)
	}
	if p.Nets[0][0].Instance != "R1" || p.Nets[0][1].Instance != "R2" {
		t.Errorf("net members = %+v", p.Nets[0])
	}
}

func TestPinRejectsZero(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate(`(resistor "R1" :max-length 1)(net (pin "R1" 0))`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "1-based") {
		t.Errorf("expected 1-based pin error, got %v", evalErrs)
	}
}

func TestNetRejectsNonPin(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate(`(net 42)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "expected pin") {
		t.Errorf("expected pin type error, got %v", evalErrs)
	}
}

func TestDIPDefaults(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(`(dip "U1" :pins 8)`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate failed: %v %v", evalErrs, err)
	}
	if len(p.Instances) != 1 {
		t.Fatalf("instances = %+v", p.Instances)
	}
	typ := p.Instances[0].Type
	if typ.Terminals != 8 {
		t.Errorf("terminals = %d, want 8", typ.Terminals)
	}
	if len(typ.Orients) != 4 {
		t.Errorf("orientations = %d, want 4", len(typ.Orients))
	}
}

func TestBoundsUnboundedKeyword(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate(`(bounds :max-drilled :unbounded :max-jumpers 3 :max-jumper-length :unbounded)`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate failed: %v %v", evalErrs, err)
	}
	if p.Bounds.MaxDrilled != -1 || p.Bounds.MaxJumpers != 3 || p.Bounds.MaxJumperLength != -1 {
		t.Errorf("bounds = %+v", p.Bounds)
	}
}
