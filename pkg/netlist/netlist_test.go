package netlist

import (
	"strings"
	"testing"

	"github.com/chazu/veroplace/pkg/part"
)

func twoResistors(t *testing.T) []part.Instance {
	t.Helper()
	typ, err := part.Resistor("R", 2, part.LeadedOpts{})
	if err != nil {
		t.Fatal(err)
	}
	return []part.Instance{
		{Label: "R1", Type: typ},
		{Label: "R2", Type: typ},
	}
}

func TestResolvePartitionsAllTerminals(t *testing.T) {
	instances := twoResistors(t)
	nets := Netlist{
		{{Instance: "R1", Pin: 1}, {Instance: "R2", Pin: 0}},
	}

	r, errs := Resolve(nets, instances)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// One explicit net plus singletons for R1[1] and R2[2].
	if len(r.Nets) != 3 {
		t.Fatalf("got %d nets, want 3", len(r.Nets))
	}
	if r.NetOf(0, 1) != r.NetOf(1, 0) {
		t.Error("R1 pin 1 and R2 pin 0 should share a net")
	}
	if r.NetOf(0, 0) == r.NetOf(0, 1) {
		t.Error("R1 pin 0 should be in its own singleton net")
	}
	if r.NetOf(0, 0) == r.NetOf(1, 1) {
		t.Error("singleton nets of different terminals must be distinct")
	}
}

func TestResolveRejectsTerminalInTwoNets(t *testing.T) {
	instances := twoResistors(t)
	nets := Netlist{
		{{Instance: "R1", Pin: 0}, {Instance: "R2", Pin: 0}},
		{{Instance: "R1", Pin: 0}, {Instance: "R2", Pin: 1}},
	}

	_, errs := Resolve(nets, instances)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "more than one net") {
		t.Errorf("unexpected error: %v", errs[0])
	}
}

func TestResolveReportsAllFindings(t *testing.T) {
	instances := twoResistors(t)
	nets := Netlist{
		{{Instance: "R9", Pin: 0}},
		{{Instance: "R1", Pin: 7}},
	}

	_, errs := Resolve(nets, instances)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestResolveRejectsDuplicateLabels(t *testing.T) {
	typ, err := part.Resistor("R", 1, part.LeadedOpts{})
	if err != nil {
		t.Fatal(err)
	}
	instances := []part.Instance{
		{Label: "R1", Type: typ},
		{Label: "R1", Type: typ},
	}

	_, errs := Resolve(nil, instances)
	if len(errs) == 0 {
		t.Fatal("expected duplicate label error")
	}
	if !strings.Contains(errs[0].Error(), "duplicate") {
		t.Errorf("unexpected error: %v", errs[0])
	}
}

func TestTerminalStringIsOneBased(t *testing.T) {
	got := Terminal{Instance: "R1", Pin: 0}.String()
	if got != "R1[1]" {
		t.Errorf("got %q, want R1[1]", got)
	}
}
