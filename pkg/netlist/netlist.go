// Package netlist defines the required electrical equivalence classes for
// a placement problem: sets of terminals that must end up on one common
// node, and implicitly must not be connected to terminals of other nets.
package netlist

import (
	"fmt"

	"github.com/chazu/veroplace/pkg/part"
)

// Terminal references one pin of one component instance by label.
// Pins are zero-based.
type Terminal struct {
	Instance string `json:"instance"`
	Pin      int    `json:"pin"`
}

func (t Terminal) String() string {
	return fmt.Sprintf("%s[%d]", t.Instance, t.Pin+1)
}

// Net is a set of terminals that must be mutually connected.
type Net []Terminal

// Netlist is the full set of required nets.
type Netlist []Net

// TermRef identifies a terminal by instance index rather than label,
// after resolution against a concrete instance list.
type TermRef struct {
	Instance int
	Pin      int
}

// Resolved is a netlist validated against a concrete instance list.
// Nets partition every terminal of every instance: terminals not named in
// any input net become singleton nets, which carry no connection
// requirement but must not be shorted to anything else.
type Resolved struct {
	// Nets holds, per net, the (instance index, pin) pairs of its members.
	Nets [][]TermRef
	// netOf maps (instance index, pin) to a net index.
	netOf map[[2]int]int
}

// NetOf returns the net index of the given instance terminal.
func (r *Resolved) NetOf(instance, pin int) int {
	return r.netOf[[2]int{instance, pin}]
}

// Resolve validates nets against instances and returns the full terminal
// partition. All findings are returned together so a caller can report
// every problem with the input at once.
func Resolve(nets Netlist, instances []part.Instance) (*Resolved, []error) {
	var errs []error

	byLabel := make(map[string]int, len(instances))
	for i, inst := range instances {
		if inst.Label == "" {
			errs = append(errs, fmt.Errorf("instance %d has an empty label", i))
			continue
		}
		if inst.Type == nil {
			errs = append(errs, fmt.Errorf("instance %q has no component type", inst.Label))
			continue
		}
		if _, dup := byLabel[inst.Label]; dup {
			errs = append(errs, fmt.Errorf("duplicate instance label %q", inst.Label))
			continue
		}
		byLabel[inst.Label] = i
	}

	r := &Resolved{netOf: make(map[[2]int]int)}
	for ni, net := range nets {
		if len(net) == 0 {
			errs = append(errs, fmt.Errorf("net %d is empty", ni))
			continue
		}
		var members []TermRef
		for _, t := range net {
			ii, ok := byLabel[t.Instance]
			if !ok {
				errs = append(errs, fmt.Errorf("net %d references unknown instance %q", ni, t.Instance))
				continue
			}
			if t.Pin < 0 || t.Pin >= instances[ii].Type.Terminals {
				errs = append(errs, fmt.Errorf("net %d references %s, but %q has only %d terminals",
					ni, t, t.Instance, instances[ii].Type.Terminals))
				continue
			}
			key := [2]int{ii, t.Pin}
			if prev, claimed := r.netOf[key]; claimed {
				if prev != len(r.Nets) {
					errs = append(errs, fmt.Errorf("terminal %s appears in more than one net", t))
				} else {
					errs = append(errs, fmt.Errorf("terminal %s appears twice in net %d", t, ni))
				}
				continue
			}
			r.netOf[key] = len(r.Nets)
			members = append(members, TermRef{Instance: ii, Pin: t.Pin})
		}
		if len(members) > 0 {
			r.Nets = append(r.Nets, members)
		}
	}

	// Unmentioned terminals become singleton nets, in instance/pin order.
	for ii, inst := range instances {
		if inst.Type == nil {
			continue
		}
		for pin := 0; pin < inst.Type.Terminals; pin++ {
			key := [2]int{ii, pin}
			if _, ok := r.netOf[key]; ok {
				continue
			}
			r.netOf[key] = len(r.Nets)
			r.Nets = append(r.Nets, []TermRef{{Instance: ii, Pin: pin}})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return r, nil
}
