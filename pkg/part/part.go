// Package part defines component types, their orientation variants, and
// placements of component instances on a board. A component type is a set
// of terminals with fixed relative offsets; each orientation maps terminal
// indices to hole offsets and carries the footprint used for overlap
// checking.
package part

import (
	"fmt"
	"sort"

	"github.com/chazu/veroplace/pkg/board"
)

// Orientation is one rotation/reflection variant of a component type.
// Pins[i] is the hole offset of terminal i relative to the placement
// origin; terminal 0 is always at the origin. Footprint is the set of
// offsets the component body occupies, which always includes every pin.
type Orientation struct {
	Pins      []board.Coord
	Footprint []board.Coord
}

// Type describes a kind of component, independent of any placement.
type Type struct {
	Name      string
	Terminals int
	Color     string // render hint, e.g. "#008000"
	Orients   []Orientation
}

// Instance is one concrete component to be placed. Labels must be unique
// within a problem.
type Instance struct {
	Label string
	Type  *Type
}

// Placement fixes an instance at an origin in one of its orientations.
type Placement struct {
	Instance int // index into the problem's instance list
	Orient   int // index into the type's Orients
	Origin   board.Coord
}

// PinHole returns the absolute hole of terminal pin under p.
func (p Placement) PinHole(t *Type, pin int) board.Coord {
	return p.Origin.Add(t.Orients[p.Orient].Pins[pin])
}

// Holes returns the absolute occupied holes of p, in footprint order.
func (p Placement) Holes(t *Type) []board.Coord {
	o := t.Orients[p.Orient]
	holes := make([]board.Coord, len(o.Footprint))
	for i, f := range o.Footprint {
		holes[i] = p.Origin.Add(f)
	}
	return holes
}

// Fits reports whether every footprint hole of p lies on the board.
func (p Placement) Fits(t *Type, b *board.Board) bool {
	o := t.Orients[p.Orient]
	for _, f := range o.Footprint {
		if !b.InBounds(p.Origin.Add(f)) {
			return false
		}
	}
	return true
}

// Custom builds a component type from explicit orientation templates.
// Duplicate orientations are removed; pins must be injective and the
// footprint must cover every pin.
func Custom(name string, terminals int, color string, orients []Orientation) (*Type, error) {
	if terminals < 1 {
		return nil, fmt.Errorf("component %q: terminal count must be positive", name)
	}
	for oi, o := range orients {
		if len(o.Pins) != terminals {
			return nil, fmt.Errorf("component %q: orientation %d has %d pins, want %d",
				name, oi, len(o.Pins), terminals)
		}
		seen := make(map[board.Coord]bool, len(o.Pins))
		cover := make(map[board.Coord]bool, len(o.Footprint))
		for _, f := range o.Footprint {
			cover[f] = true
		}
		for pin, off := range o.Pins {
			if seen[off] {
				return nil, fmt.Errorf("component %q: orientation %d maps two pins to %s",
					name, oi, off)
			}
			seen[off] = true
			if !cover[off] {
				return nil, fmt.Errorf("component %q: orientation %d pin %d at %s outside footprint",
					name, oi, pin, off)
			}
		}
	}
	return &Type{
		Name:      name,
		Terminals: terminals,
		Color:     color,
		Orients:   dedupOrientations(orients),
	}, nil
}

// dedupOrientations drops orientations that are geometrically identical to
// an earlier one: same pin-to-offset mapping and same footprint set. This
// keeps the search from exploring placements that realize the exact same
// hole assignment twice. Orientations that differ only by a pin
// permutation are kept, since the netlist distinguishes terminals.
func dedupOrientations(orients []Orientation) []Orientation {
	var out []Orientation
	seen := make(map[string]bool)
	for _, o := range orients {
		key := orientKey(o)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}

func orientKey(o Orientation) string {
	fp := append([]board.Coord(nil), o.Footprint...)
	sort.Slice(fp, func(i, j int) bool { return fp[i].Less(fp[j]) })
	key := ""
	for _, p := range o.Pins {
		key += p.String()
	}
	key += "|"
	for _, f := range fp {
		key += f.String()
	}
	return key
}
