package part

import (
	"fmt"

	"github.com/chazu/veroplace/pkg/board"
)

// Default render colors, matching the classic schematic palette.
const (
	colorResistor  = "#008000"
	colorCapacitor = "#000080"
	colorDIP       = "#808080"
)

// LeadedOpts tunes the orientation set of a two-terminal leaded component.
// A zero value allows both axes.
type LeadedOpts struct {
	VerticalOnly   bool
	HorizontalOnly bool
	Color          string
}

// Leaded builds a two-terminal leaded component (resistor, diode,
// capacitor): terminal 0 at the origin, terminal 1 at any distance from 1
// up to maxLength along either axis, in either direction. The body
// occupies every hole between the terminals.
func Leaded(name string, maxLength int, opts LeadedOpts) (*Type, error) {
	if maxLength < 1 {
		return nil, fmt.Errorf("component %q: max length must be at least 1", name)
	}
	vertical := !opts.HorizontalOnly
	horizontal := !opts.VerticalOnly
	if !vertical && !horizontal {
		return nil, fmt.Errorf("component %q: no orientation axis allowed", name)
	}

	color := opts.Color
	if color == "" {
		color = colorResistor
	}

	var orients []Orientation
	span := func(step board.Coord, length int) Orientation {
		end := board.Coord{X: step.X * length, Y: step.Y * length}
		fp := make([]board.Coord, 0, length+1)
		for i := 0; i <= length; i++ {
			fp = append(fp, board.Coord{X: step.X * i, Y: step.Y * i})
		}
		return Orientation{Pins: []board.Coord{{}, end}, Footprint: fp}
	}
	for length := 1; length <= maxLength; length++ {
		if vertical {
			orients = append(orients, span(board.Coord{Y: 1}, length))
			orients = append(orients, span(board.Coord{Y: -1}, length))
		}
		if horizontal {
			orients = append(orients, span(board.Coord{X: 1}, length))
			orients = append(orients, span(board.Coord{X: -1}, length))
		}
	}

	return Custom(name, 2, color, orients)
}

// Resistor is a leaded component with the resistor default color.
func Resistor(name string, maxLength int, opts LeadedOpts) (*Type, error) {
	if opts.Color == "" {
		opts.Color = colorResistor
	}
	return Leaded(name, maxLength, opts)
}

// Capacitor is a leaded component with the capacitor default color.
func Capacitor(name string, maxLength int, opts LeadedOpts) (*Type, error) {
	if opts.Color == "" {
		opts.Color = colorCapacitor
	}
	return Leaded(name, maxLength, opts)
}

// DIP builds a dual-inline package with the given even terminal count.
// Terminal numbering follows convention: pins run down one row and back
// up the other, so pin 0 and pin n-1 face each other. rowSpacing is the
// gap between the two pin rows in holes; the body occupies the full
// rectangle between and including the rows. Four rotations are produced.
func DIP(name string, terminals, rowSpacing int) (*Type, error) {
	if terminals < 2 || terminals%2 != 0 {
		return nil, fmt.Errorf("component %q: DIP terminal count must be even and positive", name)
	}
	if rowSpacing < 1 {
		return nil, fmt.Errorf("component %q: DIP row spacing must be at least 1", name)
	}

	length := terminals / 2

	// Base orientation: left row runs down, right row runs back up.
	base := Orientation{}
	for i := 0; i < length; i++ {
		base.Pins = append(base.Pins, board.Coord{X: 0, Y: i})
	}
	for i := 0; i < length; i++ {
		base.Pins = append(base.Pins, board.Coord{X: rowSpacing, Y: length - i - 1})
	}
	for x := 0; x <= rowSpacing; x++ {
		for y := 0; y < length; y++ {
			base.Footprint = append(base.Footprint, board.Coord{X: x, Y: y})
		}
	}

	orients := make([]Orientation, 0, 4)
	o := base
	for r := 0; r < 4; r++ {
		orients = append(orients, normalize(o))
		o = rotate(o)
	}

	return Custom(name, terminals, colorDIP, orients)
}

// rotate turns an orientation 90 degrees counter-clockwise.
func rotate(o Orientation) Orientation {
	rot := func(c board.Coord) board.Coord { return board.Coord{X: c.Y, Y: -c.X} }
	out := Orientation{
		Pins:      make([]board.Coord, len(o.Pins)),
		Footprint: make([]board.Coord, len(o.Footprint)),
	}
	for i, p := range o.Pins {
		out.Pins[i] = rot(p)
	}
	for i, f := range o.Footprint {
		out.Footprint[i] = rot(f)
	}
	return out
}

// normalize translates an orientation so terminal 0 sits at the origin.
func normalize(o Orientation) Orientation {
	off := board.Coord{X: -o.Pins[0].X, Y: -o.Pins[0].Y}
	out := Orientation{
		Pins:      make([]board.Coord, len(o.Pins)),
		Footprint: make([]board.Coord, len(o.Footprint)),
	}
	for i, p := range o.Pins {
		out.Pins[i] = p.Add(off)
	}
	for i, f := range o.Footprint {
		out.Footprint[i] = f.Add(off)
	}
	return out
}
