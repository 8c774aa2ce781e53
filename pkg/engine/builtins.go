package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/netlist"
	"github.com/chazu/veroplace/pkg/part"
	"github.com/chazu/veroplace/pkg/placer"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms problem source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: max-length -> max_length
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPartRef wraps a declared component instance so later forms can
// refer to it directly instead of by label string.
type sexpPartRef struct {
	label string
}

func (p *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(component %q)", p.label)
}
func (p *sexpPartRef) Type() *zygo.RegisteredType { return nil }

// sexpPin wraps one terminal reference produced by `pin`.
type sexpPin struct {
	term netlist.Terminal
}

func (p *sexpPin) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pin %q %d)", p.term.Instance, p.term.Pin+1)
}
func (p *sexpPin) Type() *zygo.RegisteredType { return nil }

// sexpNetRef wraps the index of a declared net.
type sexpNetRef struct {
	index int
	size  int
}

func (n *sexpNetRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(net %d: %d pins)", n.index, n.size)
}
func (n *sexpNetRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_horizontal) and plain strings
// ("horizontal").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBound extracts a bound value: a non-negative integer, -1, or the
// :unbounded keyword.
func toBound(s zygo.Sexp) (int, error) {
	if name, ok := isKW(s); ok {
		if name == "unbounded" {
			return placer.Unbounded, nil
		}
		return 0, fmt.Errorf("expected integer or :unbounded, got :%s", name)
	}
	return toInt(s)
}

// toStripDirection converts a keyword or string to a strip direction.
func toStripDirection(s zygo.Sexp) (board.StripDirection, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected direction keyword (:horizontal, :vertical): %w", err)
	}
	switch name {
	case "horizontal":
		return board.StripsHorizontal, nil
	case "vertical":
		return board.StripsVertical, nil
	}
	return 0, fmt.Errorf("invalid strip direction %q, expected horizontal or vertical", name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder accumulates the problem definition as builtins execute.
type builder struct {
	board  placer.BoardSpec
	parts  []part.Instance
	nets   netlist.Netlist
	bounds placer.Bounds
}

func (b *builder) problem() *placer.Problem {
	return &placer.Problem{
		Board:     b.board,
		Instances: b.parts,
		Nets:      b.nets,
		Bounds:    b.bounds,
	}
}

// leadedOpts reads the shared keyword arguments of the two-terminal
// component forms.
func leadedOpts(pa kwArgs) (maxLength int, opts part.LeadedOpts, err error) {
	maxLength = 1
	if v, ok := pa.kw["max-length"]; ok {
		maxLength, err = toInt(v)
		if err != nil {
			return 0, opts, fmt.Errorf("max-length: %w", err)
		}
	}
	if v, ok := pa.kw["vertical-only"]; ok {
		opts.VerticalOnly, err = toBool(v)
		if err != nil {
			return 0, opts, fmt.Errorf("vertical-only: %w", err)
		}
	}
	if v, ok := pa.kw["horizontal-only"]; ok {
		opts.HorizontalOnly, err = toBool(v)
		if err != nil {
			return 0, opts, fmt.Errorf("horizontal-only: %w", err)
		}
	}
	if v, ok := pa.kw["color"]; ok {
		opts.Color, err = toString(v)
		if err != nil {
			return 0, opts, fmt.Errorf("color: %w", err)
		}
	}
	return maxLength, opts, nil
}

// registerBuiltins installs all DSL builtins into a zygomys environment.
// The builtins populate the provided builder during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (stripboard :width 12 :height 8 :strips :horizontal)
	// -----------------------------------------------------------------------
	env.AddFunction("stripboard", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["width"]; ok {
			w, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stripboard: width: %w", err)
			}
			b.board.Width = w
		}
		if v, ok := pa.kw["height"]; ok {
			h, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stripboard: height: %w", err)
			}
			b.board.Height = h
		}
		if v, ok := pa.kw["strips"]; ok {
			d, err := toStripDirection(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stripboard: strips: %w", err)
			}
			b.board.Dir = d
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (resistor "R1" :max-length 3)
	// (capacitor "C1" :max-length 2 :vertical-only true)
	// (leaded "D1" :max-length 2 :color "#ff8800")
	// -----------------------------------------------------------------------
	leadedForm := func(form string, build func(string, int, part.LeadedOpts) (*part.Type, error)) {
		env.AddFunction(form, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a label argument", form)
			}
			label, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: label: %w", form, err)
			}
			maxLength, opts, err := leadedOpts(pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %q: %w", form, label, err)
			}
			typ, err := build(label, maxLength, opts)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			b.parts = append(b.parts, part.Instance{Label: label, Type: typ})
			return &sexpPartRef{label: label}, nil
		})
	}
	leadedForm("resistor", part.Resistor)
	leadedForm("capacitor", part.Capacitor)
	leadedForm("leaded", part.Leaded)

	// -----------------------------------------------------------------------
	// (dip "U1" :pins 8 :row-spacing 3)
	// -----------------------------------------------------------------------
	env.AddFunction("dip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("dip requires a label argument")
		}
		label, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dip: label: %w", err)
		}

		pins := 0
		if v, ok := pa.kw["pins"]; ok {
			pins, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("dip %q: pins: %w", label, err)
			}
		}
		spacing := 2
		if v, ok := pa.kw["row-spacing"]; ok {
			spacing, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("dip %q: row-spacing: %w", label, err)
			}
		}

		typ, err := part.DIP(label, pins, spacing)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dip: %w", err)
		}
		b.parts = append(b.parts, part.Instance{Label: label, Type: typ})
		return &sexpPartRef{label: label}, nil
	})

	// -----------------------------------------------------------------------
	// (pin "R1" 1) or (pin r1 1), pin numbers are 1-based
	// -----------------------------------------------------------------------
	env.AddFunction("pin", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pin requires a component and a pin number, got %d arguments", len(args))
		}

		var label string
		switch v := args[0].(type) {
		case *sexpPartRef:
			label = v.label
		default:
			s, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pin: component: %w", err)
			}
			label = s
		}

		n, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pin: number: %w", err)
		}
		if n < 1 {
			return zygo.SexpNull, fmt.Errorf("pin: numbers are 1-based, got %d", n)
		}

		return &sexpPin{term: netlist.Terminal{Instance: label, Pin: n - 1}}, nil
	})

	// -----------------------------------------------------------------------
	// (net (pin "R1" 2) (pin "R2" 1) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("net", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var n netlist.Net
		for i, arg := range args {
			p, ok := arg.(*sexpPin)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("net: argument %d: expected pin, got %T (%s)",
					i+1, arg, arg.SexpString(nil))
			}
			n = append(n, p.term)
		}
		b.nets = append(b.nets, n)
		return &sexpNetRef{index: len(b.nets) - 1, size: len(n)}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds :max-drilled 2 :max-jumpers :unbounded :max-jumper-length 3
	//         :first-only true)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["max-drilled"]; ok {
			n, err := toBound(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: max-drilled: %w", err)
			}
			b.bounds.MaxDrilled = n
		}
		if v, ok := pa.kw["max-jumpers"]; ok {
			n, err := toBound(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: max-jumpers: %w", err)
			}
			b.bounds.MaxJumpers = n
		}
		if v, ok := pa.kw["max-jumper-length"]; ok {
			n, err := toBound(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: max-jumper-length: %w", err)
			}
			b.bounds.MaxJumperLength = n
		}
		if v, ok := pa.kw["first-only"]; ok {
			f, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: first-only: %w", err)
			}
			b.bounds.FirstOnly = f
		}

		return zygo.SexpNull, nil
	})
}
