package main

import (
	"bytes"
	"context"
	"errors"
	"log"

	"github.com/chazu/veroplace/pkg/engine"
	"github.com/chazu/veroplace/pkg/kernel"
	"github.com/chazu/veroplace/pkg/kernel/sdfx"
	"github.com/chazu/veroplace/pkg/placer"
	"github.com/chazu/veroplace/pkg/render"
	"github.com/chazu/veroplace/pkg/scene"
)

// defaultSolutionLimit caps how many solutions one Solve call collects
// when the frontend does not ask for a specific count.
const defaultSolutionLimit = 10

const (
	boardColor  = "#2E8B57"
	jumperColor = "#555555"
)

// colorPalette assigns colors to meshes whose part has none of its own.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SolveResult is the full result returned to the frontend: the
// solutions found, an SVG rendering of all of them, a 3D scene of the
// first one, plus any DSL errors or problem-validation findings.
type SolveResult struct {
	Solutions []placer.Solution `json:"solutions"`
	SVG       string            `json:"svg"`
	Meshes    []MeshData        `json:"meshes"`
	Errors    []EvalErrorData   `json:"errors"`
	Findings  []string          `json:"findings"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Solve takes Lisp source describing a board problem, searches for
// layouts, and returns up to limit solutions with renderings. This is
// the primary binding called by the frontend editor.
func (a *App) Solve(source string, limit int) SolveResult {
	result := SolveResult{
		Solutions: []placer.Solution{},
		Meshes:    []MeshData{},
		Errors:    []EvalErrorData{},
		Findings:  []string{},
	}
	if limit <= 0 {
		limit = defaultSolutionLimit
	}

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Solve fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	if len(p.Instances) == 0 {
		// Empty source evaluates to an empty problem; nothing to solve.
		return result
	}

	s, err := placer.New(*p)
	if err != nil {
		var cfg *placer.ConfigError
		if errors.As(err, &cfg) {
			result.Findings = append(result.Findings, cfg.Findings...)
		} else {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		}
		return result
	}

	for sol := range s.Solutions() {
		result.Solutions = append(result.Solutions, sol)
		if len(result.Solutions) >= limit {
			break
		}
	}
	if len(result.Solutions) == 0 {
		return result
	}

	var buf bytes.Buffer
	render.WriteSVG(&buf, *p, result.Solutions)
	result.SVG = buf.String()

	meshes, err := scene.Build(*p, result.Solutions[0], a.kernel)
	if err != nil {
		log.Printf("scene build error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "scene build failed: " + err.Error(),
		})
		return result
	}
	colors := meshColors(*p, result.Solutions[0])
	for i, m := range meshes {
		color, ok := colors[m.PartName]
		if !ok {
			color = colorPalette[i%len(colorPalette)]
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    color,
		})
	}

	return result
}

// meshColors maps scene part names to display colors: the board and
// jumpers get fixed colors, instances their component type's color.
func meshColors(p placer.Problem, sol placer.Solution) map[string]string {
	colors := map[string]string{scene.BoardPartName: boardColor}
	for _, inst := range p.Instances {
		if inst.Type != nil && inst.Type.Color != "" {
			colors[inst.Label] = inst.Type.Color
		}
	}
	for _, j := range sol.Jumpers {
		colors[j.String()] = jumperColor
	}
	return colors
}
