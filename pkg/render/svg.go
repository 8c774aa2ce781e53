// Package render draws solved board layouts as SVG documents: the hole
// grid and its traces, drilled holes, jumpers, and translucent component
// footprints with labelled terminals. Multiple solutions are stacked
// vertically in one document.
package render

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/placer"
)

const (
	lineWidth      = 1
	gridCell       = 60
	holeRadius     = 10
	terminalRadius = 20
	holeColor      = "#B0B0B0"
	traceColor     = "#B0B0B0"
	jumperColor    = "black"
	borderColor    = "black"
	crossColor     = "red"
	fontSize       = 10
	fontColor      = "black"
	fontFamily     = "Verdana"
	occupySize     = 40
	occupyOpacity  = "0.5"
	placementSep   = 30
	crossSize      = 40
	jumperWidth    = 2 * lineWidth
)

// center maps a grid coordinate to the pixel center of its cell.
func center(c board.Coord) (int, int) {
	return c.X*gridCell + gridCell/2, c.Y*gridCell + gridCell/2
}

func strokeStyle(color string, width int) string {
	return fmt.Sprintf(`stroke="%s" stroke-width="%d"`, color, width)
}

func ringStyle(color string) string {
	return strokeStyle(color, lineWidth) + ` fill="transparent"`
}

func textStyle() string {
	return fmt.Sprintf(`font-family="%s" font-size="%d" fill="%s"`, fontFamily, fontSize, fontColor)
}

// WriteSVG renders the given solutions of p into w, stacked vertically.
func WriteSVG(w io.Writer, p placer.Problem, sols []placer.Solution) {
	boardW := p.Board.Width * gridCell
	boardH := p.Board.Height * gridCell

	docW := boardW + placementSep
	docH := (boardH+placementSep)*len(sols) + placementSep

	canvas := svg.New(w)
	canvas.Start(docW, docH)

	b := board.New(p.Board.Width, p.Board.Height, p.Board.Dir)

	offset := placementSep / 2
	for _, sol := range sols {
		canvas.Gtransform(fmt.Sprintf("translate(%d %d)", placementSep/2, offset))
		drawSolution(canvas, b, p, sol)
		canvas.Gend()
		offset += boardH + placementSep
	}

	canvas.End()
}

func drawSolution(canvas *svg.SVG, b *board.Board, p placer.Problem, sol placer.Solution) {
	canvas.Rect(0, 0, b.Width*gridCell, b.Height*gridCell,
		`fill="transparent"`, strokeStyle(borderColor, lineWidth))

	for i := 0; i < b.Holes(); i++ {
		x, y := center(b.CoordAt(i))
		canvas.Circle(x, y, holeRadius, ringStyle(holeColor))
	}

	b.StripLinks(func(a, c board.Coord) {
		x1, y1 := center(a)
		x2, y2 := center(c)
		canvas.Line(x1, y1, x2, y2, strokeStyle(traceColor, lineWidth))
	})

	for _, d := range sol.Drilled {
		drawCross(canvas, d)
	}
	for _, j := range sol.Jumpers {
		x1, y1 := center(j.A)
		x2, y2 := center(j.B)
		canvas.Line(x1, y1, x2, y2, strokeStyle(jumperColor, jumperWidth))
	}

	for i, pl := range sol.Placements {
		inst := p.Instances[i]
		drawFootprint(canvas, inst.Type.Color, pl.Holes(inst.Type))
		for pin := 0; pin < inst.Type.Terminals; pin++ {
			x, y := center(pl.PinHole(inst.Type, pin))
			canvas.Circle(x, y, terminalRadius, ringStyle(inst.Type.Color))
			canvas.Text(x, y, strconv.Itoa(pin+1), textStyle())
		}
		drawLabel(canvas, inst.Label, pl.Holes(inst.Type))
	}
}

func drawCross(canvas *svg.SVG, c board.Coord) {
	x, y := center(c)
	r := crossSize / 2
	canvas.Line(x-r, y-r, x+r, y+r, strokeStyle(crossColor, lineWidth))
	canvas.Line(x+r, y-r, x-r, y+r, strokeStyle(crossColor, lineWidth))
}

// drawLabel puts the instance label at the top-left corner of the
// occupied region.
func drawLabel(canvas *svg.SVG, label string, holes []board.Coord) {
	minX, minY := holes[0].X, holes[0].Y
	for _, h := range holes[1:] {
		if h.X < minX {
			minX = h.X
		}
		if h.Y < minY {
			minY = h.Y
		}
	}
	canvas.Text(minX*gridCell, minY*gridCell+fontSize, label, textStyle())
}

// drawFootprint shades the cells a component occupies. Each cell is a
// 3x3 grid of rectangles; the outer ring is only filled toward
// neighboring cells of the same footprint, so the shaded region gets a
// margin along its outer edges.
func drawFootprint(canvas *svg.SVG, color string, holes []board.Coord) {
	occupied := make(map[board.Coord]bool, len(holes))
	for _, h := range holes {
		occupied[h] = true
	}
	fill := fmt.Sprintf(`fill="%s" fill-opacity="%s"`, color, occupyOpacity)

	for _, cell := range holes {
		left := cell.X * gridCell
		top := cell.Y * gridCell
		xs := [4]int{left, left + gridCell/2 - occupySize/2, left + gridCell/2 + occupySize/2, left + gridCell}
		ys := [4]int{top, top + gridCell/2 - occupySize/2, top + gridCell/2 + occupySize/2, top + gridCell}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if !occupied[board.Coord{X: cell.X + dx, Y: cell.Y + dy}] {
					continue
				}
				canvas.Rect(xs[1+dx], ys[1+dy], xs[2+dx]-xs[1+dx], ys[2+dy]-ys[1+dy], fill)
			}
		}
	}
}
