// Package scene turns a solved board layout into triangle meshes for
// 3D preview. The board becomes a slab at standard 0.1" hole pitch
// with drilled holes bored out, each placed component a translucent
// body over its footprint, and each jumper a wire bridge. Geometry is
// built through the kernel interface so any backend can tessellate it.
package scene

import (
	"fmt"

	"github.com/chazu/veroplace/pkg/board"
	"github.com/chazu/veroplace/pkg/kernel"
	"github.com/chazu/veroplace/pkg/part"
	"github.com/chazu/veroplace/pkg/placer"
)

// All dimensions in millimeters.
const (
	pitch        = 2.54 // hole-to-hole spacing
	boardThick   = 1.6
	drillRadius  = 1.5 // radius of the drill bit used to cut traces
	bodyHeight   = 4.0
	bodyInset    = 0.3 // gap between a body and its cell boundary
	jumperWidth  = 1.0
	jumperHeight = 1.0
)

// BoardPartName is the PartName of the slab mesh.
const BoardPartName = "board"

// holeCenter maps a grid coordinate to the XY center of its hole.
func holeCenter(c board.Coord) (x, y float64) {
	return (float64(c.X) + 0.5) * pitch, (float64(c.Y) + 0.5) * pitch
}

// Build tessellates one solution of p. The first mesh is always the
// board slab, followed by one mesh per placed instance (PartName set
// to the instance label) and one per jumper.
func Build(p placer.Problem, sol placer.Solution, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if len(sol.Placements) != len(p.Instances) {
		return nil, fmt.Errorf("scene: %d placements for %d instances",
			len(sol.Placements), len(p.Instances))
	}

	meshes := make([]*kernel.Mesh, 0, 1+len(sol.Placements)+len(sol.Jumpers))

	slab, err := buildSlab(p.Board, sol.Drilled, k)
	if err != nil {
		return nil, err
	}
	meshes = append(meshes, slab)

	for i, pl := range sol.Placements {
		inst := p.Instances[i]
		m, err := buildBody(inst, pl, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}

	for _, j := range sol.Jumpers {
		m, err := buildJumper(j, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}

	return meshes, nil
}

// buildSlab builds the board as a box with a cylinder subtracted per
// drilled hole.
func buildSlab(bs placer.BoardSpec, drilled []board.Coord, k kernel.Kernel) (*kernel.Mesh, error) {
	slab := k.Box(float64(bs.Width)*pitch, float64(bs.Height)*pitch, boardThick)
	for _, d := range drilled {
		x, y := holeCenter(d)
		// Oversized in Z so the bore cuts cleanly through both faces.
		bit := k.Cylinder(boardThick*3, drillRadius, 32)
		slab = k.Difference(slab, k.Translate(bit, x, y, boardThick/2))
	}
	m, err := k.ToMesh(slab)
	if err != nil {
		return nil, fmt.Errorf("scene: board mesh: %w", err)
	}
	m.PartName = BoardPartName
	return m, nil
}

// buildBody builds a box over the bounding rectangle of the footprint,
// sitting on the component side of the board.
func buildBody(inst part.Instance, pl part.Placement, k kernel.Kernel) (*kernel.Mesh, error) {
	holes := pl.Holes(inst.Type)
	minX, minY := holes[0].X, holes[0].Y
	maxX, maxY := minX, minY
	for _, h := range holes[1:] {
		if h.X < minX {
			minX = h.X
		}
		if h.Y < minY {
			minY = h.Y
		}
		if h.X > maxX {
			maxX = h.X
		}
		if h.Y > maxY {
			maxY = h.Y
		}
	}

	w := float64(maxX-minX+1)*pitch - 2*bodyInset
	d := float64(maxY-minY+1)*pitch - 2*bodyInset
	body := k.Box(w, d, bodyHeight)
	body = k.Translate(body,
		float64(minX)*pitch+bodyInset,
		float64(minY)*pitch+bodyInset,
		boardThick)

	m, err := k.ToMesh(body)
	if err != nil {
		return nil, fmt.Errorf("scene: body mesh for %s: %w", inst.Label, err)
	}
	m.PartName = inst.Label
	return m, nil
}

// buildJumper builds a wire bridge between two hole centers. Jumper
// spans are axis aligned, so a single box covers the run.
func buildJumper(j placer.Jumper, k kernel.Kernel) (*kernel.Mesh, error) {
	ax, ay := holeCenter(j.A)
	bx, by := holeCenter(j.B)
	minX, maxX := ax, bx
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := ay, by
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	w := maxX - minX + jumperWidth
	d := maxY - minY + jumperWidth
	wire := k.Box(w, d, jumperHeight)
	wire = k.Translate(wire, minX-jumperWidth/2, minY-jumperWidth/2, boardThick)

	m, err := k.ToMesh(wire)
	if err != nil {
		return nil, fmt.Errorf("scene: jumper mesh for %s: %w", j, err)
	}
	m.PartName = j.String()
	return m, nil
}
