package scene

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chazu/veroplace/pkg/kernel"
)

// WriteSTL writes the meshes as one binary STL solid. STL carries bare
// triangles, so part names and per-vertex normals are flattened away;
// each triangle gets its first vertex's normal.
func WriteSTL(w io.Writer, meshes []*kernel.Mesh) error {
	total := 0
	for _, m := range meshes {
		total += m.TriangleCount()
	}

	var header [80]byte
	copy(header[:], "veroplace layout")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(total)); err != nil {
		return err
	}

	var tri [12]float32
	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			i0 := m.Indices[t*3]
			tri[0] = m.Normals[i0*3]
			tri[1] = m.Normals[i0*3+1]
			tri[2] = m.Normals[i0*3+2]
			for v := 0; v < 3; v++ {
				iv := m.Indices[t*3+v]
				tri[3+v*3] = m.Vertices[iv*3]
				tri[4+v*3] = m.Vertices[iv*3+1]
				tri[5+v*3] = m.Vertices[iv*3+2]
			}
			if err := binary.Write(w, binary.LittleEndian, tri); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
				return fmt.Errorf("writing triangle attributes: %w", err)
			}
		}
	}
	return nil
}
