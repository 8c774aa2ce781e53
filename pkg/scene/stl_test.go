package scene

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/chazu/veroplace/pkg/kernel"
)

func TestWriteSTL(t *testing.T) {
	// Two triangles forming a unit quad.
	m := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
		PartName: "quad",
	}

	var buf bytes.Buffer
	if err := WriteSTL(&buf, []*kernel.Mesh{m, m}); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}

	data := buf.Bytes()
	// 80-byte header + count + 4 triangles of 50 bytes each.
	wantLen := 80 + 4 + 4*50
	if len(data) != wantLen {
		t.Fatalf("STL length = %d, want %d", len(data), wantLen)
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	if count != 4 {
		t.Errorf("triangle count = %d, want 4", count)
	}
	// First triangle record: 12-byte normal at 84, then three vertices.
	var x float32
	if err := binary.Read(bytes.NewReader(data[96:100]), binary.LittleEndian, &x); err != nil {
		t.Fatal(err)
	}
	if x != 0 {
		t.Errorf("first vertex x = %f, want 0", x)
	}
	// Second vertex of the first triangle is mesh vertex 1 at (1,0,0).
	if err := binary.Read(bytes.NewReader(data[108:112]), binary.LittleEndian, &x); err != nil {
		t.Fatal(err)
	}
	if x != 1 {
		t.Errorf("second vertex x = %f, want 1", x)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSTL(&buf, nil); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	if buf.Len() != 84 {
		t.Errorf("empty STL length = %d, want 84", buf.Len())
	}
}
