package kernel

import "testing"

// A quad split into two triangles, roughly a board slab face.
var slabFace = &Mesh{
	PartName: "board",
	Vertices: []float32{0, 0, 0, 10, 0, 0, 10, 7.62, 0, 0, 7.62, 0},
	Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
	Indices:  []uint32{0, 1, 2, 2, 3, 0},
}

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
		want int
	}{
		{"empty", &Mesh{}, 0},
		{"single lead tip", &Mesh{Vertices: []float32{1.27, 1.27, 5.6}}, 1},
		{"slab face", slabFace, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
		want int
	}{
		{"empty", &Mesh{}, 0},
		{"one triangle", &Mesh{Indices: []uint32{0, 1, 2}}, 1},
		{"slab face", slabFace, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if !(&Mesh{PartName: "R1"}).IsEmpty() {
		t.Error("a mesh with only a part name is still empty")
	}
	if slabFace.IsEmpty() {
		t.Error("IsEmpty() = true for slab face, want false")
	}
}

// aabbSolid carries only a bounding box. It stands in for a real CSG
// handle so the interface contract can be exercised without a
// tessellation backend.
type aabbSolid struct {
	min, max [3]float64
}

func (s *aabbSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

// aabbKernel models every operation on bounding boxes alone. Booleans
// keep the first operand's box, which is enough for the contract
// checks below.
type aabbKernel struct{}

func (k *aabbKernel) Box(x, y, z float64) Solid {
	return &aabbSolid{max: [3]float64{x, y, z}}
}

func (k *aabbKernel) Cylinder(height, radius float64, _ int) Solid {
	return &aabbSolid{
		min: [3]float64{-radius, -radius, -height / 2},
		max: [3]float64{radius, radius, height / 2},
	}
}

func (k *aabbKernel) Union(a, _ Solid) Solid        { return a }
func (k *aabbKernel) Difference(a, _ Solid) Solid   { return a }
func (k *aabbKernel) Intersection(a, _ Solid) Solid { return a }

func (k *aabbKernel) Translate(s Solid, x, y, z float64) Solid {
	min, max := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		min[i] += d[i]
		max[i] += d[i]
	}
	return &aabbSolid{min: min, max: max}
}

func (k *aabbKernel) Rotate(s Solid, _, _, _ float64) Solid { return s }

func (k *aabbKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*aabbSolid)(nil)
var _ Kernel = (*aabbKernel)(nil)

// Boxes are corner-origin. The scene builder relies on that when it
// positions the slab and component bodies by translation.
func TestBoxIsCornerOrigin(t *testing.T) {
	var k Kernel = &aabbKernel{}
	s := k.Box(25.4, 12.7, 1.6)
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{25.4, 12.7, 1.6} {
		t.Errorf("Box max = %v, want [25.4 12.7 1.6]", max)
	}
}

func TestTranslateShiftsBoundingBox(t *testing.T) {
	var k Kernel = &aabbKernel{}
	body := k.Translate(k.Box(2.54, 2.54, 4), 1.27, 1.27, 1.6)
	min, max := body.BoundingBox()
	if min != [3]float64{1.27, 1.27, 1.6} {
		t.Errorf("translated min = %v, want [1.27 1.27 1.6]", min)
	}
	if max != [3]float64{3.81, 3.81, 5.6} {
		t.Errorf("translated max = %v, want [3.81 3.81 5.6]", max)
	}
}

func TestKernelToMesh(t *testing.T) {
	var k Kernel = &aabbKernel{}
	m, err := k.ToMesh(k.Box(1, 1, 1))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("aabb kernel meshes carry no geometry")
	}
}
