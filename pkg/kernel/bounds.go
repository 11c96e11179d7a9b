package kernel

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
)

// ErrNoSTL is returned by kernels that cannot produce STL output.
var ErrNoSTL = errors.New("kernel: STL output not supported")

// boundsSolid is an axis-aligned box standing in for a real solid.
type boundsSolid struct {
	min, max [3]float64
}

func (s *boundsSolid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

// BoundsKernel tracks only axis-aligned bounding boxes. It is cheap enough to
// build the whole assembly graph without solid modelling, which is all the
// graph, report and placement commands need.
type BoundsKernel struct{}

// Compile-time interface check.
var _ Kernel = (*BoundsKernel)(nil)

// NewBoundsKernel returns a bounding-box-only kernel.
func NewBoundsKernel() *BoundsKernel {
	return &BoundsKernel{}
}

func bounds(s Solid) *boundsSolid {
	min, max := s.BoundingBox()
	return &boundsSolid{min: min, max: max}
}

func (k *BoundsKernel) Box(x, y, z float64) Solid {
	return &boundsSolid{
		min: [3]float64{-x / 2, -y / 2, -z / 2},
		max: [3]float64{x / 2, y / 2, z / 2},
	}
}

func (k *BoundsKernel) Cylinder(height, radius float64) Solid {
	return &boundsSolid{
		min: [3]float64{-radius, -radius, -height / 2},
		max: [3]float64{radius, radius, height / 2},
	}
}

func (k *BoundsKernel) Union(a, b Solid) Solid {
	x, y := bounds(a), bounds(b)
	out := &boundsSolid{}
	for i := 0; i < 3; i++ {
		out.min[i] = math.Min(x.min[i], y.min[i])
		out.max[i] = math.Max(x.max[i], y.max[i])
	}
	return out
}

// Difference keeps the minuend's bounds.
func (k *BoundsKernel) Difference(a, _ Solid) Solid {
	return bounds(a)
}

func (k *BoundsKernel) Intersection(a, b Solid) Solid {
	x, y := bounds(a), bounds(b)
	out := &boundsSolid{}
	for i := 0; i < 3; i++ {
		out.min[i] = math.Max(x.min[i], y.min[i])
		out.max[i] = math.Min(x.max[i], y.max[i])
		if out.max[i] < out.min[i] {
			out.max[i] = out.min[i]
		}
	}
	return out
}

func (k *BoundsKernel) Transform(s Solid, t geom.Transform) Solid {
	b := bounds(s)
	out := &boundsSolid{}
	for i := 0; i < 8; i++ {
		corner := v3.Vec{X: b.min[0], Y: b.min[1], Z: b.min[2]}
		if i&1 != 0 {
			corner.X = b.max[0]
		}
		if i&2 != 0 {
			corner.Y = b.max[1]
		}
		if i&4 != 0 {
			corner.Z = b.max[2]
		}
		p := t.Apply(corner)
		c := [3]float64{p.X, p.Y, p.Z}
		for a := 0; a < 3; a++ {
			if i == 0 || c[a] < out.min[a] {
				out.min[a] = c[a]
			}
			if i == 0 || c[a] > out.max[a] {
				out.max[a] = c[a]
			}
		}
	}
	return out
}

func (k *BoundsKernel) Mirror(s Solid, p Plane) Solid {
	b := bounds(s)
	axis := 2
	switch p {
	case PlaneXZ:
		axis = 1
	case PlaneYZ:
		axis = 0
	}
	b.min[axis], b.max[axis] = -b.max[axis], -b.min[axis]
	return b
}

// ToMesh returns the 12-triangle mesh of the bounding box.
func (k *BoundsKernel) ToMesh(s Solid) (*Mesh, error) {
	b := bounds(s)
	m := &Mesh{}
	corner := func(i int) [3]float32 {
		c := [3]float32{float32(b.min[0]), float32(b.min[1]), float32(b.min[2])}
		if i&1 != 0 {
			c[0] = float32(b.max[0])
		}
		if i&2 != 0 {
			c[1] = float32(b.max[1])
		}
		if i&4 != 0 {
			c[2] = float32(b.max[2])
		}
		return c
	}
	// Each face as two triangles over corner indices, with its outward normal.
	faces := []struct {
		quad   [4]int
		normal [3]float32
	}{
		{[4]int{0, 2, 3, 1}, [3]float32{0, 0, -1}},
		{[4]int{4, 5, 7, 6}, [3]float32{0, 0, 1}},
		{[4]int{0, 1, 5, 4}, [3]float32{0, -1, 0}},
		{[4]int{2, 6, 7, 3}, [3]float32{0, 1, 0}},
		{[4]int{0, 4, 6, 2}, [3]float32{-1, 0, 0}},
		{[4]int{1, 3, 7, 5}, [3]float32{1, 0, 0}},
	}
	for _, f := range faces {
		for _, tri := range [][3]int{{0, 1, 2}, {0, 2, 3}} {
			for _, q := range tri {
				c := corner(f.quad[q])
				m.Vertices = append(m.Vertices, c[0], c[1], c[2])
				m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
				m.Indices = append(m.Indices, uint32(len(m.Indices)))
			}
		}
	}
	return m, nil
}

func (k *BoundsKernel) SaveSTL(Solid, string) error {
	return ErrNoSTL
}
