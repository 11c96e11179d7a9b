// Package kernel defines the abstract geometry kernel interface used by the
// part generators. Parts hold kernel solids as opaque geometry handles; only
// the generators and the export adapters ever call into a kernel.
package kernel

import "github.com/ezrec/3dp-wilbur/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Plane selects a mirror plane through the origin.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	default:
		return "unknown"
	}
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered on the origin. Cylinders run along Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Rigid placement and mirroring
	Transform(s Solid, t geom.Transform) Solid
	Mirror(s Solid, p Plane) Solid

	// Output
	ToMesh(s Solid) (*Mesh, error)
	SaveSTL(s Solid, path string) error
}

// BoxAt returns a box whose minimum corner sits at (x0, y0, z0).
func BoxAt(k Kernel, x0, y0, z0, x, y, z float64) Solid {
	return k.Transform(k.Box(x, y, z), geom.At(x0+x/2, y0+y/2, z0+z/2))
}

// CylinderAt returns a Z-axis cylinder whose base is centered on (x, y, z0).
func CylinderAt(k Kernel, x, y, z0, height, radius float64) Solid {
	return k.Transform(k.Cylinder(height, radius), geom.At(x, y, z0+height/2))
}

// UnionAll folds solids with Union. It returns nil for an empty list.
func UnionAll(k Kernel, solids ...Solid) Solid {
	var out Solid
	for _, s := range solids {
		if s == nil {
			continue
		}
		if out == nil {
			out = s
			continue
		}
		out = k.Union(out, s)
	}
	return out
}

// CylinderX returns a cylinder along +X whose base is centered on (x0, y, z).
func CylinderX(k Kernel, x0, y, z, length, radius float64) Solid {
	c := k.Transform(k.Cylinder(length, radius), geom.Rotation(0, 90, 0))
	return k.Transform(c, geom.At(x0+length/2, y, z))
}

// CylinderY returns a cylinder along +Y whose base is centered on (x, y0, z).
func CylinderY(k Kernel, x, y0, z, length, radius float64) Solid {
	c := k.Transform(k.Cylinder(length, radius), geom.Rotation(-90, 0, 0))
	return k.Transform(c, geom.At(x, y0+length/2, z))
}
