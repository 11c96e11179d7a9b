// Package geom provides rigid-body transforms for placing parts in space.
// A Transform wraps an sdfx 4x4 homogeneous matrix; composition reads left to
// right, so a.Mul(b) applies b first and then a.
package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tolerance is the default length/angle tolerance used when comparing transforms.
const Tolerance = 1e-6

// Transform is a rigid placement (rotation followed by translation).
type Transform struct {
	m sdf.M44
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: sdf.Identity3d()}
}

// FromM44 wraps an existing sdfx matrix.
func FromM44(m sdf.M44) Transform {
	return Transform{m: m}
}

// Translation returns a pure translation by v.
func Translation(v v3.Vec) Transform {
	return Transform{m: sdf.Translate3d(v)}
}

// Rotation returns a rotation in degrees about the X, Y and Z axes, applied
// intrinsically in X, Y, Z order.
func Rotation(x, y, z float64) Transform {
	m := sdf.RotateX(Radians(x)).Mul(sdf.RotateY(Radians(y))).Mul(sdf.RotateZ(Radians(z)))
	return Transform{m: m}
}

// Location returns a transform placing a frame at pos with the given
// intrinsic XYZ rotation in degrees.
func Location(pos v3.Vec, rot v3.Vec) Transform {
	return Translation(pos).Mul(Rotation(rot.X, rot.Y, rot.Z))
}

// At is shorthand for a translation-only Location.
func At(x, y, z float64) Transform {
	return Translation(v3.Vec{X: x, Y: y, Z: z})
}

// AxisFrame returns a frame at origin whose local Z axis points along dir.
// Motion joints slide along and rotate about the Z axis of their frame.
func AxisFrame(origin, dir v3.Vec) Transform {
	z := v3.Vec{X: 0, Y: 0, Z: 1}
	d := dir.Normalize()
	cos := z.Dot(d)
	var rot sdf.M44
	switch {
	case cos > 1-Tolerance:
		rot = sdf.Identity3d()
	case cos < -1+Tolerance:
		rot = sdf.RotateX(math.Pi)
	default:
		rot = sdf.Rotate3d(z.Cross(d), math.Acos(cos))
	}
	return Transform{m: sdf.Translate3d(origin).Mul(rot)}
}

// Mul returns the composition t * o (o is applied first).
func (t Transform) Mul(o Transform) Transform {
	return Transform{m: t.m.Mul(o.m)}
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	return Transform{m: t.m.Inverse()}
}

// Apply transforms the point p.
func (t Transform) Apply(p v3.Vec) v3.Vec {
	return t.m.MulPosition(p)
}

// Position returns the translation component.
func (t Transform) Position() v3.Vec {
	return t.m.MulPosition(v3.Vec{})
}

// Axes returns the images of the unit X, Y and Z directions.
func (t Transform) Axes() (x, y, z v3.Vec) {
	o := t.Position()
	x = t.m.MulPosition(v3.Vec{X: 1}).Sub(o)
	y = t.m.MulPosition(v3.Vec{Y: 1}).Sub(o)
	z = t.m.MulPosition(v3.Vec{Z: 1}).Sub(o)
	return x, y, z
}

// M44 returns the underlying sdfx matrix.
func (t Transform) M44() sdf.M44 {
	return t.m
}

// ApproxEqual reports whether t and o move the origin and the unit axes to
// the same points within tol.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	return t.Distance(o) <= tol
}

// Distance is the largest displacement between t and o over the origin and
// the three unit points.
func (t Transform) Distance(o Transform) float64 {
	probes := []v3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	var d float64
	for _, p := range probes {
		d = math.Max(d, t.Apply(p).Sub(o.Apply(p)).Length())
	}
	return d
}

func (t Transform) String() string {
	p := t.Position()
	_, _, z := t.Axes()
	return fmt.Sprintf("at(%.3f, %.3f, %.3f) z(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z, z.X, z.Y, z.Z)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
