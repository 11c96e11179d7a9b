package hardware

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Rod is a smooth precision rod lying along X, centered on the origin.
type Rod struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Length float64 `json:"length" yaml:"length"`
}

// NewRod returns a rod of the given radius and length.
func NewRod(radius, length float64) Rod {
	return Rod{Radius: radius, Length: length}
}

// Shaft returns (radius, length).
func (r Rod) Shaft() [2]float64 {
	return [2]float64{r.Radius, r.Length}
}

// Part builds the rod. "left" and "right" are its ends; "slide" lets a
// bearing ride anywhere along its length at any angle.
func (r Rod) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	solid := kernel.CylinderX(k, -r.Length/2, 0, 0, r.Length, r.Radius)
	shaft := r.Shaft()
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{"shaft": shaft[:]},
		solid,
		assembly.RigidJoint("left", geom.At(-r.Length/2, 0, 0)),
		assembly.RigidJoint("right", geom.At(r.Length/2, 0, 0)),
		assembly.CylindricalJoint("slide",
			geom.AxisFrame(v3.Vec{}, v3.Vec{X: 1}),
			assembly.Symmetric(r.Length/2)),
	)
}
