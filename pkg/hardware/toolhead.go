package hardware

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// HermitCrab is the quick-change tool head. Only its envelope is modelled.
type HermitCrab struct {
	Size     [3]float64 `json:"size" yaml:"size"`
	MountAt  [3]float64 `json:"mount_at" yaml:"mount_at"`
	MountRot float64    `json:"mount_rot" yaml:"mount_rot"`
}

// NewHermitCrab returns the stock Hermit Crab carrier envelope.
func NewHermitCrab() HermitCrab {
	return HermitCrab{
		Size:     [3]float64{59, 12, 48},
		MountAt:  [3]float64{29.5, 6, 24},
		MountRot: -90,
	}
}

// Part builds the tool head. "mount" is the centre of the carrier plate.
func (h HermitCrab) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	plate := kernel.BoxAt(k, 0, 0, 0, h.Size[0], h.Size[1], h.Size[2])
	hotend := kernel.CylinderAt(k, h.Size[0]/2, h.Size[1]+11, -20, h.Size[2], 11)
	mount := geom.Location(
		v3.Vec{X: h.MountAt[0], Y: h.MountAt[1], Z: h.MountAt[2]},
		v3.Vec{Z: h.MountRot})
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{"size": h.Size[:]},
		k.Union(plate, hotend),
		assembly.RigidJoint("mount", mount),
	)
}
