package hardware

import (
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Bearing is a pillow-block linear bearing riding a rod along X. Size is the
// (width, length) footprint, Mount the height of the mounting face above the
// rod axis and MountPattern the bolt spacing on that face.
type Bearing struct {
	Mount        float64    `json:"mount" yaml:"mount"`
	Size         [2]float64 `json:"size" yaml:"size"`
	Bolt         Bolt       `json:"bolt" yaml:"bolt"`
	MountPattern [2]float64 `json:"mount_pattern" yaml:"mount_pattern"`
}

// SC8UU returns the SC8UU 8 mm rod bearing.
func SC8UU() Bearing {
	return Bearing{
		Mount:        11,
		Size:         [2]float64{34, 30},
		Bolt:         BoltM(4),
		MountPattern: [2]float64{18, 24},
	}
}

// Part builds the bearing. "slide" aligns with a rod's slide axis and
// "mount" is the centre of the bolting face.
func (b Bearing) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	solid := k.Box(b.Size[1], b.Size[0], b.Mount*2)
	for _, x := range []float64{-b.MountPattern[1] / 2, b.MountPattern[1] / 2} {
		for _, y := range []float64{-b.MountPattern[0] / 2, b.MountPattern[0] / 2} {
			hole := kernel.CylinderAt(k, x, y, 0, b.Mount, b.Bolt.Shaft[0])
			solid = k.Difference(solid, hole)
		}
	}
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"mount":         {b.Mount},
			"size":          b.Size[:],
			"mount_pattern": b.MountPattern[:],
		},
		solid,
		assembly.RigidJoint("slide", geom.Rotation(0, 90, 0)),
		assembly.RigidJoint("mount", geom.At(0, 0, b.Mount)),
	)
}
