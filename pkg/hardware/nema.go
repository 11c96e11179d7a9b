package hardware

import (
	"math"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Nema is a NEMA-frame stepper motor. The body is a Width x Height x Width
// block with the shaft leaving the +Y face.
type Nema struct {
	Width         float64 `json:"width" yaml:"width"`
	Height        float64 `json:"height" yaml:"height"`
	ShaftDiameter float64 `json:"shaft_diameter" yaml:"shaft_diameter"`
	ShaftHeight   float64 `json:"shaft_height" yaml:"shaft_height"`
	MountRadius   float64 `json:"mount_radius" yaml:"mount_radius"`
	MountWall     float64 `json:"mount_wall" yaml:"mount_wall"`
	MountBolt     Bolt    `json:"mount_bolt" yaml:"mount_bolt"`
}

// Nema17 returns the NEMA17 preset.
func Nema17() Nema {
	return Nema{
		Width:         44,
		Height:        44,
		ShaftDiameter: 5,
		ShaftHeight:   22,
		MountRadius:   22,
		MountWall:     3,
		MountBolt:     BoltM(3),
	}
}

// Shaft returns the shaft (radius, height).
func (n Nema) Shaft() [2]float64 {
	return [2]float64{n.ShaftDiameter / 2, n.ShaftHeight}
}

// Part builds the stepper. Joint "axis" sits on the shaft face.
func (n Nema) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	body := k.Box(n.Width, n.Height, n.Width)
	shaft := kernel.CylinderY(k, 0, n.Height/2, 0, n.ShaftHeight, n.ShaftDiameter/2)
	solid := k.Union(body, shaft)
	for i := 0; i < 4; i++ {
		a := geom.Radians(45 + 90*float64(i))
		x, z := n.MountRadius*math.Cos(a), n.MountRadius*math.Sin(a)
		hole := kernel.CylinderY(k, x, 0, z, n.Height, n.MountBolt.Shaft[0])
		solid = k.Difference(solid, hole)
	}
	shaftDims := n.Shaft()
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"width":        {n.Width},
			"height":       {n.Height},
			"shaft":        shaftDims[:],
			"mount_radius": {n.MountRadius},
			"mount_wall":   {n.MountWall},
		},
		solid,
		assembly.RigidJoint("axis", geom.At(0, n.Height/2, 0)),
	)
}
