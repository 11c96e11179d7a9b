package hardware

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// LinearRail is a profiled linear guide rail running along +Z from Z=0,
// with its top face on Y=0 and its base on Y=-Height.
type LinearRail struct {
	Height      float64 `json:"height" yaml:"height"`
	Length      float64 `json:"length" yaml:"length"`
	BoltSpacing float64 `json:"bolt_spacing" yaml:"bolt_spacing"`
	Bolt        Bolt    `json:"bolt" yaml:"bolt"`
}

// HSR15 returns a 15 mm rail of the given length.
func HSR15(length float64) LinearRail {
	return LinearRail{
		Height:      15,
		Length:      length,
		BoltSpacing: 60,
		Bolt:        BoltM(4),
	}
}

// BoltHoles returns the number of mounting holes along the rail.
func (r LinearRail) BoltHoles() int {
	return int(math.Floor(r.Length/r.BoltSpacing)) + 1
}

// BoltOffset returns the distance from either end to the nearest hole.
func (r LinearRail) BoltOffset() float64 {
	return (r.Length - float64(r.BoltHoles()-1)*r.BoltSpacing) / 2
}

// Part builds the rail. "left" and "right" sit under the end holes, "slide"
// carries a pillow block along the full length.
func (r LinearRail) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	h := r.Height
	solid := kernel.BoxAt(k, -h/2, -h, 0, h, h, r.Length)
	offset := r.BoltOffset()
	for i := 0; i < r.BoltHoles(); i++ {
		z := offset + float64(i)*r.BoltSpacing
		solid = k.Difference(solid, kernel.CylinderY(k, 0, -h, z, h, r.Bolt.Shaft[0]))
		solid = k.Difference(solid, kernel.CylinderY(k, 0, -r.Bolt.Head[1], z, r.Bolt.Head[1], r.Bolt.Head[0]))
	}
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"size":         {h, h},
			"length":       {r.Length},
			"bolt_spacing": {r.BoltSpacing},
			"bolt_offset":  {offset},
		},
		solid,
		assembly.RigidJoint("left", geom.At(0, -h, offset)),
		assembly.RigidJoint("right", geom.At(0, -h, r.Length-offset)),
		assembly.LinearJoint("slide",
			geom.AxisFrame(v3.Vec{Z: r.Length / 2}, v3.Vec{Z: 1}),
			assembly.Symmetric(r.Length/2)),
	)
}

// LinearPillow is the carriage block riding a LinearRail. Its origin sits on
// the rail's top face; Offset is the height of the mounting face above it.
type LinearPillow struct {
	Width       float64    `json:"width" yaml:"width"`
	Length      float64    `json:"length" yaml:"length"`
	Height      float64    `json:"height" yaml:"height"`
	Offset      float64    `json:"offset" yaml:"offset"`
	BoltPattern [2]float64 `json:"bolt_pattern" yaml:"bolt_pattern"`
	Mount       [2]float64 `json:"mount" yaml:"mount"`
	Bolt        Bolt       `json:"bolt" yaml:"bolt"`
}

// HSR15Pillow returns the pillow block matching HSR15.
func HSR15Pillow() LinearPillow {
	return LinearPillow{
		Width:       34,
		Length:      60,
		Height:      24,
		Offset:      13,
		BoltPattern: [2]float64{26, 26},
		Mount:       [2]float64{34, 39.6},
		Bolt:        BoltM(4),
	}
}

// Part builds the pillow. "mount" and "mount_lower" share the centre of the
// mounting face so an upper and a lower carriage can both bolt to it.
func (p LinearPillow) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	const topInset = 4.6
	base := p.Offset - p.Height
	solid := kernel.UnionAll(k,
		kernel.BoxAt(k, -p.Width/2, base, -p.Length/2, p.Width, p.Height-topInset, p.Length),
		kernel.BoxAt(k, -p.Width/2, p.Offset-topInset, -p.Mount[1]/2, p.Width, topInset, p.Mount[1]),
	)
	// Channel over the rail head.
	solid = k.Difference(solid, kernel.BoxAt(k, -7.5, base, -p.Length/2, 15, -base, p.Length))
	for _, x := range []float64{-p.BoltPattern[0] / 2, p.BoltPattern[0] / 2} {
		for _, z := range []float64{-p.BoltPattern[1] / 2, p.BoltPattern[1] / 2} {
			hole := kernel.CylinderY(k, x, 0, z, p.Offset, p.Bolt.Shaft[0])
			solid = k.Difference(solid, hole)
		}
	}
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"size":          {p.Width, p.Length},
			"mount":         p.Mount[:],
			"mount_pattern": p.BoltPattern[:],
			"offset":        {p.Offset},
		},
		solid,
		assembly.RigidJoint("slide", geom.Identity()),
		assembly.RigidJoint("mount", geom.At(0, p.Offset, 0)),
		assembly.RigidJoint("mount_lower", geom.At(0, p.Offset, 0)),
	)
}
