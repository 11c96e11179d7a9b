package hardware

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// VSlot is a 20x20 V-slot aluminium extrusion running along +Z from Z=0.
type VSlot struct {
	Length  float64 `json:"length" yaml:"length"`
	XOffset float64 `json:"x_offset" yaml:"x_offset"`
	Bolt    Bolt    `json:"bolt" yaml:"bolt"`
}

// VSlot2020 returns a 2020 extrusion of the given length.
func VSlot2020(length float64) VSlot {
	return VSlot{
		Length:  length,
		XOffset: -4.2 / 2,
		Bolt:    BoltM(4),
	}
}

// Faces are the slot faces in joint declaration order.
var Faces = []string{"north", "south", "east", "west"}

// SecondNut returns the label of the second T-nut joint on a face.
func SecondNut(face string) string {
	return face + "_2"
}

// Part builds the extrusion. Each face slot carries two T-nut joints, the
// face name and SecondNut(face), both sliding the full length. "left" and
// "right" are the end faces.
func (s VSlot) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	const (
		half      = 10.0
		slotWidth = 6.2
		slotDepth = 6.0
	)
	solid := kernel.BoxAt(k, s.XOffset-half, -half, 0, 2*half, 2*half, s.Length)
	solid = k.Difference(solid, kernel.BoxAt(k, s.XOffset-slotWidth/2, half-slotDepth, 0, slotWidth, slotDepth, s.Length))
	solid = k.Difference(solid, kernel.BoxAt(k, s.XOffset-slotWidth/2, -half, 0, slotWidth, slotDepth, s.Length))
	solid = k.Difference(solid, kernel.BoxAt(k, s.XOffset+half-slotDepth, -slotWidth/2, 0, slotDepth, slotWidth, s.Length))
	solid = k.Difference(solid, kernel.BoxAt(k, s.XOffset-half, -slotWidth/2, 0, slotDepth, slotWidth, s.Length))

	origins := map[string]v3.Vec{
		"north": {X: s.XOffset, Y: half, Z: s.Length / 2},
		"south": {X: s.XOffset, Y: -half, Z: s.Length / 2},
		"east":  {X: s.XOffset + half, Z: s.Length / 2},
		"west":  {X: s.XOffset - half, Z: s.Length / 2},
	}
	travel := assembly.Symmetric(s.Length / 2)
	var decls []assembly.JointDecl
	for _, face := range Faces {
		frame := geom.AxisFrame(origins[face], v3.Vec{Z: 1})
		decls = append(decls,
			assembly.LinearJoint(face, frame, travel),
			assembly.LinearJoint(SecondNut(face), frame, travel),
		)
	}
	decls = append(decls,
		assembly.RigidJoint("left", geom.Location(v3.Vec{X: s.XOffset}, v3.Vec{X: 90})),
		assembly.RigidJoint("right", geom.Location(v3.Vec{X: s.XOffset, Z: s.Length}, v3.Vec{X: 90})),
	)
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"length":   {s.Length},
			"x_offset": {s.XOffset},
		},
		solid,
		decls...,
	)
}
