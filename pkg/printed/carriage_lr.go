package printed

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
)

const beltGripHeight = 13.75

// LROffset is where the bearing on the given rod sits relative to the tool
// centre line. The upper bearing is shifted one way and the lower the other
// so the two pillow blocks clear each other.
func LROffset(s stackup.Stackup, level Level) float64 {
	if level == Upper {
		return -s.Margins.GapRodPillow
	}
	return s.Margins.GapRodPillow
}

// CarriageLR generates the left-to-right carriage. It carries the tool head
// on its +X face and rides the upper and lower rods on two SC8UU bearings
// bolted to its -X face.
func CarriageLR(s stackup.Stackup, k kernel.Kernel, label string) (*assembly.Part, error) {
	po := s.Margins.GapRodPillow
	width := (s.RodPillow.Size[1]/2 + po) * 2
	length := (s.RodPillow.Size[0]/2 + s.GapRod/2) * 2
	gripWidth := (s.Belt.Height + s.Idler.Rim[1] + s.Margins.GapBearing/2) * 2
	t := s.GapLRTool

	solid := kernel.BoxAt(k, 0, -width/2, -length/2, t, width, length)
	for _, y := range []float64{-width / 2, width/2 - 5} {
		grip := kernel.BoxAt(k, -beltGripHeight, y, -gripWidth/2, beltGripHeight+t, 5, gripWidth)
		solid = k.Union(solid, grip)
	}

	// Belt clamp slots.
	for _, y := range []float64{-width / 2, width/2 - s.Belt.Thickness*2} {
		slot := kernel.BoxAt(k, -beltGripHeight, y, -s.Belt.Height/2-s.Margins.ToleranceBelt,
			beltGripHeight, s.Belt.Thickness*2, s.Belt.Height+2*s.Margins.ToleranceBelt)
		solid = k.Difference(solid, slot)
	}

	// Tool inserts.
	insert := s.ToolKnurl.Inset
	for _, y := range []float64{-10, 10} {
		for _, z := range []float64{-10, 10} {
			hole := kernel.CylinderX(k, t-insert[1], y, z, insert[1], insert[0])
			solid = k.Difference(solid, hole)
		}
	}

	// Bearing bolts, counterbored from the tool face.
	bolt := s.RodPillow.Bolt
	pattern := s.RodPillow.MountPattern
	for _, c := range [][2]float64{{-po, s.GapRod / 2}, {po, -s.GapRod / 2}} {
		for _, dy := range []float64{-pattern[1] / 2, pattern[1] / 2} {
			for _, dz := range []float64{-pattern[0] / 2, pattern[0] / 2} {
				y, z := c[0]+dy, c[1]+dz
				solid = k.Difference(solid, kernel.CylinderX(k, 0, y, z, t, bolt.Shaft[0]))
				solid = k.Difference(solid, kernel.CylinderX(k, t-bolt.Head[1], y, z, bolt.Head[1], bolt.Head[0]))
			}
		}
	}

	mountAxis := v3.Vec{Y: 90, Z: 90}
	return assembly.NewPart(label, assembly.Plastic,
		assembly.Dimensions{
			"offset_upper": {LROffset(s, Upper)},
			"offset_lower": {LROffset(s, Lower)},
			"size":         {t, width, length},
		},
		solid,
		assembly.RigidJoint("upper", geom.Location(v3.Vec{Y: -po, Z: s.GapRod / 2}, mountAxis)),
		assembly.RigidJoint("lower", geom.Location(v3.Vec{Y: po, Z: -s.GapRod / 2}, mountAxis)),
		assembly.RigidJoint("tool", geom.At(t, 0, 0)),
	)
}
