package printed

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
)

// Carriage geometry fixed by the rail pillow.
const (
	mountToRailBase = 28.0
	fbBulkWidth     = 24.0
	fbRodDrillStart = 26.0
)

// FBIdlers returns the idler axis positions on a front-to-back carriage as
// (x, y) for the inner and outer idler, on the left hand variant.
func FBIdlers(s stackup.Stackup) (inner, outer v3.Vec) {
	shaft := s.Idler.Shaft[0]
	beltOffset := mountToRailBase + s.Margins.GapRailBelt
	inner = v3.Vec{
		X: beltOffset + shaft*2 + s.Belt.Thickness + shaft,
		Y: shaft + s.Belt.Thickness/2,
	}
	outer = v3.Vec{
		X: beltOffset + shaft,
		Y: -shaft - s.Belt.Thickness/2,
	}
	return inner, outer
}

// CarriageFB generates a front-to-back carriage. It bolts to a rail pillow,
// clamps the end of a rod and carries two idlers. The lower level is the
// upper part mirrored in XY and the right side the left mirrored in YZ.
func CarriageFB(s stackup.Stackup, k kernel.Kernel, side Side, level Level, label string) (*assembly.Part, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	m := s.Margins
	rodOffset := mountToRailBase + m.GapRailRod
	inner, outer := FBIdlers(s)

	solid := carriageFBSolid(s, k, inner, outer)
	if level == Lower {
		solid = k.Mirror(solid, kernel.PlaneXY)
	}
	if side == Right {
		solid = k.Mirror(solid, kernel.PlaneYZ)
	}

	var (
		mount                  geom.Transform
		sign                   float64
		innerZ, outerZ         float64
		innerLevel, outerLevel Level
	)
	switch side {
	case Left:
		mount = geom.Rotation(90, 0, 90)
		sign = 1
		innerZ, outerZ = s.IdlerLowZ, s.IdlerHighZ
		innerLevel, outerLevel = Lower, Upper
	case Right:
		mount = geom.Rotation(90, 0, -90)
		sign = -1
		innerZ, outerZ = s.IdlerHighZ, s.IdlerLowZ
		innerLevel, outerLevel = Upper, Lower
	}

	idlerAxis := v3.Vec{X: 90}
	return assembly.NewPart(label, assembly.Plastic,
		assembly.Dimensions{
			"rod_offset":  {rodOffset},
			"idler_inner": {sign * inner.X, inner.Y, innerZ},
			"idler_outer": {sign * outer.X, outer.Y, outerZ},
		},
		solid,
		assembly.RigidJoint("idler_"+string(innerLevel),
			geom.Location(v3.Vec{X: sign * inner.X, Y: inner.Y, Z: innerZ}, idlerAxis)),
		assembly.RigidJoint("idler_"+string(outerLevel),
			geom.Location(v3.Vec{X: sign * outer.X, Y: outer.Y, Z: outerZ}, idlerAxis)),
		assembly.RigidJoint("mount", mount),
		assembly.RigidJoint("upper", geom.At(sign*rodOffset, 0, s.GapRod/2)),
		assembly.RigidJoint("lower", geom.At(sign*rodOffset, 0, -s.GapRod/2)),
	)
}

// carriageFBSolid is the left, upper variant.
func carriageFBSolid(s stackup.Stackup, k kernel.Kernel, inner, outer v3.Vec) kernel.Solid {
	m := s.Margins
	mountWall := s.PillowWall
	bulkLength := s.RailPillow.Mount[1]
	offsetZ := m.GapBearing/2 + s.Idler.Bearing[1] + m.GapBearing/2
	heightZ := s.GapRod/2 + s.Rod.Radius + m.WallRod
	bulkHeight := heightZ - offsetZ
	boss := s.Idler.Bolt.Head[0] + m.WallBolt

	yMin := math.Min(inner.Y, outer.Y) - boss
	yMax := math.Max(inner.Y, outer.Y) + boss
	solid := kernel.UnionAll(k,
		kernel.BoxAt(k, -mountWall, -bulkLength/2, offsetZ, fbBulkWidth+mountWall*2, bulkLength, bulkHeight),
		kernel.BoxAt(k, 0, yMin, offsetZ, inner.X, yMax-yMin, bulkHeight),
		kernel.CylinderAt(k, inner.X, inner.Y, offsetZ, bulkHeight, boss),
		kernel.CylinderAt(k, outer.X, outer.Y, offsetZ, bulkHeight, boss),
	)

	// Rear tab bolted to the pillow.
	tab := s.RailPillow.Mount[0]/2 - 1
	solid = k.Union(solid, kernel.BoxAt(k, -mountWall, -bulkLength/2, offsetZ-tab, mountWall, bulkLength, tab))
	bolt := s.RailPillow.Bolt
	for _, y := range []float64{-s.RailPillow.BoltPattern[0] / 2, s.RailPillow.BoltPattern[0] / 2} {
		z := offsetZ - tab/2
		solid = k.Difference(solid, kernel.CylinderX(k, -mountWall, y, z, mountWall, bolt.Shaft[0]))
		solid = k.Difference(solid, kernel.CylinderX(k, -mountWall, y, z, bolt.Head[1], bolt.Head[0]))
	}

	// Idler bolts.
	for _, c := range []v3.Vec{inner, outer} {
		solid = k.Difference(solid, kernel.CylinderAt(k, c.X, c.Y, offsetZ, bulkHeight, s.Idler.Bolt.Shaft[0]))
	}

	// Rod clamp bore.
	bore := kernel.CylinderX(k, fbRodDrillStart, 0, s.GapRod/2, s.Rod.Length, s.Rod.Radius+m.ClearanceRod)
	return k.Difference(solid, bore)
}
