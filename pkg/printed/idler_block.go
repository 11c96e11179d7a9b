package printed

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
)

const idlerBlockWall = 4.0

// IdlerBlock generates the block at the front end of the frame that turns
// the belts around. It bolts to an extrusion face and carries an idler pair.
func IdlerBlock(s stackup.Stackup, k kernel.Kernel, side Side, label string) (*assembly.Part, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}

	m := s.Margins
	span := s.IdlerSpan
	height := span + idlerBlockWall*2
	iro := s.IdlerRailOffset
	ivo := s.IdlerVSlotOffset
	vw := s.VSlotWall
	boss := s.Idler.Bolt.Head[0] + m.WallBolt

	solid := kernel.BoxAt(k, -iro, 0, -height/2, iro*2, vw, height)
	for _, z0 := range []float64{span / 2, -span/2 - idlerBlockWall} {
		ear := kernel.UnionAll(k,
			kernel.BoxAt(k, -boss, 0, z0, boss*2, ivo, idlerBlockWall),
			kernel.CylinderAt(k, 0, ivo, z0, idlerBlockWall, boss),
		)
		solid = k.Union(solid, ear)
	}
	solid = k.Difference(solid, kernel.CylinderAt(k, 0, ivo, -height/2, height, s.Idler.Bolt.Shaft[0]))

	bolt := s.VSlot.Bolt
	for _, z := range []float64{-5, 5} {
		solid = k.Difference(solid, kernel.CylinderY(k, 0, 0, z, vw, bolt.Shaft[0]))
		solid = k.Difference(solid, kernel.CylinderY(k, 0, vw-bolt.Head[1], z, bolt.Head[1], bolt.Head[0]))
	}

	sideOffset := -iro
	if side == Right {
		sideOffset = iro
	}

	idlerAxis := v3.Vec{X: 90}
	return assembly.NewPart(label, assembly.Plastic,
		assembly.Dimensions{
			"size":               {iro * 2, vw, height},
			"idler_vslot_offset": {ivo},
		},
		solid,
		assembly.RigidJoint("vslot", geom.Location(v3.Vec{X: sideOffset}, v3.Vec{Y: 90})),
		assembly.RigidJoint("idler_lower", geom.Location(v3.Vec{Y: ivo, Z: s.IdlerLowZ}, idlerAxis)),
		assembly.RigidJoint("idler_upper", geom.Location(v3.Vec{Y: ivo, Z: s.IdlerHighZ}, idlerAxis)),
	)
}
