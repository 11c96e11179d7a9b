package hardware

import (
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// GT2Idler is a flanged toothless idler. Bearing is the flange (radius,
// overall height), Shaft the belt surface (radius, height) and Rim a single
// flange (radius, thickness).
type GT2Idler struct {
	Bearing       [2]float64 `json:"bearing" yaml:"bearing"`
	Shaft         [2]float64 `json:"shaft" yaml:"shaft"`
	Rim           [2]float64 `json:"rim" yaml:"rim"`
	MountDiameter float64    `json:"mount_diameter" yaml:"mount_diameter"`
	Bolt          Bolt       `json:"bolt" yaml:"bolt"`
}

// NewGT2Idler returns the 18 mm flanged idler with a 5 mm bore.
func NewGT2Idler() GT2Idler {
	const disk = 1.0
	bearing := [2]float64{18.0 / 2, 8.5}
	return GT2Idler{
		Bearing:       bearing,
		Shaft:         [2]float64{12.0 / 2, bearing[1] - disk*2},
		Rim:           [2]float64{bearing[0], disk},
		MountDiameter: 5,
		Bolt:          BoltM(5),
	}
}

// Part builds the idler standing on Z=0. Its "mount" joint turns the bore
// axis onto the mounting bolt.
func (g GT2Idler) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	disk := g.Rim[1]
	solid := kernel.UnionAll(k,
		kernel.CylinderAt(k, 0, 0, 0, disk, g.Rim[0]),
		kernel.CylinderAt(k, 0, 0, disk, g.Shaft[1], g.Shaft[0]),
		kernel.CylinderAt(k, 0, 0, disk+g.Shaft[1], disk, g.Rim[0]),
	)
	solid = k.Difference(solid, kernel.CylinderAt(k, 0, 0, 0, g.Bearing[1], g.MountDiameter/2))
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"bearing": g.Bearing[:],
			"shaft":   g.Shaft[:],
			"rim":     g.Rim[:],
		},
		solid,
		assembly.RigidJoint("mount", geom.Rotation(90, 0, 0)),
	)
}

// GT2Pulley is a toothed drive pulley. Size is the flange (radius, overall
// height) and Shaft the hub (radius, height).
type GT2Pulley struct {
	Size          [2]float64 `json:"size" yaml:"size"`
	Shaft         [2]float64 `json:"shaft" yaml:"shaft"`
	MountDiameter float64    `json:"mount_diameter" yaml:"mount_diameter"`
	Bolt          Bolt       `json:"bolt" yaml:"bolt"`
}

// NewGT2Pulley returns the 13 mm flanged drive pulley.
func NewGT2Pulley() GT2Pulley {
	return GT2Pulley{
		Size:          [2]float64{13.0 / 2, 14},
		Shaft:         [2]float64{11.0 / 2, 6},
		MountDiameter: 5,
		Bolt:          BoltM(5),
	}
}

// Part builds the pulley standing on Z=0.
func (g GT2Pulley) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	const disk = 1.0
	top := disk + g.Shaft[1]
	solid := kernel.UnionAll(k,
		kernel.CylinderAt(k, 0, 0, 0, disk, g.Size[0]),
		kernel.CylinderAt(k, 0, 0, disk, g.Shaft[1], g.Shaft[0]),
		kernel.CylinderAt(k, 0, 0, top, g.Size[1]-top, g.Size[0]),
	)
	solid = k.Difference(solid, kernel.CylinderAt(k, 0, 0, 0, g.Size[1], g.MountDiameter/2))
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"size":  g.Size[:],
			"shaft": g.Shaft[:],
		},
		solid,
		assembly.RigidJoint("mount", geom.Identity()),
	)
}
