package printed

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Nema17Plate dimensions.
const (
	plateLength     = 75.0
	plateWidth      = 42.0
	plateHeight     = 3.0
	plateNemaInset  = plateWidth / 2
	plateBoltInset  = 31 + 15.0/2
	plateGridX      = 12.5
	plateGridY      = 15.0
	plateGridCols   = 3
	plateGridRows   = 2
	plateNemaRadius = 22.0 / 2
	plateMountR     = 22.0
)

// PlateMounts is the number of mount_N joints on a Nema17Plate.
const PlateMounts = plateGridCols * plateGridRows

// plateGrid returns the centre of grid hole n, column-major.
func plateGrid(n int) (x, y float64) {
	col, row := n/plateGridRows, n%plateGridRows
	x = (float64(col) - float64(plateGridCols-1)/2) * plateGridX
	y = plateBoltInset + (float64(row)-float64(plateGridRows-1)/2)*plateGridY
	return x, y
}

// Nema17Plate generates the sheet plate a NEMA17 stepper hangs from. The
// stepper sits on "mount_nema"; the plate bolts to an extrusion through any
// of the grid holes "mount_0" to "mount_5".
func Nema17Plate(k kernel.Kernel, label string) (*assembly.Part, error) {
	solid := kernel.BoxAt(k, -plateWidth/2, -plateNemaInset, 0, plateWidth, plateLength, plateHeight)
	solid = k.Difference(solid, kernel.CylinderAt(k, 0, 0, 0, plateHeight, plateNemaRadius))
	for i := 0; i < 4; i++ {
		a := geom.Radians(45 + 90*float64(i))
		x, y := plateMountR*math.Cos(a), plateMountR*math.Sin(a)
		solid = k.Difference(solid, kernel.CylinderAt(k, x, y, 0, plateHeight, 3.2/2))
	}

	decls := []assembly.JointDecl{
		assembly.RigidJoint("mount_nema", geom.Rotation(90, 0, 0)),
	}
	for n := 0; n < PlateMounts; n++ {
		x, y := plateGrid(n)
		solid = k.Difference(solid, kernel.CylinderAt(k, x, y, 0, plateHeight, 5.1/2))
		decls = append(decls, assembly.RigidJoint(fmt.Sprintf("mount_%d", n),
			geom.Location(v3.Vec{X: x, Y: y, Z: plateHeight}, v3.Vec{Y: 90})))
	}

	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"size":       {plateWidth, plateLength, plateHeight},
			"bolt_inset": {plateBoltInset},
		},
		solid,
		decls...,
	)
}
