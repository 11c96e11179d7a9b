package hardware

import (
	"fmt"
	"math"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Knurl is a heat-set threaded insert. Inset is the (radius, depth) of the
// hole that receives it, Outset the (radius, depth) of its outer body.
type Knurl struct {
	Inset  [2]float64 `json:"inset" yaml:"inset"`
	Outset [2]float64 `json:"outset" yaml:"outset"`
}

type knurlRow struct {
	insetDiameter  float64
	height         float64
	outsetDiameter float64
}

// Keyed by ten times the metric size. The M3 row carries the M4 insert
// height, matching the inserts stocked for the printer.
var knurlTable = map[int]knurlRow{
	30: {insetDiameter: 3.7, height: 8.5, outsetDiameter: 5.5},
	40: {insetDiameter: 5.3, height: 8.5, outsetDiameter: 6.4},
	50: {insetDiameter: 6.1, height: 9.5, outsetDiameter: 6.5},
}

// KnurlM returns the insert for a metric size (3, 4 or 5).
func KnurlM(size float64) (Knurl, error) {
	row, ok := knurlTable[int(size*10)]
	if !ok {
		return Knurl{}, fmt.Errorf("hardware: unknown knurl diameter M%g", size)
	}
	depth := math.Ceil(row.height)
	return Knurl{
		Inset:  [2]float64{row.insetDiameter / 2, depth},
		Outset: [2]float64{row.outsetDiameter / 2, depth},
	}, nil
}

// Bolt is a metric socket head bolt. Shaft and Head are (radius, length).
type Bolt struct {
	Size  float64    `json:"size" yaml:"size"`
	Shaft [2]float64 `json:"shaft" yaml:"shaft"`
	Head  [2]float64 `json:"head" yaml:"head"`
	Knurl Knurl      `json:"knurl" yaml:"knurl"`
}

// NewBolt returns a bolt of the given metric size and shaft length.
func NewBolt(size, length float64) (Bolt, error) {
	if size <= 0 {
		return Bolt{}, fmt.Errorf("hardware: bolt size %g must be positive", size)
	}
	knurl, err := KnurlM(size)
	if err != nil {
		return Bolt{}, err
	}
	return Bolt{
		Size:  size,
		Shaft: [2]float64{size / 2, length},
		Head:  [2]float64{size, size * 1.1},
		Knurl: knurl,
	}, nil
}

// BoltM returns a zero-length catalogue bolt. It panics on sizes without a
// knurl insert; use NewBolt for sizes read from input.
func BoltM(size float64) Bolt {
	b, err := NewBolt(size, 0)
	if err != nil {
		panic(err)
	}
	return b
}

// Part builds the bolt with the head sitting on Z=0 and the shaft below it.
func (b Bolt) Part(k kernel.Kernel, label string) (*assembly.Part, error) {
	solid := kernel.CylinderAt(k, 0, 0, 0, b.Head[1], b.Head[0])
	if b.Shaft[1] > 0 {
		solid = k.Union(solid, kernel.CylinderAt(k, 0, 0, -b.Shaft[1], b.Shaft[1], b.Shaft[0]))
	}
	return assembly.NewPart(label, assembly.Metal,
		assembly.Dimensions{
			"shaft": b.Shaft[:],
			"head":  b.Head[:],
		},
		solid,
		assembly.CylindricalJoint("head", geom.Identity(), assembly.Range{}),
	)
}
