package hardware

import (
	"fmt"
	"math"

	"github.com/ezrec/3dp-wilbur/pkg/geom"
)

// GT2Belt is a 2 mm pitch timing belt profile.
type GT2Belt struct {
	Height    float64 `json:"height" yaml:"height"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
	Clearance float64 `json:"clearance" yaml:"clearance"`
	Pitch     float64 `json:"pitch" yaml:"pitch"`
}

// GT2 returns the standard 6 mm GT2 belt.
func GT2() GT2Belt {
	return GT2Belt{
		Height:    6.5,
		Thickness: 1.38,
		Clearance: 2,
		Pitch:     2,
	}
}

// PulleyThickness is the belt thickness left once wrapped on a pulley.
func (b GT2Belt) PulleyThickness() float64 {
	return b.Thickness - 0.75
}

// PulleyTeeth returns the largest tooth count whose pitch circle fits
// within radius.
func (b GT2Belt) PulleyTeeth(radius float64) (int, error) {
	if radius <= b.Pitch/2 {
		return 0, fmt.Errorf("hardware: pulley radius %g too small for pitch %g", radius, b.Pitch)
	}
	return int(math.Pi / math.Asin(b.Pitch/2/radius)), nil
}

// PulleyRadius returns the pitch radius of a pulley with the given teeth.
func (b GT2Belt) PulleyRadius(teeth int) (float64, error) {
	if teeth < 2 {
		return 0, fmt.Errorf("hardware: pulley needs at least 2 teeth, got %d", teeth)
	}
	return b.Pitch / 2 / math.Sin(geom.Radians(180/float64(teeth))), nil
}

