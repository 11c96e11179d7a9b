// Package stackup derives the clearance and offset dimensions that let
// independently generated parts fit together. Derive is a pure function of a
// Reference: no state is kept between calls and identical inputs give
// bit-identical results.
package stackup

import "github.com/ezrec/3dp-wilbur/pkg/hardware"

// Margins are the fixed clearances, walls and gaps the derivation adds to
// component envelopes.
type Margins struct {
	ClearanceRod    float64 `json:"clearance_rod" yaml:"clearance_rod"`
	ClearancePillow float64 `json:"clearance_pillow" yaml:"clearance_pillow"`
	ToleranceBelt   float64 `json:"tolerance_belt" yaml:"tolerance_belt"`

	WallRod   float64 `json:"wall_rod" yaml:"wall_rod"`
	WallBolt  float64 `json:"wall_bolt" yaml:"wall_bolt"`
	WallVSlot float64 `json:"wall_vslot" yaml:"wall_vslot"`

	GapBearing      float64 `json:"gap_bearing" yaml:"gap_bearing"`
	GapPillowPillow float64 `json:"gap_pillow_pillow" yaml:"gap_pillow_pillow"`
	GapRodPillow    float64 `json:"gap_rod_pillow" yaml:"gap_rod_pillow"`
	GapRailRod      float64 `json:"gap_rail_rod" yaml:"gap_rail_rod"`
	GapRailBelt     float64 `json:"gap_rail_belt" yaml:"gap_rail_belt"`
	GapVSlotBelt    float64 `json:"gap_vslot_belt" yaml:"gap_vslot_belt"`

	// ToolBolt is the metric size of the inserts holding the tool head.
	ToolBolt float64 `json:"tool_bolt" yaml:"tool_bolt"`
}

// DefaultMargins returns the margins the printer is designed with.
func DefaultMargins() Margins {
	return Margins{
		ClearanceRod:    0.25,
		ClearancePillow: 0.25,
		ToleranceBelt:   0.35,

		WallRod:   2,
		WallBolt:  2,
		WallVSlot: 2,

		GapBearing:      2,
		GapPillowPillow: 4,
		GapRodPillow:    10,
		GapRailRod:      0,
		GapRailBelt:     5,
		GapVSlotBelt:    11,

		ToolBolt: 3,
	}
}

// Reference is the set of purchased components the frame is designed around.
type Reference struct {
	Idler      hardware.GT2Idler     `json:"idler" yaml:"idler"`
	Pulley     hardware.GT2Pulley    `json:"pulley" yaml:"pulley"`
	Belt       hardware.GT2Belt      `json:"belt" yaml:"belt"`
	Rod        hardware.Rod          `json:"rod" yaml:"rod"`
	RodPillow  hardware.Bearing      `json:"rod_pillow" yaml:"rod_pillow"`
	Rail       hardware.LinearRail   `json:"rail" yaml:"rail"`
	RailPillow hardware.LinearPillow `json:"rail_pillow" yaml:"rail_pillow"`
	VSlot      hardware.VSlot        `json:"vslot" yaml:"vslot"`
	Nema       hardware.Nema         `json:"nema" yaml:"nema"`
	Tolerance  float64               `json:"tolerance" yaml:"tolerance"`
	Margins    Margins               `json:"margins" yaml:"margins"`
}

// Default dimensions of the stock frame.
const (
	DefaultRodDiameter = 8.0
	DefaultRodLength   = 400.0
	DefaultRailLength  = 500.0
	DefaultVSlotLength = 400.0
	DefaultTolerance   = 0.35
)

// DefaultReference returns a freshly built reference for the stock frame.
// Each call returns an independent value.
func DefaultReference() Reference {
	return Reference{
		Idler:      hardware.NewGT2Idler(),
		Pulley:     hardware.NewGT2Pulley(),
		Belt:       hardware.GT2(),
		Rod:        hardware.NewRod(DefaultRodDiameter/2, DefaultRodLength),
		RodPillow:  hardware.SC8UU(),
		Rail:       hardware.HSR15(DefaultRailLength),
		RailPillow: hardware.HSR15Pillow(),
		VSlot:      hardware.VSlot2020(DefaultVSlotLength),
		Nema:       hardware.Nema17(),
		Tolerance:  DefaultTolerance,
		Margins:    DefaultMargins(),
	}
}
