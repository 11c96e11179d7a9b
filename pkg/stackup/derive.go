package stackup

import (
	"fmt"
	"math"
	"strings"

	"github.com/ezrec/3dp-wilbur/pkg/hardware"
)

// Stackup is a Reference plus every dimension derived from it.
type Stackup struct {
	Reference `json:"reference" yaml:"reference"`

	// GapRod is the spacing between the upper and lower rod axes: the larger
	// of two pillow blocks side by side and an idler pair between the rods.
	GapRodByBearing float64 `json:"gap_rod_by_bearing" yaml:"gap_rod_by_bearing"`
	GapRodByPillow  float64 `json:"gap_rod_by_pillow" yaml:"gap_rod_by_pillow"`
	GapRod          float64 `json:"gap_rod" yaml:"gap_rod"`

	// GapLRTool is the thickness of the L-R carriage between its bearings and
	// the tool head: room for a knurled insert or a counterbored pillow bolt.
	GapLRToolByKnurl float64 `json:"gap_lr_tool_by_knurl" yaml:"gap_lr_tool_by_knurl"`
	GapLRToolByBolt  float64 `json:"gap_lr_tool_by_bolt" yaml:"gap_lr_tool_by_bolt"`
	GapLRTool        float64 `json:"gap_lr_tool" yaml:"gap_lr_tool"`

	// ToolKnurl is the insert the tool head bolts into.
	ToolKnurl hardware.Knurl `json:"tool_knurl" yaml:"tool_knurl"`

	// Idler pair stacked about a carriage mid-plane.
	IdlerLowZ  float64 `json:"idler_low_z" yaml:"idler_low_z"`
	IdlerHighZ float64 `json:"idler_high_z" yaml:"idler_high_z"`
	IdlerSpan  float64 `json:"idler_span" yaml:"idler_span"`

	// Belt line offsets to the idler axis.
	IdlerRailOffset  float64 `json:"idler_rail_offset" yaml:"idler_rail_offset"`
	IdlerVSlotOffset float64 `json:"idler_vslot_offset" yaml:"idler_vslot_offset"`

	VSlotWall  float64 `json:"vslot_wall" yaml:"vslot_wall"`
	PillowWall float64 `json:"pillow_wall" yaml:"pillow_wall"`

	// NemaSlot is the distance of each stepper plate from the extrusion centre.
	NemaSlot float64 `json:"nema_slot" yaml:"nema_slot"`
}

// Derive validates ref and computes the stack-up. It fails with a
// *DimensionError (matching ErrInvalidDimension) on the first dimension that
// is out of its physical range.
func Derive(ref Reference) (Stackup, error) {
	if err := validate(ref); err != nil {
		return Stackup{}, err
	}
	m := ref.Margins

	knurl, err := hardware.KnurlM(m.ToolBolt)
	if err != nil {
		return Stackup{}, &DimensionError{Name: "margins.tool_bolt", Value: m.ToolBolt, Reason: err.Error()}
	}

	s := Stackup{Reference: ref, ToolKnurl: knurl}

	// Envelope sums.
	s.GapRodByBearing = (ref.Rod.Radius + m.GapBearing + ref.Idler.Bearing[1] + m.GapBearing/2) * 2
	s.GapRodByPillow = (ref.RodPillow.Size[0] / 2) * 2
	s.IdlerSpan = (m.GapBearing/2 + ref.Idler.Bearing[1] + m.GapBearing/2) * 2
	s.IdlerLowZ = -m.GapBearing/2 - ref.Idler.Bearing[1]
	s.IdlerHighZ = m.GapBearing / 2

	// Max of candidates.
	s.GapRod = math.Max(s.GapRodByPillow+m.GapPillowPillow, s.GapRodByBearing)
	s.GapLRToolByKnurl = knurl.Inset[1]
	s.GapLRToolByBolt = ref.RodPillow.Bolt.Head[1] + m.WallBolt
	s.GapLRTool = math.Max(s.GapLRToolByKnurl, s.GapLRToolByBolt)

	// Pass-through with margin.
	s.IdlerRailOffset = m.GapRailBelt + ref.Idler.Shaft[0]
	s.IdlerVSlotOffset = m.GapVSlotBelt + ref.Idler.Shaft[0]
	s.VSlotWall = m.WallVSlot + ref.VSlot.Bolt.Head[1]
	s.PillowWall = ref.RailPillow.Bolt.Head[1] + m.WallRod
	s.NemaSlot = ref.VSlot.Length/2 - m.GapRailBelt - ref.Pulley.Shaft[0]

	return s, nil
}

// MustDerive is like Derive but panics on error.
func MustDerive(ref Reference) Stackup {
	s, err := Derive(ref)
	if err != nil {
		panic(err)
	}
	return s
}

type check struct {
	name   string
	value  float64
	nonNeg bool // zero allowed
}

func validate(ref Reference) error {
	m := ref.Margins
	checks := []check{
		{name: "rod.radius", value: ref.Rod.Radius},
		{name: "rod.length", value: ref.Rod.Length},
		{name: "rod_pillow.size[0]", value: ref.RodPillow.Size[0]},
		{name: "rod_pillow.size[1]", value: ref.RodPillow.Size[1]},
		{name: "rod_pillow.mount", value: ref.RodPillow.Mount},
		{name: "rod_pillow.bolt.head[1]", value: ref.RodPillow.Bolt.Head[1]},
		{name: "idler.bearing[0]", value: ref.Idler.Bearing[0]},
		{name: "idler.bearing[1]", value: ref.Idler.Bearing[1]},
		{name: "idler.shaft[0]", value: ref.Idler.Shaft[0]},
		{name: "pulley.shaft[0]", value: ref.Pulley.Shaft[0]},
		{name: "belt.height", value: ref.Belt.Height},
		{name: "belt.thickness", value: ref.Belt.Thickness},
		{name: "belt.pitch", value: ref.Belt.Pitch},
		{name: "rail.height", value: ref.Rail.Height},
		{name: "rail.length", value: ref.Rail.Length},
		{name: "rail.bolt_spacing", value: ref.Rail.BoltSpacing},
		{name: "rail_pillow.offset", value: ref.RailPillow.Offset},
		{name: "rail_pillow.bolt.head[1]", value: ref.RailPillow.Bolt.Head[1]},
		{name: "vslot.length", value: ref.VSlot.Length},
		{name: "vslot.bolt.head[1]", value: ref.VSlot.Bolt.Head[1]},
		{name: "nema.width", value: ref.Nema.Width},
		{name: "tolerance", value: ref.Tolerance},

		{name: "margins.clearance_rod", value: m.ClearanceRod, nonNeg: true},
		{name: "margins.clearance_pillow", value: m.ClearancePillow, nonNeg: true},
		{name: "margins.tolerance_belt", value: m.ToleranceBelt, nonNeg: true},
		{name: "margins.wall_rod", value: m.WallRod},
		{name: "margins.wall_bolt", value: m.WallBolt},
		{name: "margins.wall_vslot", value: m.WallVSlot},
		{name: "margins.gap_bearing", value: m.GapBearing},
		{name: "margins.gap_pillow_pillow", value: m.GapPillowPillow},
		{name: "margins.gap_rod_pillow", value: m.GapRodPillow},
		{name: "margins.gap_rail_rod", value: m.GapRailRod, nonNeg: true},
		{name: "margins.gap_rail_belt", value: m.GapRailBelt, nonNeg: true},
		{name: "margins.gap_vslot_belt", value: m.GapVSlotBelt, nonNeg: true},
		{name: "margins.tool_bolt", value: m.ToolBolt},
	}
	for _, c := range checks {
		switch {
		case math.IsNaN(c.value) || math.IsInf(c.value, 0):
			return &DimensionError{Name: c.name, Value: c.value, Reason: "must be finite"}
		case c.nonNeg && c.value < 0:
			return &DimensionError{Name: c.name, Value: c.value, Reason: "must not be negative"}
		case !c.nonNeg && c.value <= 0:
			return &DimensionError{Name: c.name, Value: c.value, Reason: "must be positive"}
		}
	}
	return nil
}

// Value is one named dimension for reporting.
type Value struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Values lists the margins and derived dimensions in a fixed order.
func (s Stackup) Values() []Value {
	m := s.Margins
	return []Value{
		{"tolerance", s.Tolerance},
		{"clearance_rod", m.ClearanceRod},
		{"clearance_pillow", m.ClearancePillow},
		{"tolerance_belt", m.ToleranceBelt},
		{"wall_rod", m.WallRod},
		{"wall_bolt", m.WallBolt},
		{"wall_vslot", m.WallVSlot},
		{"gap_bearing", m.GapBearing},
		{"gap_pillow_pillow", m.GapPillowPillow},
		{"gap_rod_pillow", m.GapRodPillow},
		{"gap_rail_rod", m.GapRailRod},
		{"gap_rail_belt", m.GapRailBelt},
		{"gap_vslot_belt", m.GapVSlotBelt},
		{"gap_rod_by_bearing", s.GapRodByBearing},
		{"gap_rod_by_pillow", s.GapRodByPillow},
		{"gap_rod", s.GapRod},
		{"gap_lr_tool_by_knurl", s.GapLRToolByKnurl},
		{"gap_lr_tool_by_bolt", s.GapLRToolByBolt},
		{"gap_lr_tool", s.GapLRTool},
		{"idler_low_z", s.IdlerLowZ},
		{"idler_high_z", s.IdlerHighZ},
		{"idler_span", s.IdlerSpan},
		{"idler_rail_offset", s.IdlerRailOffset},
		{"idler_vslot_offset", s.IdlerVSlotOffset},
		{"vslot_wall", s.VSlotWall},
		{"pillow_wall", s.PillowWall},
		{"nema_slot", s.NemaSlot},
	}
}

// String renders Values as aligned "name value" lines.
func (s Stackup) String() string {
	var b strings.Builder
	for _, v := range s.Values() {
		fmt.Fprintf(&b, "%-22s %8.3f\n", v.Name, v.Value)
	}
	return b.String()
}
