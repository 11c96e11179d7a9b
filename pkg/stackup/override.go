package stackup

import (
	"fmt"
	"sort"
	"strings"
)

// setters maps override names to the Reference field they write.
var setters = map[string]func(*Reference, float64){
	"rod_diameter": func(r *Reference, v float64) { r.Rod.Radius = v / 2 },
	"rod_length":   func(r *Reference, v float64) { r.Rod.Length = v },
	"rail_length":  func(r *Reference, v float64) { r.Rail.Length = v },
	"vslot_length": func(r *Reference, v float64) { r.VSlot.Length = v },
	"tolerance":    func(r *Reference, v float64) { r.Tolerance = v },

	"clearance_rod":     func(r *Reference, v float64) { r.Margins.ClearanceRod = v },
	"clearance_pillow":  func(r *Reference, v float64) { r.Margins.ClearancePillow = v },
	"tolerance_belt":    func(r *Reference, v float64) { r.Margins.ToleranceBelt = v },
	"wall_rod":          func(r *Reference, v float64) { r.Margins.WallRod = v },
	"wall_bolt":         func(r *Reference, v float64) { r.Margins.WallBolt = v },
	"wall_vslot":        func(r *Reference, v float64) { r.Margins.WallVSlot = v },
	"gap_bearing":       func(r *Reference, v float64) { r.Margins.GapBearing = v },
	"gap_pillow_pillow": func(r *Reference, v float64) { r.Margins.GapPillowPillow = v },
	"gap_rod_pillow":    func(r *Reference, v float64) { r.Margins.GapRodPillow = v },
	"gap_rail_rod":      func(r *Reference, v float64) { r.Margins.GapRailRod = v },
	"gap_rail_belt":     func(r *Reference, v float64) { r.Margins.GapRailBelt = v },
	"gap_vslot_belt":    func(r *Reference, v float64) { r.Margins.GapVSlotBelt = v },
	"tool_bolt":         func(r *Reference, v float64) { r.Margins.ToolBolt = v },
}

// OverrideName normalizes a user-supplied name: lower case with dashes
// turned into underscores.
func OverrideName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Overridable reports whether name can be passed to Set.
func Overridable(name string) bool {
	_, ok := setters[OverrideName(name)]
	return ok
}

// OverrideNames returns every overridable name, sorted.
func OverrideNames() []string {
	names := make([]string, 0, len(setters))
	for k := range setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set overrides one reference dimension or margin by name. Values are
// checked by Derive, not here.
func (r *Reference) Set(name string, v float64) error {
	set, ok := setters[OverrideName(name)]
	if !ok {
		return fmt.Errorf("stackup: unknown override %q", name)
	}
	set(r, v)
	return nil
}

// Apply sets every override in sorted name order.
func (r *Reference) Apply(overrides map[string]float64) error {
	names := make([]string, 0, len(overrides))
	for k := range overrides {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Set(name, overrides[name]); err != nil {
			return err
		}
	}
	return nil
}
