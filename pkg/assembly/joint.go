package assembly

import (
	"fmt"
	"math"

	"github.com/ezrec/3dp-wilbur/pkg/geom"
)

// JointKind enumerates the degrees of freedom a joint offers.
type JointKind int

const (
	Rigid       JointKind = iota // zero degrees of freedom
	Cylindrical                  // rotation about, and optionally travel along, local Z
	Linear                       // travel along local Z
)

func (k JointKind) String() string {
	switch k {
	case Rigid:
		return "rigid"
	case Cylindrical:
		return "cylindrical"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// Range is a closed interval of allowed articulation values.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Unbounded accepts any finite value.
var Unbounded = Range{Min: math.Inf(-1), Max: math.Inf(1)}

// Symmetric returns [-half, half].
func Symmetric(half float64) Range {
	return Range{Min: -half, Max: half}
}

// Contains reports whether v lies in the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// JointDecl is a joint declaration as produced by a part generator.
type JointDecl struct {
	Label    string
	Kind     JointKind
	Location geom.Transform // local frame; motion is along/about its Z axis
	Angle    Range          // degrees, Cylindrical only
	Travel   Range          // length, Cylindrical and Linear
}

// RigidJoint declares a fixed mount.
func RigidJoint(label string, loc geom.Transform) JointDecl {
	return JointDecl{Label: label, Kind: Rigid, Location: loc}
}

// CylindricalJoint declares a rotating joint about the Z axis of frame, with
// unbounded rotation and the given travel along the axis.
func CylindricalJoint(label string, frame geom.Transform, travel Range) JointDecl {
	return JointDecl{Label: label, Kind: Cylindrical, Location: frame, Angle: Unbounded, Travel: travel}
}

// LinearJoint declares a sliding joint along the Z axis of frame.
func LinearJoint(label string, frame geom.Transform, travel Range) JointDecl {
	return JointDecl{Label: label, Kind: Linear, Location: frame, Travel: travel}
}

// WithAngle restricts the rotation range of a Cylindrical declaration.
func (d JointDecl) WithAngle(r Range) JointDecl {
	d.Angle = r
	return d
}

// Joint is a named attachment point owned by a Part.
type Joint struct {
	label string
	kind  JointKind
	local geom.Transform
	angle Range
	travel Range
	part  *Part

	// Guarded by linkMu.
	peer         *Joint
	parent       bool           // true on the side that placed the peer
	articulation geom.Transform // valid on the parent side
	params       Articulation
}

func newJoint(p *Part, d JointDecl) *Joint {
	return &Joint{
		label: d.Label,
		kind:  d.Kind,
		local: d.Location,
		angle: d.Angle,
		travel: d.Travel,
		part:  p,
	}
}

// Label returns the joint name, unique within its part.
func (j *Joint) Label() string { return j.label }

// Kind returns the joint kind.
func (j *Joint) Kind() JointKind { return j.kind }

// Local returns the joint frame relative to the owning part.
func (j *Joint) Local() geom.Transform { return j.local }

// AngleRange returns the allowed rotation in degrees (Cylindrical only).
func (j *Joint) AngleRange() Range { return j.angle }

// TravelRange returns the allowed travel along the joint axis.
func (j *Joint) TravelRange() Range { return j.travel }

// Part returns the owning part.
func (j *Joint) Part() *Part { return j.part }

// Peer returns the connected joint, or nil.
func (j *Joint) Peer() *Joint {
	linkMu.RLock()
	defer linkMu.RUnlock()
	return j.peer
}

// IsParent reports whether this side placed the peer's part.
func (j *Joint) IsParent() bool {
	linkMu.RLock()
	defer linkMu.RUnlock()
	return j.peer != nil && j.parent
}

// Articulation returns the parameters given when the joint was connected.
func (j *Joint) Articulation() Articulation {
	linkMu.RLock()
	defer linkMu.RUnlock()
	return j.params
}

// World returns the absolute frame of the joint.
func (j *Joint) World() geom.Transform {
	return j.part.Location().Mul(j.local)
}

func (j *Joint) String() string {
	return fmt.Sprintf("%s:%s", j.part.label, j.label)
}

// movable reports whether the joint has a degree of freedom.
func (j *Joint) movable() bool {
	return j.kind != Rigid
}
