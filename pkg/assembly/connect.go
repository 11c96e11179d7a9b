package assembly

import (
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
)

// linkMu serializes joint linking and part placement so that a Connect is
// observed either fully or not at all.
var linkMu sync.RWMutex

// Articulation records the parameters supplied to Connect.
type Articulation struct {
	Angle       float64 // degrees about the moving joint's Z axis
	Position    float64 // travel along the moving joint's Z axis
	HasAngle    bool
	HasPosition bool
}

// Transform returns the motion translate(0,0,Position) * rotZ(Angle).
func (a Articulation) Transform() geom.Transform {
	return geom.Translation(v3.Vec{Z: a.Position}).Mul(geom.Rotation(0, 0, a.Angle))
}

// ConnectOption sets an articulation parameter.
type ConnectOption func(*Articulation)

// WithAngle sets the rotation, in degrees, of the moving joint.
func WithAngle(deg float64) ConnectOption {
	return func(a *Articulation) {
		a.Angle = deg
		a.HasAngle = true
	}
}

// WithPosition sets the travel of the moving joint along its axis.
func WithPosition(p float64) ConnectOption {
	return func(a *Articulation) {
		a.Position = p
		a.HasPosition = true
	}
}

// Connect links j (the parent) with other (the child) and places the side
// that is not yet fixed so that the two joint frames coincide after
// articulation.
//
// Each part belongs to the component of parts it is connected to. A
// component is anchored when any of its parts was fixed with Anchor.
//
//   - If the child's component is not anchored, the whole component is moved
//     rigidly so that abs(child) = abs(parent) * j.Local * motion *
//     inverse(other.Local). Sub-assemblies may therefore be built first and
//     attached later.
//   - Otherwise, if the parent's component is not anchored, it is moved by the
//     inverse rule so that the parent meets the fixed child.
//   - If both parts are already in the same component the link is a closing
//     edge and nothing moves; use CheckClosure to verify such edges.
//   - Linking two distinct anchored components fails with InvalidParameter.
func (j *Joint) Connect(other *Joint, opts ...ConnectOption) error {
	var a Articulation
	for _, opt := range opts {
		opt(&a)
	}

	if other == nil {
		return newError(CodeInvalidParameter, j, "connect to nil joint")
	}
	if other.part == j.part {
		return newError(CodeInvalidParameter, j, "cannot connect %s to a joint on the same part", other)
	}

	linkMu.Lock()
	defer linkMu.Unlock()

	if j.peer != nil {
		return newError(CodeAlreadyConnected, j, "already connected to %s", j.peer)
	}
	if other.peer != nil {
		return newError(CodeAlreadyConnected, other, "already connected to %s", other.peer)
	}

	motion, err := articulate(j, other, a)
	if err != nil {
		return err
	}

	parents := component(j.part)
	var move []*Part
	var to geom.Transform
	if !contains(parents, other.part) {
		children := component(other.part)
		switch {
		case !anchored(children):
			move = children
			to = j.part.location.Mul(j.local).Mul(motion).Mul(other.local.Inverse())
		case !anchored(parents):
			move = parents
			to = other.part.location.Mul(other.local).Mul(motion.Inverse()).Mul(j.local.Inverse())
		default:
			return newError(CodeInvalidParameter, j,
				"cannot connect to %s: both parts are anchored independently", other)
		}
	}

	j.peer, other.peer = other, j
	j.parent, other.parent = true, false
	j.articulation = motion
	j.params, other.params = a, a

	if move != nil {
		relocate(move, to)
	}
	return nil
}

// component returns every part connected to p, starting with p.
// Callers hold linkMu.
func component(p *Part) []*Part {
	seen := map[*Part]bool{p: true}
	out := []*Part{p}
	for i := 0; i < len(out); i++ {
		for _, j := range out[i].joints {
			if j.peer == nil || seen[j.peer.part] {
				continue
			}
			seen[j.peer.part] = true
			out = append(out, j.peer.part)
		}
	}
	return out
}

func contains(parts []*Part, p *Part) bool {
	for _, q := range parts {
		if q == p {
			return true
		}
	}
	return false
}

// anchored reports whether any of parts was fixed with Anchor.
func anchored(parts []*Part) bool {
	for _, q := range parts {
		if q.anchored {
			return true
		}
	}
	return false
}

// relocate moves parts rigidly so that parts[0] lands at to.
func relocate(parts []*Part, to geom.Transform) {
	delta := to.Mul(parts[0].location.Inverse())
	parts[0].location = to
	for _, q := range parts[1:] {
		q.location = delta.Mul(q.location)
	}
}

// articulate validates a against the joint kinds and ranges and returns the
// transform inserted between the parent and child frames.
func articulate(parent, child *Joint, a Articulation) (geom.Transform, error) {
	if (parent.kind == Linear && child.kind == Cylindrical) || (parent.kind == Cylindrical && child.kind == Linear) {
		return geom.Transform{}, newError(CodeInvalidParameter, child,
			"cannot connect %s joint to %s joint", parent.kind, child.kind)
	}

	// The child is the moving side whenever it can move.
	mover := child
	if !child.movable() {
		mover = parent
	}

	if !mover.movable() {
		if a.HasAngle || a.HasPosition {
			return geom.Transform{}, newError(CodeInvalidParameter, child,
				"rigid joints take no articulation parameters")
		}
		return geom.Identity(), nil
	}

	if a.HasAngle && mover.kind != Cylindrical {
		return geom.Transform{}, newError(CodeInvalidParameter, mover,
			"%s joint cannot rotate", mover.kind)
	}
	// A value is accepted when it lies in the range of either side that
	// offers the degree of freedom.
	peer := parent
	if mover == parent {
		peer = child
	}
	if a.HasAngle && !mover.angle.Contains(a.Angle) &&
		!(peer.kind == Cylindrical && peer.angle.Contains(a.Angle)) {
		return geom.Transform{}, newError(CodeOutOfRange, mover,
			"angle %g outside %s", a.Angle, mover.angle)
	}
	if a.HasPosition && !mover.travel.Contains(a.Position) &&
		!(peer.movable() && peer.travel.Contains(a.Position)) {
		return geom.Transform{}, newError(CodeOutOfRange, mover,
			"position %g outside %s", a.Position, mover.travel)
	}

	motion := a.Transform()
	if mover == child {
		return motion.Inverse(), nil
	}
	return motion, nil
}
