// Package assembly implements the kinematic joint graph that places parts
// relative to each other.
//
// A Part owns a set of named Joints, each with a local transform relative to
// the part origin. Connecting two joints links them in both directions and
// places the peer part:
//
//	abs(peer) = abs(self) * self.Local * articulation * inverse(peer.Local)
//
// That composition is the only way a part acquires an absolute pose, so every
// placement is defined transitively from the root. Parts connected before
// they reach an anchored part form a floating sub-assembly; when it is
// attached, the whole sub-assembly moves rigidly into place. Connecting from
// a floating part to an anchored one places the floating side by the inverse
// rule.
//
// Articulation convention: Cylindrical and Linear joints move along (and
// rotate about) the Z axis of their local frame. The angle/position given to
// Connect describes where the moving joint sits: when the parent (receiver)
// joint is the moving one the articulation is applied as-is; when the child
// (argument) joint is the moving one it is applied inverted, so the parent
// lands at that position on the child's axis. If both joints can move, the
// child's axis is used and the parent contributes only its fixed transform.
// A supplied angle or position is accepted when it lies within the range of
// either joint that offers that degree of freedom.
package assembly
