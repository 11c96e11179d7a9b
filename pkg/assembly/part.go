package assembly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Material classifies a part for rendering and export filtering.
type Material string

const (
	Metal   Material = "metal"
	MDF     Material = "mdf"
	Plastic Material = "plastic"
	Other   Material = "other"
)

// Color returns the display color name used for the material.
func (m Material) Color() string {
	switch m {
	case Metal:
		return "steelblue"
	case MDF:
		return "wheat"
	case Plastic:
		return "green"
	default:
		return "yellow"
	}
}

// ParseMaterial maps a material name to a Material. Unknown names yield Other.
func ParseMaterial(s string) Material {
	switch Material(strings.ToLower(strings.TrimSpace(s))) {
	case Metal:
		return Metal
	case MDF:
		return MDF
	case Plastic:
		return Plastic
	default:
		return Other
	}
}

// Dimensions holds the named measurements a part exposes, e.g. "size" or
// "bolt_pattern". Scalars are stored as one-element slices.
type Dimensions map[string][]float64

// Part is a rigid body with named joints and an optional geometry handle.
type Part struct {
	label    string
	material Material
	dims     Dimensions
	geometry kernel.Solid

	joints []*Joint
	byName map[string]*Joint

	// Guarded by linkMu.
	location geom.Transform
	anchored bool // fixed in the world by Anchor
}

// NewPart creates a part with the given joints. Joint labels must be unique.
func NewPart(label string, material Material, dims Dimensions, geometry kernel.Solid, decls ...JointDecl) (*Part, error) {
	if label == "" {
		return nil, &Error{Code: CodeInvalidParameter, Message: "part label is empty"}
	}
	p := &Part{
		label:    label,
		material: material,
		dims:     Dimensions{},
		geometry: geometry,
		byName:   make(map[string]*Joint, len(decls)),
		location: geom.Identity(),
	}
	for k, v := range dims {
		p.dims[k] = append([]float64(nil), v...)
	}
	for _, d := range decls {
		if err := p.declare(d); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Part) declare(d JointDecl) error {
	if d.Label == "" {
		return &Error{Code: CodeInvalidParameter, Part: p.label, Message: "joint label is empty"}
	}
	if _, dup := p.byName[d.Label]; dup {
		return &Error{
			Code:    CodeDuplicateJointName,
			Part:    p.label,
			Joint:   d.Label,
			Message: fmt.Sprintf("joint %q declared twice", d.Label),
		}
	}
	if d.Kind == Rigid {
		d.Angle, d.Travel = Range{}, Range{}
	} else if d.Kind == Linear {
		d.Angle = Range{}
	}
	j := newJoint(p, d)
	p.joints = append(p.joints, j)
	p.byName[d.Label] = j
	return nil
}

// Label returns the part name.
func (p *Part) Label() string { return p.label }

// Material returns the part material.
func (p *Part) Material() Material { return p.material }

// Geometry returns the geometry handle, which may be nil.
func (p *Part) Geometry() kernel.Solid { return p.geometry }

// Joint returns the joint with the given label.
func (p *Part) Joint(label string) (*Joint, error) {
	j, ok := p.byName[label]
	if !ok {
		return nil, &Error{
			Code:    CodeUnknownJoint,
			Part:    p.label,
			Joint:   label,
			Message: fmt.Sprintf("part %q has no joint %q", p.label, label),
		}
	}
	return j, nil
}

// MustJoint is like Joint but panics on unknown labels. Intended for
// generator-owned parts whose joint set is fixed.
func (p *Part) MustJoint(label string) *Joint {
	j, err := p.Joint(label)
	if err != nil {
		panic(err)
	}
	return j
}

// Joints returns the joints in declaration order.
func (p *Part) Joints() []*Joint {
	out := make([]*Joint, len(p.joints))
	copy(out, p.joints)
	return out
}

// JointLabels returns the joint labels in declaration order.
func (p *Part) JointLabels() []string {
	out := make([]string, len(p.joints))
	for i, j := range p.joints {
		out[i] = j.label
	}
	return out
}

// Dimension returns the named dimension and whether it exists.
func (p *Part) Dimension(name string) ([]float64, bool) {
	v, ok := p.dims[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Scalar returns the first element of the named dimension, or 0.
func (p *Part) Scalar(name string) float64 {
	v := p.dims[name]
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

// DimensionNames returns the dimension names in sorted order.
func (p *Part) DimensionNames() []string {
	names := make([]string, 0, len(p.dims))
	for k := range p.dims {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Location returns the absolute transform of the part.
func (p *Part) Location() geom.Transform {
	linkMu.RLock()
	defer linkMu.RUnlock()
	return p.location
}

// Anchored reports whether the part has a world placement: it was anchored
// itself, or it is connected through any chain of joints to an anchored part.
func (p *Part) Anchored() bool {
	linkMu.RLock()
	defer linkMu.RUnlock()
	return anchored(component(p))
}

// Anchor fixes the part at an absolute location. Parts already connected to
// it move with it. Typically used on the root.
func (p *Part) Anchor(t geom.Transform) {
	linkMu.Lock()
	defer linkMu.Unlock()
	relocate(component(p), t)
	p.anchored = true
}

// PlacedAt returns an unconnected copy of the part anchored at t times the
// current location. The geometry handle is shared.
func (p *Part) PlacedAt(t geom.Transform) *Part {
	linkMu.RLock()
	loc := p.location
	linkMu.RUnlock()

	q := &Part{
		label:    p.label,
		material: p.material,
		dims:     p.dims,
		geometry: p.geometry,
		byName:   make(map[string]*Joint, len(p.joints)),
		location: t.Mul(loc),
		anchored: true,
	}
	for _, j := range p.joints {
		nj := &Joint{
			label:  j.label,
			kind:   j.kind,
			local:  j.local,
			angle:  j.angle,
			travel: j.travel,
			part:   q,
		}
		q.joints = append(q.joints, nj)
		q.byName[nj.label] = nj
	}
	return q
}

func (p *Part) String() string {
	return p.label
}
