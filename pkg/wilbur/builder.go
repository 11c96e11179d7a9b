// Package wilbur assembles the Core-XY printer from the hardware catalogue
// and the printed parts. The L-R carriage is the root; every other part is
// placed by a joint connection issued in a fixed order.
package wilbur

import (
	"fmt"
	"log/slog"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/hardware"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/printed"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
)

// RootLabel is the label of the root part.
const RootLabel = "carriage_lr"

// Option configures a Builder.
type Option func(*Builder)

// WithKernel sets the geometry kernel. The default only tracks bounds.
func WithKernel(k kernel.Kernel) Option {
	return func(b *Builder) { b.kernel = k }
}

// WithPose sets the articulation pose.
func WithPose(p Pose) Option {
	return func(b *Builder) { b.pose = p }
}

// WithLogger sets the logger. Connections are logged at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Builder builds the printer from one shared Stackup.
type Builder struct {
	stackup stackup.Stackup
	kernel  kernel.Kernel
	pose    Pose
	logger  *slog.Logger
}

// New derives the stack-up from ref and returns a Builder. Dimension errors
// are reported here, before any part exists.
func New(ref stackup.Reference, opts ...Option) (*Builder, error) {
	s, err := stackup.Derive(ref)
	if err != nil {
		return nil, fmt.Errorf("wilbur: %w", err)
	}
	b := &Builder{
		stackup: s,
		pose:    DefaultPose(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.kernel == nil {
		b.kernel = kernel.NewBoundsKernel()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b, nil
}

// Stackup returns the derived stack-up the builder uses.
func (b *Builder) Stackup() stackup.Stackup { return b.stackup }

// Pose returns the articulation pose.
func (b *Builder) Pose() Pose { return b.pose }

// parts holds every part of one build, keyed the way the connections use them.
type parts struct {
	tool       *assembly.Part
	rod        map[printed.Level]*assembly.Part
	rail       map[printed.Side]*assembly.Part
	railPillow map[printed.Side]*assembly.Part
	rodBearing map[printed.Level]*assembly.Part
	fbIdler    map[printed.Side]map[printed.Level]*assembly.Part
	ibIdler    map[printed.Side]map[printed.Level]*assembly.Part
	vslot      map[string]*assembly.Part
	nema       map[printed.Side]*assembly.Part
	nemaPlate  map[printed.Side]*assembly.Part
	carriageLR *assembly.Part
	carriageFB map[printed.Level]map[printed.Side]*assembly.Part
	idlerBlock map[printed.Side]*assembly.Part

	all []*assembly.Part
}

// maker records the result of a generator, keeping the first error.
type maker struct {
	all []*assembly.Part
	err error
}

func (m *maker) add(p *assembly.Part, err error) *assembly.Part {
	if m.err != nil {
		return nil
	}
	if err != nil {
		m.err = err
		return nil
	}
	m.all = append(m.all, p)
	return p
}

func (b *Builder) makeParts() (*parts, error) {
	s := b.stackup
	k := b.kernel
	m := &maker{}

	p := &parts{
		rod:        map[printed.Level]*assembly.Part{},
		rail:       map[printed.Side]*assembly.Part{},
		railPillow: map[printed.Side]*assembly.Part{},
		rodBearing: map[printed.Level]*assembly.Part{},
		fbIdler:    map[printed.Side]map[printed.Level]*assembly.Part{},
		ibIdler:    map[printed.Side]map[printed.Level]*assembly.Part{},
		vslot:      map[string]*assembly.Part{},
		nema:       map[printed.Side]*assembly.Part{},
		nemaPlate:  map[printed.Side]*assembly.Part{},
		carriageFB: map[printed.Level]map[printed.Side]*assembly.Part{},
		idlerBlock: map[printed.Side]*assembly.Part{},
	}

	// Hardware.
	p.tool = m.add(hardware.NewHermitCrab().Part(k, "toolhead"))
	for _, level := range printed.Levels {
		p.rod[level] = m.add(s.Rod.Part(k, "rod_"+string(level)))
	}
	for _, side := range []printed.Side{printed.Left, printed.Right} {
		p.rail[side] = m.add(s.Rail.Part(k, "rail_"+string(side)))
	}
	for _, side := range []printed.Side{printed.Left, printed.Right} {
		p.railPillow[side] = m.add(s.RailPillow.Part(k, "rail_pillow_"+string(side)))
	}
	for _, level := range printed.Levels {
		p.rodBearing[level] = m.add(s.RodPillow.Part(k, "sc8uu_rod_"+string(level)))
	}
	for _, side := range printed.Sides {
		p.fbIdler[side] = map[printed.Level]*assembly.Part{}
		for _, level := range printed.Levels {
			p.fbIdler[side][level] = m.add(s.Idler.Part(k, fmt.Sprintf("idler_fb_%s_%s", side, level)))
		}
	}
	for _, side := range printed.Sides {
		p.ibIdler[side] = map[printed.Level]*assembly.Part{}
		for _, level := range printed.Levels {
			p.ibIdler[side][level] = m.add(s.Idler.Part(k, fmt.Sprintf("idler_ib_%s_%s", side, level)))
		}
	}
	for _, end := range []string{"front", "back"} {
		p.vslot[end] = m.add(s.VSlot.Part(k, "vslot_"+end))
	}
	for _, side := range printed.Sides {
		p.nema[side] = m.add(s.Nema.Part(k, "nema_"+string(side)))
	}
	for _, side := range printed.Sides {
		p.nemaPlate[side] = m.add(printed.Nema17Plate(k, "nema_plate_"+string(side)))
	}

	// Printed parts.
	p.carriageLR = m.add(printed.CarriageLR(s, k, RootLabel))
	for _, level := range printed.Levels {
		p.carriageFB[level] = map[printed.Side]*assembly.Part{}
		for _, side := range printed.Sides {
			label := fmt.Sprintf("carriage_fb_%s_%s", level.Short(), side)
			p.carriageFB[level][side] = m.add(printed.CarriageFB(s, k, side, level, label))
		}
	}
	for _, side := range printed.Sides {
		p.idlerBlock[side] = m.add(printed.IdlerBlock(s, k, side, "idler_block_"+string(side)))
	}

	if m.err != nil {
		return nil, fmt.Errorf("wilbur: generate parts: %w", m.err)
	}
	p.all = m.all
	return p, nil
}

// linker issues connections and stops at the first failure.
type linker struct {
	logger *slog.Logger
	err    error
	n      int
}

func (l *linker) connect(parent *assembly.Part, pj string, child *assembly.Part, cj string, opts ...assembly.ConnectOption) {
	if l.err != nil {
		return
	}
	from, err := parent.Joint(pj)
	if err != nil {
		l.err = fmt.Errorf("wilbur: connect %s:%s: %w", parent.Label(), pj, err)
		return
	}
	to, err := child.Joint(cj)
	if err != nil {
		l.err = fmt.Errorf("wilbur: connect %s:%s: %w", child.Label(), cj, err)
		return
	}
	if err := from.Connect(to, opts...); err != nil {
		l.err = fmt.Errorf("wilbur: connect %s -> %s: %w", from, to, err)
		return
	}
	l.n++
	l.logger.Debug("connected",
		slog.String("parent", parent.Label()),
		slog.String("joint", pj),
		slog.String("child", child.Label()),
		slog.String("child_joint", cj))
}

// Build generates every part and connects them in order. It fails on the
// first generator or connection error.
func (b *Builder) Build() (*assembly.Assembly, error) {
	p, err := b.makeParts()
	if err != nil {
		return nil, err
	}
	s := b.stackup
	pose := b.pose

	p.carriageLR.Anchor(geom.At(0, 0, pose.ToolZ))
	l := &linker{logger: b.logger}

	// Tool head and rod bearings on the L-R carriage.
	l.connect(p.carriageLR, "tool", p.tool, "mount")
	for _, level := range printed.Levels {
		l.connect(p.carriageLR, string(level), p.rodBearing[level], "mount")
	}
	for _, level := range printed.Levels {
		l.connect(p.rodBearing[level], "slide", p.rod[level], "slide",
			assembly.WithAngle(270),
			assembly.WithPosition(pose.ToolX+printed.LROffset(s, level)))
	}

	// F-B carriages on the upper rod ends, riding the rails.
	for _, side := range printed.Sides {
		upper := p.carriageFB[printed.Upper][side]
		lower := p.carriageFB[printed.Lower][side]
		pillow := p.railPillow[side]

		l.connect(p.rod[printed.Upper], string(side), upper, "upper")
		l.connect(upper, "mount", pillow, "mount")
		l.connect(pillow, "mount_lower", lower, "mount")
		l.connect(pillow, "slide", p.rail[side], "slide", assembly.WithPosition(pose.ToolY))
		for _, level := range printed.Levels {
			l.connect(upper, "idler_"+string(level), p.fbIdler[side][level], "mount")
		}
	}

	// Extrusions hang off the right rail.
	front, back := p.vslot["front"], p.vslot["back"]
	l.connect(p.rail[printed.Right], "right", front, "right")
	l.connect(p.rail[printed.Right], "left", back, "right")

	half := s.VSlot.Length / 2
	for _, side := range printed.Sides {
		pos, nut := half, "north"
		if side == printed.Left {
			pos, nut = -half, hardware.SecondNut("north")
		}
		l.connect(front, nut, p.idlerBlock[side], "vslot", assembly.WithPosition(pos))
		for _, level := range printed.Levels {
			l.connect(p.idlerBlock[side], "idler_"+string(level), p.ibIdler[side][level], "mount")
		}
	}

	for _, side := range printed.Sides {
		pos, nut := -s.NemaSlot, "east"
		if side == printed.Left {
			pos, nut = s.NemaSlot, hardware.SecondNut("east")
		}
		l.connect(back, nut, p.nemaPlate[side], "mount_2", assembly.WithPosition(pos))
		l.connect(p.nemaPlate[side], "mount_nema", p.nema[side], "axis")
	}

	if l.err != nil {
		return nil, l.err
	}

	asm := assembly.New(p.carriageLR)
	for _, part := range p.all {
		if part != p.carriageLR {
			asm.Add(part)
		}
	}
	b.logger.Debug("assembly built",
		slog.Int("parts", len(p.all)),
		slog.Int("connections", l.n),
		slog.String("pose", pose.String()))
	return asm, nil
}
