package assembly

import (
	"errors"
	"sync"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPart(t *testing.T, label string, decls ...JointDecl) *Part {
	t.Helper()
	p, err := NewPart(label, Other, nil, nil, decls...)
	require.NoError(t, err)
	return p
}

func rodAndBearing(t *testing.T) (*Part, *Part) {
	t.Helper()
	rod := mustPart(t, "rod",
		RigidJoint("left", geom.At(-200, 0, 0)),
		RigidJoint("right", geom.At(200, 0, 0)),
		CylindricalJoint("slide", geom.AxisFrame(v3.Vec{}, v3.Vec{X: 1}), Symmetric(200)),
	)
	bearing := mustPart(t, "bearing",
		RigidJoint("slide", geom.Rotation(0, 90, 0)),
		RigidJoint("mount", geom.At(0, 0, 11)),
	)
	return rod, bearing
}

func TestNewPartDuplicateJoint(t *testing.T) {
	_, err := NewPart("p", Metal, nil, nil,
		RigidJoint("a", geom.Identity()),
		RigidJoint("a", geom.At(1, 0, 0)),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateJointName)
}

func TestPartJointLookup(t *testing.T) {
	p := mustPart(t, "p",
		RigidJoint("b", geom.Identity()),
		LinearJoint("a", geom.Identity(), Symmetric(5)),
	)

	j, err := p.Joint("a")
	require.NoError(t, err)
	assert.Equal(t, Linear, j.Kind())
	assert.Equal(t, p, j.Part())
	assert.Equal(t, []string{"b", "a"}, p.JointLabels())

	_, err = p.Joint("missing")
	assert.ErrorIs(t, err, ErrUnknownJoint)
	assert.True(t, IsUnknownJoint(err))
	assert.Panics(t, func() { p.MustJoint("missing") })
}

func TestPartDimensions(t *testing.T) {
	dims := Dimensions{"size": {34, 30}, "mount": {11}}
	p, err := NewPart("bearing", Metal, dims, nil)
	require.NoError(t, err)

	dims["size"][0] = 0 // caller mutation must not leak in
	size, ok := p.Dimension("size")
	require.True(t, ok)
	assert.Equal(t, []float64{34, 30}, size)
	assert.Equal(t, 11.0, p.Scalar("mount"))
	assert.Equal(t, 0.0, p.Scalar("missing"))
	assert.Equal(t, []string{"mount", "size"}, p.DimensionNames())
}

func TestMaterial(t *testing.T) {
	assert.Equal(t, Plastic, ParseMaterial(" Plastic "))
	assert.Equal(t, Other, ParseMaterial("wood"))
	assert.Equal(t, "steelblue", Metal.Color())
	assert.Equal(t, "wheat", MDF.Color())
	assert.Equal(t, "green", Plastic.Color())
	assert.Equal(t, "yellow", Other.Color())
}

func TestConnectSymmetric(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.At(1, 2, 3)))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))

	ja, jb := a.MustJoint("m"), b.MustJoint("m")
	require.NoError(t, ja.Connect(jb))

	assert.Equal(t, jb, ja.Peer())
	assert.Equal(t, ja, jb.Peer())
	assert.True(t, ja.IsParent())
	assert.False(t, jb.IsParent())
	assert.True(t, b.Location().ApproxEqual(geom.At(1, 2, 3), geom.Tolerance))
}

func TestConnectAlreadyConnected(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))
	c := mustPart(t, "c", RigidJoint("m", geom.Identity()))

	require.NoError(t, a.MustJoint("m").Connect(b.MustJoint("m")))
	err := a.MustJoint("m").Connect(c.MustJoint("m"))
	assert.ErrorIs(t, err, ErrAlreadyConnected)
	assert.True(t, IsAlreadyConnected(err))
	assert.Nil(t, c.MustJoint("m").Peer())

	err = c.MustJoint("m").Connect(b.MustJoint("m"))
	assert.True(t, IsAlreadyConnected(err))
}

func TestConnectSamePart(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("x", geom.Identity()), RigidJoint("y", geom.Identity()))
	err := a.MustJoint("x").Connect(a.MustJoint("y"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.ErrorIs(t, a.MustJoint("x").Connect(nil), ErrInvalidParameter)
}

func TestConnectRanges(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConnectOption
		wantErr error
	}{
		{"inside", []ConnectOption{WithPosition(150)}, nil},
		{"at limit", []ConnectOption{WithPosition(-200)}, nil},
		{"beyond", []ConnectOption{WithPosition(250)}, ErrOutOfRange},
		{"angle unbounded", []ConnectOption{WithAngle(270), WithPosition(-130)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rod, bearing := rodAndBearing(t)
			err := bearing.MustJoint("slide").Connect(rod.MustJoint("slide"), tt.opts...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsOutOfRange(err))
				assert.Nil(t, rod.MustJoint("slide").Peer())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConnectRigidParameters(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))
	err := a.MustJoint("m").Connect(b.MustJoint("m"), WithPosition(1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.True(t, IsInvalidParameter(err))
}

func TestConnectAngleOnLinear(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", LinearJoint("m", geom.Identity(), Symmetric(10)))
	err := a.MustJoint("m").Connect(b.MustJoint("m"), WithAngle(90))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestConnectLinearCylindrical(t *testing.T) {
	a := mustPart(t, "a", LinearJoint("m", geom.Identity(), Symmetric(10)))
	b := mustPart(t, "b", CylindricalJoint("m", geom.Identity(), Symmetric(10)))
	err := a.MustJoint("m").Connect(b.MustJoint("m"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestConnectPlacesAlongChildAxis(t *testing.T) {
	rod, bearing := rodAndBearing(t)
	require.NoError(t, bearing.MustJoint("slide").Connect(rod.MustJoint("slide"), WithPosition(50)))

	// The bearing sits at x=50 on the rod, so the rod is shifted by -50.
	got := rod.Location().Apply(v3.Vec{X: 50})
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)
	assert.Empty(t, CheckClosure(bearing, geom.Tolerance))
}

func TestConnectPlacesAlongParentAxis(t *testing.T) {
	rail := mustPart(t, "rail", LinearJoint("slide", geom.At(0, 0, 250), Symmetric(250)))
	pillow := mustPart(t, "pillow", RigidJoint("slide", geom.Identity()))

	require.NoError(t, rail.MustJoint("slide").Connect(pillow.MustJoint("slide"), WithPosition(100)))
	assert.True(t, pillow.Location().ApproxEqual(geom.At(0, 0, 350), geom.Tolerance))
}

func TestConnectBranchFirst(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("m", geom.At(10, 0, 0)))
	b := mustPart(t, "b", RigidJoint("in", geom.Identity()), RigidJoint("out", geom.At(0, 5, 0)))
	c := mustPart(t, "c", RigidJoint("in", geom.Identity()))
	root.Anchor(geom.Identity())

	require.NoError(t, b.MustJoint("out").Connect(c.MustJoint("in")))
	assert.False(t, b.Anchored())
	assert.False(t, c.Anchored())

	require.NoError(t, root.MustJoint("m").Connect(b.MustJoint("in")))
	assert.True(t, b.Location().ApproxEqual(geom.At(10, 0, 0), geom.Tolerance), "b at %s", b.Location())
	assert.True(t, c.Location().ApproxEqual(geom.At(10, 5, 0), geom.Tolerance), "c at %s", c.Location())
	assert.True(t, c.Anchored())
	assert.Empty(t, CheckClosure(root, geom.Tolerance))
	assert.Empty(t, New(root).Validate())
}

func TestConnectTowardAnchored(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("m", geom.At(10, 0, 0)))
	x := mustPart(t, "x", RigidJoint("m", geom.At(0, 0, 1)), RigidJoint("tip", geom.At(0, 0, 2)))
	y := mustPart(t, "y", RigidJoint("m", geom.Identity()))
	root.Anchor(geom.Identity())
	require.NoError(t, x.MustJoint("tip").Connect(y.MustJoint("m")))

	require.NoError(t, x.MustJoint("m").Connect(root.MustJoint("m")))
	assert.True(t, root.Location().ApproxEqual(geom.Identity(), geom.Tolerance))
	assert.True(t, x.Location().ApproxEqual(geom.At(10, 0, -1), geom.Tolerance), "x at %s", x.Location())
	assert.True(t, x.MustJoint("m").World().ApproxEqual(root.MustJoint("m").World(), geom.Tolerance))
	assert.True(t, y.Location().ApproxEqual(geom.At(10, 0, 1), geom.Tolerance), "y at %s", y.Location())
	assert.Empty(t, CheckClosure(root, geom.Tolerance))
}

func TestConnectTowardAnchoredSlide(t *testing.T) {
	rod, bearing := rodAndBearing(t)
	rod.Anchor(geom.Identity())

	// The bearing is the parent but the rod is fixed, so the bearing moves
	// to x=50 along the rod.
	require.NoError(t, bearing.MustJoint("slide").Connect(rod.MustJoint("slide"), WithPosition(50)))
	got := bearing.Location().Position()
	assert.InDelta(t, 50, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)
	assert.Empty(t, CheckClosure(rod, geom.Tolerance))
}

func TestConnectTwoAnchored(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))
	a.Anchor(geom.Identity())
	b.Anchor(geom.At(0, 0, 7))

	err := a.MustJoint("m").Connect(b.MustJoint("m"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Nil(t, a.MustJoint("m").Peer())
	assert.Nil(t, b.MustJoint("m").Peer())
	assert.True(t, b.Location().ApproxEqual(geom.At(0, 0, 7), geom.Tolerance))
}

func TestAnchorMovesConnected(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.At(1, 0, 0)))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))
	require.NoError(t, a.MustJoint("m").Connect(b.MustJoint("m")))

	a.Anchor(geom.At(0, 0, 5))
	assert.True(t, a.Anchored())
	assert.True(t, b.Anchored())
	assert.True(t, b.Location().ApproxEqual(geom.At(1, 0, 5), geom.Tolerance), "b at %s", b.Location())
}

func TestConnectEitherRange(t *testing.T) {
	tests := []struct {
		name    string
		pos     float64
		wantErr bool
	}{
		{"child range", 50, false},
		{"parent range only", 200, false},
		{"neither", 400, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustPart(t, "a", CylindricalJoint("m", geom.Identity(), Symmetric(300)))
			b := mustPart(t, "b", CylindricalJoint("m", geom.Identity(), Symmetric(100)))
			err := a.MustJoint("m").Connect(b.MustJoint("m"), WithPosition(tt.pos))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPlacementAssociativity(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("out", geom.Location(v3.Vec{X: 10}, v3.Vec{Z: 90})))
	b := mustPart(t, "b",
		RigidJoint("in", geom.At(0, 5, 0)),
		RigidJoint("out", geom.Location(v3.Vec{Y: 7}, v3.Vec{X: 90})),
	)
	c := mustPart(t, "c",
		RigidJoint("in", geom.At(1, 0, 0)),
		RigidJoint("out", geom.At(0, 0, 3)),
	)
	d := mustPart(t, "d", RigidJoint("in", geom.Rotation(0, 0, 45)))

	require.NoError(t, a.MustJoint("out").Connect(b.MustJoint("in")))
	require.NoError(t, b.MustJoint("out").Connect(c.MustJoint("in")))
	require.NoError(t, c.MustJoint("out").Connect(d.MustJoint("in")))

	want := a.MustJoint("out").Local().
		Mul(b.MustJoint("in").Local().Inverse()).
		Mul(b.MustJoint("out").Local()).
		Mul(c.MustJoint("in").Local().Inverse()).
		Mul(c.MustJoint("out").Local()).
		Mul(d.MustJoint("in").Local().Inverse())
	assert.True(t, d.Location().ApproxEqual(want, geom.Tolerance), "got %s want %s", d.Location(), want)

	// Joint frames coincide at every hop.
	assert.True(t, a.MustJoint("out").World().ApproxEqual(b.MustJoint("in").World(), geom.Tolerance))
	assert.True(t, c.MustJoint("out").World().ApproxEqual(d.MustJoint("in").World(), geom.Tolerance))
}

func TestWalkWithClosingEdge(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("l", geom.At(-1, 0, 0)), RigidJoint("r", geom.At(1, 0, 0)))
	left := mustPart(t, "left", RigidJoint("in", geom.Identity()), RigidJoint("out", geom.At(0, 1, 0)))
	right := mustPart(t, "right", RigidJoint("in", geom.Identity()), RigidJoint("out", geom.At(0, 1, 0)))
	bar := mustPart(t, "bar", RigidJoint("l", geom.At(-1, 0, 0)), RigidJoint("r", geom.At(1, 0, 0)))

	require.NoError(t, root.MustJoint("l").Connect(left.MustJoint("in")))
	require.NoError(t, root.MustJoint("r").Connect(right.MustJoint("in")))
	require.NoError(t, left.MustJoint("out").Connect(bar.MustJoint("l")))
	// Closing edge: bar is already placed and must not move.
	before := bar.Location()
	require.NoError(t, right.MustJoint("out").Connect(bar.MustJoint("r")))
	assert.Equal(t, before, bar.Location())

	var labels []string
	var vias []string
	require.NoError(t, Walk(root, func(p *Part, via *Joint) error {
		labels = append(labels, p.Label())
		if via != nil {
			vias = append(vias, via.Label())
		}
		return nil
	}))
	assert.Equal(t, []string{"root", "left", "right", "bar"}, labels)
	assert.Equal(t, []string{"in", "in", "l"}, vias)
	assert.Empty(t, CheckClosure(root, geom.Tolerance))
	assert.Len(t, Edges(root), 4)
}

func TestCheckClosureMismatch(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("l", geom.At(-1, 0, 0)), RigidJoint("r", geom.At(1, 0, 0)))
	bar := mustPart(t, "bar", RigidJoint("l", geom.Identity()), RigidJoint("r", geom.At(3, 0, 0)))

	require.NoError(t, root.MustJoint("l").Connect(bar.MustJoint("l")))
	require.NoError(t, root.MustJoint("r").Connect(bar.MustJoint("r")))

	errs := CheckClosure(root, geom.Tolerance)
	require.Len(t, errs, 1)
	assert.InDelta(t, 1.0, errs[0].Distance, 1e-9)
	assert.Contains(t, errs[0].Error(), "root:r")
}

func TestWalkStopsOnError(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", RigidJoint("m", geom.Identity()))
	require.NoError(t, a.MustJoint("m").Connect(b.MustJoint("m")))

	stop := errors.New("stop")
	n := 0
	err := Walk(a, func(*Part, *Joint) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestAssemblyValidate(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("m", geom.Identity()))
	child := mustPart(t, "child", RigidJoint("m", geom.Identity()))
	orphan := mustPart(t, "orphan", RigidJoint("m", geom.Identity()))

	require.NoError(t, root.MustJoint("m").Connect(child.MustJoint("m")))

	asm := New(root)
	asm.Add(child, orphan)

	errs := asm.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "orphan", errs[0].Part)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.Contains(t, errs[0].Error(), "not reachable")

	p, ok := asm.Part("child")
	assert.True(t, ok)
	assert.Equal(t, child, p)
	assert.Len(t, asm.Registered(), 3)
}

func TestAssemblyValidateDuplicateLabels(t *testing.T) {
	root := mustPart(t, "root", RigidJoint("a", geom.Identity()), RigidJoint("b", geom.Identity()))
	x1 := mustPart(t, "x", RigidJoint("m", geom.Identity()))
	x2 := mustPart(t, "x", RigidJoint("m", geom.Identity()))
	require.NoError(t, root.MustJoint("a").Connect(x1.MustJoint("m")))
	require.NoError(t, root.MustJoint("b").Connect(x2.MustJoint("m")))

	errs := New(root).Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "x", errs[0].Part)
}

func TestPlacedAt(t *testing.T) {
	a := mustPart(t, "a", RigidJoint("m", geom.Identity()))
	b := mustPart(t, "b", RigidJoint("m", geom.At(0, 0, 1)))
	require.NoError(t, a.MustJoint("m").Connect(b.MustJoint("m")))

	moved := b.PlacedAt(geom.At(5, 0, 0))
	assert.True(t, moved.Location().ApproxEqual(geom.At(5, 0, -1), geom.Tolerance))
	assert.Nil(t, moved.MustJoint("m").Peer())
	assert.Equal(t, b.JointLabels(), moved.JointLabels())
	assert.NotNil(t, b.MustJoint("m").Peer())
}

func TestConnectConcurrent(t *testing.T) {
	hub := mustPart(t, "hub", RigidJoint("m", geom.Identity()))
	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := NewPart("spoke", Other, nil, nil, RigidJoint("m", geom.Identity()))
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = hub.MustJoint("m").Connect(p.MustJoint("m"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.True(t, IsAlreadyConnected(err))
		}
	}
	assert.Equal(t, 1, ok)
}
