package sdfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ezrec/3dp-wilbur/pkg/geom"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, wantMin[i], min[i], tol, "min[%d]", i)
		assert.InDelta(t, wantMax[i], max[i], tol, "max[%d]", i)
	}
}

func TestBox(t *testing.T) {
	k := NewWithCells(testCells)
	box := k.Box(100, 50, 25)
	assertBounds(t, box, [3]float64{-50, -25, -12.5}, [3]float64{50, 25, 12.5}, 0.01)

	mesh, err := k.ToMesh(box)
	require.NoError(t, err)
	require.False(t, mesh.IsEmpty())
	assert.Equal(t, len(mesh.Vertices), len(mesh.Normals))
	assert.Equal(t, mesh.TriangleCount()*3, len(mesh.Indices))
}

func TestCylinder(t *testing.T) {
	k := NewWithCells(testCells)
	cyl := k.Cylinder(50, 10)
	assertBounds(t, cyl, [3]float64{-10, -10, -25}, [3]float64{10, 10, 25}, 0.01)

	mesh, err := k.ToMesh(cyl)
	require.NoError(t, err)
	assert.NotZero(t, mesh.TriangleCount())
}

func TestDifference(t *testing.T) {
	k := NewWithCells(testCells)
	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	require.NoError(t, err)

	diff := k.Difference(box, k.Cylinder(120, 20))
	diffMesh, err := k.ToMesh(diff)
	require.NoError(t, err)
	require.False(t, diffMesh.IsEmpty())
	// A box with a hole should have more triangles than a plain box.
	assert.Greater(t, diffMesh.TriangleCount(), boxMesh.TriangleCount())
}

func TestUnionAndIntersection(t *testing.T) {
	k := NewWithCells(testCells)
	a := k.Box(50, 50, 50)
	b := k.Transform(k.Box(50, 50, 50), geom.At(30, 0, 0))

	assertBounds(t, k.Union(a, b), [3]float64{-25, -25, -25}, [3]float64{55, 25, 25}, 0.5)

	mesh, err := k.ToMesh(k.Intersection(a, b))
	require.NoError(t, err)
	assert.False(t, mesh.IsEmpty())
}

func TestTransform(t *testing.T) {
	k := NewWithCells(testCells)
	moved := k.Transform(k.Box(10, 10, 10), geom.At(100, 200, 300))
	assertBounds(t, moved, [3]float64{95, 195, 295}, [3]float64{105, 205, 305}, 0.5)

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	rotated := k.Transform(k.Box(100, 10, 10), geom.Rotation(0, 0, 90))
	min, max := rotated.BoundingBox()
	assert.InDelta(t, 10, max[0]-min[0], 1.0)
	assert.InDelta(t, 100, max[1]-min[1], 1.0)
}

func TestMirror(t *testing.T) {
	k := NewWithCells(testCells)
	box := kernel.BoxAt(k, 0, 0, 10, 10, 10, 10)
	assertBounds(t, k.Mirror(box, kernel.PlaneXY), [3]float64{0, 0, -20}, [3]float64{10, 10, -10}, 0.5)
	assertBounds(t, k.Mirror(box, kernel.PlaneYZ), [3]float64{-10, 0, 10}, [3]float64{0, 10, 20}, 0.5)
	assertBounds(t, k.Mirror(box, kernel.PlaneXZ), [3]float64{0, -10, 10}, [3]float64{10, 0, 20}, 0.5)
}

func TestSaveSTL(t *testing.T) {
	k := NewWithCells(testCells)
	path := filepath.Join(t.TempDir(), "box.stl")
	require.NoError(t, k.SaveSTL(k.Box(10, 20, 30), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// Binary STL: 80 byte header, 4 byte count, 50 bytes per triangle.
	assert.Greater(t, info.Size(), int64(84))
}

func TestNewWithCellsDefault(t *testing.T) {
	assert.Equal(t, DefaultMeshCells, NewWithCells(0).cells)
	assert.Equal(t, DefaultMeshCells, New().cells)
}
