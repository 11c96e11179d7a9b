// Package tessellate walks an assembly graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per part, at the part's
// absolute placement.
package tessellate

import (
	"fmt"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
)

// Placed is a part's geometry moved to the part's absolute location.
type Placed struct {
	Part  *assembly.Part
	Solid kernel.Solid
}

// Filter selects parts by material. An empty filter selects every part.
type Filter []assembly.Material

// Selects reports whether parts of material m pass the filter.
func (f Filter) Selects(m assembly.Material) bool {
	if len(f) == 0 {
		return true
	}
	for _, want := range f {
		if want == m {
			return true
		}
	}
	return false
}

// Place walks the graph from root in breadth-first order and returns the
// placed geometry of every selected part. Parts without geometry are skipped.
// The walk is read-only and never mutates the graph.
func Place(root *assembly.Part, k kernel.Kernel, filter Filter) ([]Placed, error) {
	if root == nil {
		return nil, nil
	}

	var placed []Placed
	err := assembly.Walk(root, func(p *assembly.Part, via *assembly.Joint) error {
		if !p.Anchored() {
			return fmt.Errorf("tessellate: part %s has no placement", p.Label())
		}
		if p.Geometry() == nil || !filter.Selects(p.Material()) {
			return nil
		}
		placed = append(placed, Placed{
			Part:  p,
			Solid: k.Transform(p.Geometry(), p.Location()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// Tessellate produces one triangle mesh per selected part, tagged with the
// part label, material and preview colour.
func Tessellate(root *assembly.Part, k kernel.Kernel, filter Filter) ([]*kernel.Mesh, error) {
	placed, err := Place(root, k, filter)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(placed))
	for _, pl := range placed {
		mesh, err := k.ToMesh(pl.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %s: %w", pl.Part.Label(), err)
		}
		mesh.PartName = pl.Part.Label()
		mesh.Material = string(pl.Part.Material())
		mesh.Color = pl.Part.Material().Color()
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
