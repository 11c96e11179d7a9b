package export

import (
	"sort"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
)

// BOMGroup lists the parts of one material.
type BOMGroup struct {
	Material assembly.Material `json:"material" yaml:"material"`
	Color    string            `json:"color" yaml:"color"`
	Parts    []string          `json:"parts" yaml:"parts"`
}

// Count returns the number of parts in the group.
func (g BOMGroup) Count() int { return len(g.Parts) }

// BOM groups every part reachable from root by material. Groups are sorted
// by material name and part labels within a group are sorted.
func BOM(root *assembly.Part) []BOMGroup {
	byMat := map[assembly.Material][]string{}
	for _, p := range assembly.Parts(root) {
		byMat[p.Material()] = append(byMat[p.Material()], p.Label())
	}

	groups := make([]BOMGroup, 0, len(byMat))
	for mat, labels := range byMat {
		sort.Strings(labels)
		groups = append(groups, BOMGroup{Material: mat, Color: mat.Color(), Parts: labels})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Material < groups[j].Material })
	return groups
}
