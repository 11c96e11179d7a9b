package engine

import (
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
	"github.com/ezrec/3dp-wilbur/pkg/wilbur"
)

// Script is what a pose script asked for. Only the axes and dimensions
// the script mentioned are present.
type Script struct {
	Pose      map[string]float64 // keyed by x, y, z
	Overrides map[string]float64 // keyed by stackup.OverrideName
}

// NewScript returns an empty Script.
func NewScript() *Script {
	return &Script{
		Pose:      make(map[string]float64),
		Overrides: make(map[string]float64),
	}
}

// Empty reports whether the script set nothing.
func (s *Script) Empty() bool {
	return len(s.Pose) == 0 && len(s.Overrides) == 0
}

// ApplyPose copies the axes the script set onto p.
func (s *Script) ApplyPose(p *wilbur.Pose) {
	if v, ok := s.Pose["x"]; ok {
		p.ToolX = v
	}
	if v, ok := s.Pose["y"]; ok {
		p.ToolY = v
	}
	if v, ok := s.Pose["z"]; ok {
		p.ToolZ = v
	}
}

// ApplyReference applies the script's dimension overrides to ref.
func (s *Script) ApplyReference(ref *stackup.Reference) error {
	return ref.Apply(s.Overrides)
}
