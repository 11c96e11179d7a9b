package wilbur

import "fmt"

// Pose is the articulation the assembly is built in: where the tool head
// sits on the gantry.
type Pose struct {
	ToolX float64 `json:"tool_x" yaml:"tool_x"` // along the rods
	ToolY float64 `json:"tool_y" yaml:"tool_y"` // along the rails
	ToolZ float64 `json:"tool_z" yaml:"tool_z"` // gantry height above the frame origin
}

// DefaultPose is the pose the frame is drawn in.
func DefaultPose() Pose {
	return Pose{ToolX: -140, ToolY: 150, ToolZ: 0}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.ToolX, p.ToolY, p.ToolZ)
}
