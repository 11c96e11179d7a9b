package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/config"
	"github.com/ezrec/3dp-wilbur/pkg/engine"
	"github.com/ezrec/3dp-wilbur/pkg/export"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/kernel/sdfx"
	"github.com/ezrec/3dp-wilbur/pkg/tessellate"
	"github.com/ezrec/3dp-wilbur/pkg/wilbur"
)

// App wires configuration, the pose script engine, the assembly builder and
// the exporters together. Commands are thin wrappers around it.
type App struct {
	engine *engine.Engine
	loader *config.Loader
	logger *slog.Logger
}

// ScriptError reports the user-facing errors of a pose script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("script %s: %s", e.Path, strings.Join(msgs, "; "))
}

// PlacedPart is one line of the placement report.
type PlacedPart struct {
	Part     string     `json:"part" yaml:"part"`
	Material string     `json:"material" yaml:"material"`
	Parent   string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Joint    string     `json:"joint,omitempty" yaml:"joint,omitempty"`
	Position [3]float64 `json:"position" yaml:"position,flow"`
	Axis     [3]float64 `json:"axis" yaml:"axis,flow"`
}

// NewApp creates a new App logging to logger.
func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		engine: engine.NewEngine(),
		loader: config.NewLoader(logger),
		logger: logger,
	}
}

// Load reads the configuration at configPath (or the project wilbur.yaml)
// and applies the pose script on top of it. scriptPath, when set, replaces
// the script named in the configuration.
func (a *App) Load(configPath, scriptPath string) (*config.Config, error) {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return nil, err
	}
	if scriptPath != "" {
		cfg.Script = scriptPath
	}
	if cfg.Script == "" {
		return cfg, nil
	}

	s, evalErrs, err := a.engine.EvaluateFile(cfg.Script)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Path: cfg.Script, Errors: evalErrs}
	}
	a.logger.Debug("applied pose script",
		slog.String("path", cfg.Script),
		slog.Int("pose_axes", len(s.Pose)),
		slog.Int("overrides", len(s.Overrides)))

	pose := cfg.ToolPose()
	s.ApplyPose(&pose)
	cfg.SetToolPose(pose)
	if cfg.Stackup == nil {
		cfg.Stackup = map[string]float64{}
	}
	for name, v := range s.Overrides {
		cfg.Stackup[name] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", cfg.Script, err)
	}
	return cfg, nil
}

// Builder returns an assembly builder for cfg using kernel k.
func (a *App) Builder(cfg *config.Config, k kernel.Kernel) (*wilbur.Builder, error) {
	ref, err := cfg.Reference()
	if err != nil {
		return nil, err
	}
	return wilbur.New(ref,
		wilbur.WithKernel(k),
		wilbur.WithPose(cfg.ToolPose()),
		wilbur.WithLogger(a.logger))
}

// Build builds the assembly for cfg with bounding-box geometry only.
func (a *App) Build(cfg *config.Config) (*assembly.Assembly, *wilbur.Builder, error) {
	return a.assemble(cfg, kernel.NewBoundsKernel())
}

// assemble builds cfg with kernel k. Validation errors fail the build and
// warnings are logged.
func (a *App) assemble(cfg *config.Config, k kernel.Kernel) (*assembly.Assembly, *wilbur.Builder, error) {
	b, err := a.Builder(cfg, k)
	if err != nil {
		return nil, nil, err
	}
	asm, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	for _, v := range asm.Validate() {
		if v.Severity == assembly.SeverityError {
			return nil, nil, fmt.Errorf("wilbur: %w", v)
		}
		a.logger.Warn("assembly", slog.String("part", v.Part), slog.String("warning", v.Message))
	}
	return asm, b, nil
}

// Placements reports every part's absolute placement in walk order.
func (a *App) Placements(asm *assembly.Assembly) []PlacedPart {
	var out []PlacedPart
	_ = assembly.Walk(asm.Root, func(p *assembly.Part, via *assembly.Joint) error {
		loc := p.Location()
		pos := loc.Position()
		_, _, z := loc.Axes()
		pp := PlacedPart{
			Part:     p.Label(),
			Material: string(p.Material()),
			Position: [3]float64{pos.X, pos.Y, pos.Z},
			Axis:     [3]float64{z.X, z.Y, z.Z},
		}
		if via != nil {
			pp.Parent = via.Peer().String()
			pp.Joint = via.Label()
		}
		out = append(out, pp)
		return nil
	})
	return out
}

// Export builds cfg with the sdfx kernel and writes the selected parts.
func (a *App) Export(cfg *config.Config) (*export.Manifest, error) {
	k := sdfx.NewWithCells(cfg.Export.Cells)
	asm, b, err := a.assemble(cfg, k)
	if err != nil {
		return nil, err
	}
	e := export.NewExporter(k, cfg.Export.Dir, a.logger)
	return e.Export(asm, b, tessellate.Filter(cfg.Materials()))
}

// MeshSummary is one line of the mesh report.
type MeshSummary struct {
	Part      string     `json:"part" yaml:"part"`
	Material  string     `json:"material" yaml:"material"`
	Color     string     `json:"color" yaml:"color"`
	Triangles int        `json:"triangles" yaml:"triangles"`
	Vertices  int        `json:"vertices" yaml:"vertices"`
	Min       [3]float32 `json:"min" yaml:"min,flow"`
	Max       [3]float32 `json:"max" yaml:"max,flow"`
}

// Meshes builds cfg with kernel k and tessellates the parts selected by the
// export materials.
func (a *App) Meshes(cfg *config.Config, k kernel.Kernel) ([]MeshSummary, error) {
	asm, _, err := a.assemble(cfg, k)
	if err != nil {
		return nil, err
	}
	meshes, err := tessellate.Tessellate(asm.Root, k, tessellate.Filter(cfg.Materials()))
	if err != nil {
		return nil, err
	}
	out := make([]MeshSummary, 0, len(meshes))
	for _, m := range meshes {
		lo, hi := m.Bounds()
		out = append(out, MeshSummary{
			Part:      m.PartName,
			Material:  m.Material,
			Color:     m.Color,
			Triangles: m.TriangleCount(),
			Vertices:  m.VertexCount(),
			Min:       lo,
			Max:       hi,
		})
	}
	a.logger.Debug("tessellated", slog.Int("meshes", len(out)))
	return out, nil
}
