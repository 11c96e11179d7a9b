// Package export writes a built assembly to disk: one STL file per selected
// part plus a manifest describing the build.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
	"github.com/ezrec/3dp-wilbur/pkg/tessellate"
	"github.com/ezrec/3dp-wilbur/pkg/wilbur"
)

// ManifestFile is the name of the manifest written next to the STL files.
const ManifestFile = "manifest.json"

// FileName returns the STL file name for a part label.
func FileName(label string) string {
	return "wilbur_" + label + ".stl"
}

// File is one exported part.
type File struct {
	Part     string `json:"part"`
	Material string `json:"material"`
	Path     string `json:"path"`
}

// Manifest describes one export run.
type Manifest struct {
	BuildID   string          `json:"build_id"`
	Created   time.Time       `json:"created"`
	Pose      wilbur.Pose     `json:"pose"`
	Materials []string        `json:"materials,omitempty"`
	Stackup   []stackup.Value `json:"stackup"`
	Files     []File          `json:"files"`
}

// Exporter writes STL files through a geometry kernel.
type Exporter struct {
	kernel kernel.Kernel
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter returns an exporter writing into dir.
func NewExporter(k kernel.Kernel, dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{kernel: k, dir: dir, logger: logger, now: time.Now}
}

// Export writes every part of b's assembly whose material passes filter,
// then the manifest. Existing files are overwritten.
func (e *Exporter) Export(a *assembly.Assembly, b *wilbur.Builder, filter tessellate.Filter) (*Manifest, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("export: create output directory: %w", err)
	}

	placed, err := tessellate.Place(a.Root, e.kernel, filter)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	m := &Manifest{
		BuildID: uuid.New().String(),
		Created: e.now().UTC(),
		Pose:    b.Pose(),
		Stackup: b.Stackup().Values(),
		Files:   make([]File, 0, len(placed)),
	}
	for _, mat := range filter {
		m.Materials = append(m.Materials, string(mat))
	}

	for _, pl := range placed {
		label := pl.Part.Label()
		path := filepath.Join(e.dir, FileName(label))
		if err := e.kernel.SaveSTL(pl.Solid, path); err != nil {
			return nil, fmt.Errorf("export: part %s: %w", label, err)
		}
		e.logger.Info("wrote stl",
			slog.String("part", label),
			slog.String("material", string(pl.Part.Material())),
			slog.String("path", path))
		m.Files = append(m.Files, File{
			Part:     label,
			Material: string(pl.Part.Material()),
			Path:     FileName(label),
		})
	}

	if err := e.writeManifest(m); err != nil {
		return nil, err
	}
	e.logger.Info("export complete",
		slog.String("build_id", m.BuildID),
		slog.Int("files", len(m.Files)),
		slog.String("dir", e.dir))
	return m, nil
}

func (e *Exporter) writeManifest(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal manifest: %w", err)
	}
	path := filepath.Join(e.dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("export: write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Export.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("export: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("export: parse manifest: %w", err)
	}
	return &m, nil
}
