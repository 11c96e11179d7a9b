package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ezrec/3dp-wilbur/pkg/config"
	"github.com/ezrec/3dp-wilbur/pkg/export"
	"github.com/ezrec/3dp-wilbur/pkg/kernel"
	"github.com/ezrec/3dp-wilbur/pkg/kernel/sdfx"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Config  string
	Script  string

	logger *slog.Logger
}

// app returns an App logging through the configured logger.
func (o *RootOptions) app() *App {
	return NewApp(o.logger)
}

// load reads the configuration and applies the pose script.
func (o *RootOptions) load() (*App, *config.Config, error) {
	a := o.app()
	cfg, err := a.Load(o.Config, o.Script)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

// NewRootCommand creates the root command for the wilbur CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wilbur",
		Short: "Wilbur Core-XY printer assembly",
		Long: `Build the Wilbur Core-XY printer frame from its parts.

Stack-up dimensions are derived from the reference hardware, every part is
placed by connecting joints, and the printed parts are exported as STL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (default: wilbur.yaml in the current or a parent directory)")
	cmd.PersistentFlags().StringVarP(&opts.Script, "script", "s", "", "pose script applied on top of the config")

	cmd.AddCommand(NewStackupCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewBOMCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// NewStackupCommand creates the stackup command.
func NewStackupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stackup",
		Short: "Print the derived stack-up dimensions",
		Long:  "Print the margins and derived stack-up dimensions.\n\n" + overridesHelp(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := opts.load()
			if err != nil {
				return err
			}
			b, err := a.Builder(cfg, kernel.NewBoundsKernel())
			if err != nil {
				return err
			}
			s := b.Stackup()
			return writeOutput(cmd.OutOrStdout(), opts.Format, s.Values(), func(w io.Writer) error {
				_, err := io.WriteString(w, s.String())
				return err
			})
		},
	}
}

// NewBuildCommand creates the build command.
func NewBuildCommand(opts *RootOptions) *cobra.Command {
	var (
		mesh  bool
		cells int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the assembly graph and print every part's placement",
		Long: `Build the assembly graph and print every part's placement.

With --mesh the parts selected by export.materials are tessellated and the
triangle count, colour and bounds of each mesh are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := opts.load()
			if err != nil {
				return err
			}
			if mesh {
				if cells != 0 {
					cfg.Export.Cells = cells
					if err := cfg.Validate(); err != nil {
						return err
					}
				}
				return runMesh(cmd.OutOrStdout(), opts.Format, a, cfg)
			}
			asm, b, err := a.Build(cfg)
			if err != nil {
				return err
			}
			placed := a.Placements(asm)
			return writeOutput(cmd.OutOrStdout(), opts.Format, placed, func(w io.Writer) error {
				fmt.Fprintf(w, "pose %s, %d parts\n", b.Pose(), len(placed))
				for _, p := range placed {
					via := "-"
					if p.Parent != "" {
						via = p.Parent + " -> " + p.Joint
					}
					fmt.Fprintf(w, "%-22s %-8s %9.3f %9.3f %9.3f  %s\n",
						p.Part, p.Material, p.Position[0], p.Position[1], p.Position[2], via)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&mesh, "mesh", false, "tessellate the selected parts and report their meshes")
	cmd.Flags().IntVar(&cells, "cells", 0, "mesh resolution (overrides export.cells)")
	return cmd
}

var meshKernel = func(cells int) kernel.Kernel {
	return sdfx.NewWithCells(cells)
}

func runMesh(out io.Writer, format string, a *App, cfg *config.Config) error {
	meshes, err := a.Meshes(cfg, meshKernel(cfg.Export.Cells))
	if err != nil {
		return err
	}
	return writeOutput(out, format, meshes, func(w io.Writer) error {
		total := 0
		for _, m := range meshes {
			total += m.Triangles
			fmt.Fprintf(w, "%-22s %-8s %-10s %8d triangles\n", m.Part, m.Material, m.Color, m.Triangles)
		}
		fmt.Fprintf(w, "%d meshes, %d triangles\n", len(meshes), total)
		return nil
	})
}

// NewBOMCommand creates the bom command.
func NewBOMCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bom",
		Short: "List the parts grouped by material",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := opts.load()
			if err != nil {
				return err
			}
			asm, _, err := a.Build(cfg)
			if err != nil {
				return err
			}
			groups := export.BOM(asm.Root)
			return writeOutput(cmd.OutOrStdout(), opts.Format, groups, func(w io.Writer) error {
				for _, g := range groups {
					fmt.Fprintf(w, "%s (%d)\n", g.Material, g.Count())
					for _, label := range g.Parts {
						fmt.Fprintf(w, "  %s\n", label)
					}
				}
				return nil
			})
		},
	}
}

// exportFlags override the export section of the config.
type exportFlags struct {
	dir       string
	materials []string
	cells     int
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "o", "", "output directory (overrides export.dir)")
	cmd.Flags().StringSliceVarP(&f.materials, "material", "m", nil, "materials to export (overrides export.materials)")
	cmd.Flags().IntVar(&f.cells, "cells", 0, "mesh resolution (overrides export.cells)")
}

func (f *exportFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.dir != "" {
		cfg.Export.Dir = f.dir
	}
	if cmd.Flags().Changed("material") {
		cfg.Export.Materials = f.materials
	}
	if f.cells != 0 {
		cfg.Export.Cells = f.cells
	}
	return cfg.Validate()
}

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write STL files for the selected parts and a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			m, err := a.Export(cfg)
			if err != nil {
				return err
			}
			return writeManifest(cmd.OutOrStdout(), opts.Format, cfg.Export.Dir, m)
		},
	}
	flags.register(cmd)
	return cmd
}

func writeManifest(out io.Writer, format, dir string, m *export.Manifest) error {
	return writeOutput(out, format, m, func(w io.Writer) error {
		fmt.Fprintf(w, "build %s: %d files in %s\n", m.BuildID, len(m.Files), dir)
		for _, f := range m.Files {
			fmt.Fprintf(w, "  %-32s %s\n", f.Path, f.Material)
		}
		return nil
	})
}

// overridesHelp lists the dimension names accepted by config and scripts.
func overridesHelp() string {
	return fmt.Sprintf("overridable dimensions: %v", stackup.OverrideNames())
}
