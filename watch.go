package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ezrec/3dp-wilbur/pkg/config"
)

// DefaultDebounce is how long to wait for more changes before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls onChange once per burst of writes to any of a set of files.
// It watches the containing directories so that editors which replace files
// on save are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *slog.Logger
	pending  bool
}

// NewWatcher creates a watcher for files. Empty paths are ignored.
func NewWatcher(files []string, debounce time.Duration, onChange func(ctx context.Context), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		files:    map[string]bool{},
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
	dirs := map[string]bool{}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	if len(w.files) == 0 {
		fsw.Close()
		return nil, fmt.Errorf("watch: no files to watch")
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
		logger.Debug("Watching directory", slog.String("path", dir))
	}
	return w, nil
}

// Run processes events until ctx is done. onChange runs once the watched
// files have been quiet for the debounce interval. The watcher is closed on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			w.pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			if w.pending {
				w.pending = false
				w.onChange(ctx)
			}
		}
	}
}

// relevant reports whether event changes one of the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.logger.Debug("Change detected", slog.String("path", abs), slog.String("op", event.Op.String()))
	return true
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	flags := &exportFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the config or pose script changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app()
			configPath := opts.Config
			if configPath == "" {
				configPath = config.NewLoader(opts.logger).ProjectConfig()
			}

			rebuild := func(ctx context.Context) {
				cfg, err := a.Load(configPath, opts.Script)
				if err == nil {
					err = flags.apply(cmd, cfg)
				}
				if err != nil {
					opts.logger.Error("rebuild failed", slog.String("error", err.Error()))
					return
				}
				manifest, err := a.Export(cfg)
				if err != nil {
					opts.logger.Error("export failed", slog.String("error", err.Error()))
					return
				}
				if err := writeManifest(cmd.OutOrStdout(), opts.Format, cfg.Export.Dir, manifest); err != nil {
					opts.logger.Error("write output", slog.String("error", err.Error()))
				}
			}

			script := opts.Script
			if script == "" && configPath != "" {
				if cfg, err := config.LoadFromFile(configPath); err == nil {
					script = cfg.Script
				}
			}
			var files []string
			for _, f := range []string{configPath, script} {
				if f != "" {
					files = append(files, f)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := NewWatcher(files, debounce, rebuild, opts.logger)
			if err != nil {
				return err
			}
			rebuild(ctx)
			opts.logger.Info("watching for changes", slog.Any("files", files))
			return w.Run(ctx)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "wait this long for more changes before rebuilding")
	return cmd
}
