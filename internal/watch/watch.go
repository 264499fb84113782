// Package watch re-runs full builds when the source tree changes.
// Filesystem events are debounced into a single rebuild; an optional
// schedule triggers unconditional periodic rebuilds. Every trigger runs
// a complete build — there is no incremental rebuild.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
)

// Builder runs one full build. Satisfied by *engine.Engine.
type Builder interface {
	Build() (pipeline.IR, error)
}

// Options tunes watcher behavior.
type Options struct {
	// Debounce is the quiet period after the last filesystem event
	// before a rebuild fires. Defaults to 500ms.
	Debounce time.Duration
	// Interval schedules unconditional periodic rebuilds when > 0.
	Interval time.Duration
}

// Watcher drives rebuilds of a single source tree. Builds always run on
// the watcher's own goroutine, one at a time.
type Watcher struct {
	source    string
	builder   Builder
	fsw       *fsnotify.Watcher
	scheduler gocron.Scheduler
	debounce  time.Duration
	trigger   chan struct{}
}

// New creates a watcher over source. Close it by cancelling the context
// passed to Run.
func New(source string, builder Builder, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		source:   source,
		builder:  builder,
		fsw:      fsw,
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
	}

	if opts.Interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(opts.Interval),
			gocron.NewTask(w.requestBuild),
			gocron.WithName("periodic-rebuild"),
		); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
		}
		w.scheduler = scheduler
	}

	return w, nil
}

// Run performs an initial build, then blocks rebuilding on changes until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addRecursive(w.source); err != nil {
		return err
	}
	if w.scheduler != nil {
		w.scheduler.Start()
		defer func() {
			if err := w.scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching for changes", logfields.Source(w.source))
	w.build()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories must be watched before their contents
			// produce events.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			slog.Debug("Source change detected", logfields.Path(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer, fire = nil, nil
			w.build()

		case <-w.trigger:
			w.build()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// requestBuild coalesces scheduled triggers; a pending trigger is enough.
func (w *Watcher) requestBuild() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) build() {
	start := time.Now()
	if _, err := w.builder.Build(); err != nil {
		slog.Error("Build failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete",
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
}

// addRecursive watches root and every directory below it.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
