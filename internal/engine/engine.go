// Package engine implements the build orchestrator: it reads a source
// tree into an IR, runs the registered stage pipeline over it, and
// materializes the result into the destination directory.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitepipe/internal/frontmatter"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
	"git.home.luguber.info/inful/sitepipe/internal/store"
	"git.home.luguber.info/inful/sitepipe/internal/walker"
)

// ErrNotText marks a source file whose bytes are not valid UTF-8 text.
var ErrNotText = errors.New("file content is not valid UTF-8 text")

// Engine owns the configuration and stage pipeline for one build
// session. Configure it with the setters, register stages, then call
// Build. Engines are not safe for concurrent use; execution is
// synchronous call/return throughout, with no cancellation mechanism.
type Engine struct {
	cfg  pipeline.Config
	pipe *pipeline.Pipeline
	rec  metrics.Recorder
}

// New returns an engine with an empty-but-valid default configuration:
// front matter parsing enabled, clean disabled, no ignores.
func New() *Engine {
	return &Engine{
		cfg:  pipeline.Config{Frontmatter: true},
		pipe: pipeline.New(),
		rec:  metrics.NoopRecorder{},
	}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (e *Engine) WithRecorder(rec metrics.Recorder) *Engine {
	if rec != nil {
		e.rec = rec
	}
	return e
}

// Source sets the source root. The path must resolve to an existing
// directory; it is stored absolute.
func (e *Engine) Source(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", abs)
	}
	e.cfg.Source = abs
	return nil
}

// Destination sets the destination root, creating it (and any missing
// ancestors) if needed; it is stored absolute.
func (e *Engine) Destination(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve destination path: %w", err)
	}
	e.cfg.Destination = abs
	return nil
}

// Ignore appends paths to the ignore list, deduplicating entries.
func (e *Engine) Ignore(paths ...string) {
	seen := make(map[string]struct{}, len(e.cfg.Ignores)+len(paths))
	for _, p := range e.cfg.Ignores {
		seen[p] = struct{}{}
	}
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		e.cfg.Ignores = append(e.cfg.Ignores, p)
	}
}

// Clean controls whether the destination is removed and recreated
// before writing.
func (e *Engine) Clean(b bool) { e.cfg.Clean = b }

// Frontmatter controls whether extracted metadata blocks are parsed.
// Extraction itself always runs; with parsing disabled the metadata is
// recorded empty and only the body is kept.
func (e *Engine) Frontmatter(b bool) { e.cfg.Frontmatter = b }

// Register appends a stage to the pipeline.
func (e *Engine) Register(stage pipeline.Stage) { e.pipe.Register(stage) }

// Config returns a snapshot of the current configuration.
func (e *Engine) Config() pipeline.Config { return e.cfg }

// Build runs the full clean → read → pipeline → write sequence and
// returns the final IR, including the in-memory store actually written.
// Any I/O or front matter parse error aborts the build; files written
// before the failure remain on disk.
func (e *Engine) Build() (pipeline.IR, error) {
	log := slog.With(logfields.BuildID(uuid.NewString()))
	start := time.Now()

	ir, err := e.build(log)
	e.rec.ObserveBuildDuration(time.Since(start))
	if err != nil {
		e.rec.IncBuildOutcome(metrics.OutcomeFailed)
		return pipeline.IR{}, err
	}
	e.rec.IncBuildOutcome(metrics.OutcomeSuccess)
	log.Info("Build complete",
		logfields.Files(ir.Files.Len()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	return ir, nil
}

func (e *Engine) build(log *slog.Logger) (pipeline.IR, error) {
	if e.cfg.Source == "" {
		return pipeline.IR{}, errors.New("source directory not set")
	}
	if e.cfg.Destination == "" {
		return pipeline.IR{}, errors.New("destination directory not set")
	}

	if e.cfg.Clean {
		if err := e.clean(); err != nil {
			return pipeline.IR{}, err
		}
	}

	files, err := e.read()
	if err != nil {
		return pipeline.IR{}, err
	}
	e.rec.SetFilesRead(files.Len())
	log.Debug("Source tree loaded",
		logfields.Source(e.cfg.Source),
		logfields.Files(files.Len()))

	result := e.pipe.Run(pipeline.IR{Files: files, Config: e.cfg})

	if err := e.write(result); err != nil {
		return pipeline.IR{}, err
	}
	e.rec.SetFilesWritten(result.Files.Len())
	return result, nil
}

// clean removes the destination directory and recreates it empty.
// Failure is fatal and happens before any read.
func (e *Engine) clean() error {
	if err := os.RemoveAll(e.cfg.Destination); err != nil {
		return fmt.Errorf("clean destination: %w", err)
	}
	if err := os.MkdirAll(e.cfg.Destination, 0o755); err != nil {
		return fmt.Errorf("recreate destination: %w", err)
	}
	return nil
}

// read populates a fresh store from the walk provider's file list. The
// whole read aborts on the first unreadable or non-text file.
func (e *Engine) read() (store.Store, error) {
	paths, err := walker.Walk(e.cfg.Source, e.cfg.Ignores)
	if err != nil {
		return store.Store{}, err
	}

	files := make(map[string]store.File, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(e.cfg.Source, path)
		if err != nil {
			return store.Store{}, fmt.Errorf("relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		raw, err := os.ReadFile(path)
		if err != nil {
			return store.Store{}, fmt.Errorf("read %s: %w", rel, err)
		}
		if !utf8.Valid(raw) {
			return store.Store{}, fmt.Errorf("read %s: %w", rel, ErrNotText)
		}

		meta, body := frontmatter.Extract(raw)
		f := store.File{Content: body}
		if e.cfg.Frontmatter {
			docs, err := frontmatter.Parse(meta)
			if err != nil {
				return store.Store{}, fmt.Errorf("file %s: %w", rel, err)
			}
			f.Meta = docs
		}
		files[rel] = f
	}
	return store.FromMap(files), nil
}

// write materializes exactly the final store's key set under the
// destination root, creating missing ancestor directories. Destination
// files not in the key set are left untouched.
func (e *Engine) write(ir pipeline.IR) error {
	var werr error
	ir.Files.Range(func(rel string, f store.File) bool {
		dest := filepath.Join(e.cfg.Destination, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			werr = fmt.Errorf("create destination subdirectory: %w", err)
			return false
		}
		if err := os.WriteFile(dest, f.Content, 0o644); err != nil {
			werr = fmt.Errorf("write %s: %w", rel, err)
			return false
		}
		return true
	})
	return werr
}
