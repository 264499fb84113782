// Package pipeline defines the intermediate representation threaded
// through a build and the sequential middleware chain that rewrites it.
package pipeline

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/store"
)

// Config is the value object describing a single build run. It is set
// before a build starts and never changes afterwards.
type Config struct {
	// Ignores lists root-relative paths excluded from the directory
	// read. Treated as a set: order is irrelevant and entries are
	// deduplicated by the owning engine.
	Ignores []string

	// Source is the absolute path of the directory read into the IR.
	Source string

	// Destination is the absolute path the result is written to.
	Destination string

	// Clean removes the destination directory before writing.
	Clean bool

	// Frontmatter enables YAML parsing of extracted metadata blocks.
	Frontmatter bool
}

// IR is the single value passed between pipeline stages: an immutable
// snapshot of the whole file tree plus the build configuration.
//
// Between stage executions the store's key set is exactly the set of
// files that will be written, fully resolved.
type IR struct {
	Files  store.Store
	Config Config
}

// Stage is one transformation in the middleware chain. A stage must not
// mutate its input; it produces a new IR, typically by merging an update
// set into the incoming store. A stage that needs only a subset of files
// filters the store itself and merges its updates back.
//
// The pipeline defines no error channel: a stage that fails panics, and
// the panic propagates out of Run.
type Stage func(IR) IR

// Pipeline is an ordered list of stages. The zero value is usable.
type Pipeline struct {
	stages []Stage
}

// New returns an empty pipeline.
func New() *Pipeline { return &Pipeline{} }

// Register appends a stage. Stages execute in registration order; there
// is no removal or priority mechanism.
func (p *Pipeline) Register(stage Stage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of registered stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Run folds the registered stages left to right, feeding each stage the
// IR produced by its predecessor, and returns the final IR. Execution is
// strictly sequential.
func (p *Pipeline) Run(ir IR) IR {
	for i, stage := range p.stages {
		start := time.Now()
		ir = stage(ir)
		slog.Debug("Stage completed",
			logfields.Stage(i),
			logfields.Files(ir.Files.Len()),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	}
	return ir
}
