// Package commands implements the sitepipe CLI commands.
package commands

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/engine"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
	"git.home.luguber.info/inful/sitepipe/internal/stages"
)

// CLI is the root command tree.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"sitepipe.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build BuildCmd `cmd:"" help:"Run one full build of the source tree"`
	Watch WatchCmd `cmd:"" help:"Rebuild continuously when the source tree changes"`
}

// SetupLogging installs the default text logger.
func SetupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// NewEngine maps a loaded configuration onto a fully configured engine,
// registering the enabled built-in stages in their canonical order:
// metadata enrichment first, serialization last.
func NewEngine(cfg *config.Config, rec metrics.Recorder) (*engine.Engine, error) {
	e := engine.New().WithRecorder(rec)
	if err := e.Source(cfg.Source); err != nil {
		return nil, err
	}
	if err := e.Destination(cfg.Destination); err != nil {
		return nil, err
	}
	e.Clean(cfg.Clean)
	e.Frontmatter(cfg.FrontmatterEnabled())
	e.Ignore(cfg.Ignore...)

	if cfg.Stages.Metadata {
		e.Register(stages.Metadata())
	}
	if cfg.Stages.GitMeta {
		stage, err := stages.GitMeta(cfg.Source)
		if err != nil {
			return nil, err
		}
		e.Register(stage)
	}
	if cfg.Stages.Markdown {
		e.Register(stages.Markdown())
	}
	if cfg.Stages.Serialize {
		e.Register(stages.Serialize())
	}
	return e, nil
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(path string, overrides func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides(cfg)
	}
	return cfg, nil
}
