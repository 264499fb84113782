package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `short:"s" help:"Override source directory"`
	Output string `short:"o" help:"Override destination directory"`
	Clean  bool   `help:"Remove the destination directory before writing"`
}

func (b *BuildCmd) Run(root *CLI) error {
	cfg, err := loadConfig(root.Config, func(cfg *config.Config) {
		if b.Source != "" {
			cfg.Source = b.Source
		}
		if b.Output != "" {
			cfg.Destination = b.Output
		}
		if b.Clean {
			cfg.Clean = true
		}
	})
	if err != nil {
		return err
	}

	eng, err := NewEngine(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	slog.Info("Starting build",
		logfields.Source(cfg.Source),
		logfields.Destination(cfg.Destination))

	ir, err := eng.Build()
	if err != nil {
		return err
	}
	slog.Info("Wrote destination tree",
		logfields.Destination(cfg.Destination),
		logfields.Files(ir.Files.Len()))
	return nil
}
