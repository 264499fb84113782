package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
	"git.home.luguber.info/inful/sitepipe/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source      string `short:"s" help:"Override source directory"`
	Output      string `short:"o" help:"Override destination directory"`
	MetricsAddr string `help:"Expose Prometheus metrics on this address (overrides config)"`
}

func (w *WatchCmd) Run(root *CLI) error {
	cfg, err := loadConfig(root.Config, func(cfg *config.Config) {
		if w.Source != "" {
			cfg.Source = w.Source
		}
		if w.Output != "" {
			cfg.Destination = w.Output
		}
		if w.MetricsAddr != "" {
			cfg.Watch.MetricsAddr = w.MetricsAddr
		}
	})
	if err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var metricsSrv *http.Server
	if cfg.Watch.MetricsAddr != "" {
		prec := metrics.NewPrometheusRecorder(nil)
		rec = prec
		mux := http.NewServeMux()
		mux.Handle("/metrics", prec.Handler())
		metricsSrv = &http.Server{Addr: cfg.Watch.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", slog.String("addr", cfg.Watch.MetricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
	}

	eng, err := NewEngine(cfg, rec)
	if err != nil {
		return err
	}

	watcher, err := watch.New(eng.Config().Source, eng, watch.Options{
		Debounce: cfg.Watch.DebounceDuration(),
		Interval: cfg.Watch.IntervalDuration(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = watcher.Run(ctx)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return err
}
