package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
)

type countingBuilder struct {
	builds atomic.Int64
}

func (b *countingBuilder) Build() (pipeline.IR, error) {
	b.builds.Add(1)
	return pipeline.IR{}, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestRun_InitialBuildAndRebuildOnChange(t *testing.T) {
	src := t.TempDir()
	builder := &countingBuilder{}

	w, err := New(src, builder, Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	waitFor(t, 5*time.Second, func() bool { return builder.builds.Load() == 1 })

	require.NoError(t, os.WriteFile(filepath.Join(src, "new.txt"), []byte("x"), 0o644))
	waitFor(t, 5*time.Second, func() bool { return builder.builds.Load() >= 2 })

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRun_DebounceCoalescesBursts(t *testing.T) {
	src := t.TempDir()
	builder := &countingBuilder{}

	w, err := New(src, builder, Options{Debounce: 300 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	waitFor(t, 5*time.Second, func() bool { return builder.builds.Load() == 1 })

	// A burst of writes inside the debounce window must yield one rebuild.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, "burst.txt"), []byte{byte('0' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, 5*time.Second, func() bool { return builder.builds.Load() == 2 })
	time.Sleep(500 * time.Millisecond)
	require.Equal(t, int64(2), builder.builds.Load())
}

func TestNew_DefaultsDebounce(t *testing.T) {
	w, err := New(t.TempDir(), &countingBuilder{}, Options{})
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, w.debounce)
	require.NoError(t, w.fsw.Close())
}

func TestRequestBuild_CoalescesPendingTriggers(t *testing.T) {
	w := &Watcher{trigger: make(chan struct{}, 1)}
	w.requestBuild()
	w.requestBuild()
	require.Len(t, w.trigger, 1)
}
