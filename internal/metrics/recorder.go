// Package metrics provides observability hooks for build metrics.
//
// Components receive a Recorder through dependency injection and default
// to NoopRecorder, so metrics impose zero overhead unless a real
// implementation (Prometheus) is wired in, as watch mode does.
package metrics

import "time"

// Outcome labels for build counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder defines observability hooks for build metrics. Implementations
// must tolerate being shared across sequential builds.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	SetFilesRead(n int)
	SetFilesWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) SetFilesRead(int)                   {}
func (NoopRecorder) SetFilesWritten(int)                {}
