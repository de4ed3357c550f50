package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFatal   ResultLabel = "fatal"
)

// BuildOutcomeLabel is the final status of a pipeline run.
type BuildOutcomeLabel string

const (
	OutcomeSuccess BuildOutcomeLabel = "success"
	OutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for pipeline and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncConfigureRetry(signature string)
	IncCacheDecision(cache string, reused bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) IncConfigureRetry(string)                   {}
func (NoopRecorder) IncCacheDecision(string, bool)              {}
