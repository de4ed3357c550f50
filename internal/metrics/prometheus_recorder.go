package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	stageResults     *prom.CounterVec
	buildOutcome     *prom.CounterVec
	configureRetries *prom.CounterVec
	cacheDecisions   *prom.CounterVec
}

// Build stages run for minutes; the default buckets top out at 10s.
var stageBuckets = []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or on
// a fresh registry when reg is nil. Registering twice on the same registry panics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "ffbuild",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual pipeline stages",
		Buckets:   stageBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "ffbuild",
		Name:      "build_duration_seconds",
		Help:      "Total pipeline duration",
		Buckets:   stageBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "ffbuild",
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "ffbuild",
		Name:      "build_outcomes_total",
		Help:      "Pipeline outcomes by final status",
	}, []string{"outcome"})
	pr.configureRetries = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "ffbuild",
		Name:      "configure_retries_total",
		Help:      "Configure retries by failure signature",
	}, []string{"signature"})
	pr.cacheDecisions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "ffbuild",
		Name:      "cache_decisions_total",
		Help:      "Artifact and bindings reuse decisions",
	}, []string{"cache", "reused"})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.configureRetries, pr.cacheDecisions)
	return pr
}

// Registry returns the registry metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncConfigureRetry(signature string) {
	if p == nil || p.configureRetries == nil {
		return
	}
	p.configureRetries.WithLabelValues(signature).Inc()
}

func (p *PrometheusRecorder) IncCacheDecision(cache string, reused bool) {
	if p == nil || p.cacheDecisions == nil {
		return
	}
	p.cacheDecisions.WithLabelValues(cache, strconv.FormatBool(reused)).Inc()
}

// WriteTextfile writes the current state of the registry to path in the
// Prometheus text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
