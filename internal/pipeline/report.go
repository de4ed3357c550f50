package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/ffbuild/internal/version"
)

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Report captures what a run did and why.
type Report struct {
	SchemaVersion int           `yaml:"schema_version"`
	Version       string        `yaml:"ffbuild_version"`
	RunID         string        `yaml:"run_id"`
	Start         time.Time     `yaml:"start"`
	End           time.Time     `yaml:"end"`
	Duration      time.Duration `yaml:"duration"`
	Outcome       Outcome       `yaml:"outcome"`

	Profile      string `yaml:"profile"`
	StagedRoot   string `yaml:"staged_root"`
	BuildSkipped bool   `yaml:"build_skipped"`
	BuildReason  string `yaml:"build_reason"`
	SourceCopied bool   `yaml:"source_copied"`

	ConfigureFlags    []string `yaml:"configure_flags,omitempty"`
	ConfigureAttempts int      `yaml:"configure_attempts"`
	ConfigureRetried  bool     `yaml:"configure_retried"`

	BindingsSkipped bool   `yaml:"bindings_skipped"`
	BindingsReason  string `yaml:"bindings_reason,omitempty"`
	BindingsHeaders int    `yaml:"bindings_headers"`
	BindingsPath    string `yaml:"bindings_path,omitempty"`

	ShimArchive string   `yaml:"shim_archive,omitempty"`
	Directives  []string `yaml:"directives"`

	Stages        []StageRecord `yaml:"stages"`
	FailedStage   StageName     `yaml:"failed_stage,omitempty"`
	Error         string        `yaml:"error,omitempty"`
	ErrorCategory string        `yaml:"error_category,omitempty"`
}

// StageRecord is the per-stage entry of a Report.
type StageRecord struct {
	Name     StageName     `yaml:"name"`
	Result   StageResult   `yaml:"result"`
	Duration time.Duration `yaml:"duration"`
}

func newReport(runID string) *Report {
	return &Report{
		SchemaVersion: 1,
		Version:       version.Version,
		RunID:         runID,
		Start:         time.Now(),
	}
}

func (r *Report) record(name StageName, res StageResult, d time.Duration) {
	r.Stages = append(r.Stages, StageRecord{Name: name, Result: res, Duration: d})
}

// StageResultFor returns the recorded result for name, or "" if it never ran.
func (r *Report) StageResultFor(name StageName) StageResult {
	for _, s := range r.Stages {
		if s.Name == name {
			return s.Result
		}
	}
	return ""
}

func (r *Report) finish(outcome Outcome) {
	r.End = time.Now()
	r.Duration = r.End.Sub(r.Start)
	r.Outcome = outcome
}

// WriteYAML persists the report to path.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
