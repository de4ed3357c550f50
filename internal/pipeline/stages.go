package pipeline

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in the pipeline.
type Stage func(ctx context.Context, st *State) error

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageCheckCache       StageName = "check_cache"
	StageStageSource      StageName = "stage_source"
	StageConfigure        StageName = "configure"
	StageCompile          StageName = "compile"
	StageEmitLink         StageName = "emit_link"
	StageGenerateBindings StageName = "generate_bindings"
	StageCompileShim      StageName = "compile_shim"
)

// StageError records which stage failed. Every stage error is fatal.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess StageResult = "success"
	StageResultSkipped StageResult = "skipped"
	StageResultFatal   StageResult = "fatal"
)

// StageDef pairs a stage name with its executing function. When Skip is set
// and returns true at run time the stage is recorded as skipped.
type StageDef struct {
	Name StageName
	Fn   Stage
	Skip func(st *State) bool
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddUnless appends a stage that is skipped whenever skip reports true.
func (p *Pipeline) AddUnless(skip func(st *State) bool, name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn, Skip: skip})
	return p
}

// Build returns a copy of the stage definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}
