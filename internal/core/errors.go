package core

import "fmt"

// Stage identifies which pipeline stage raised an error, so the CLI can
// print a single consolidated "stage: cause" message per spec.md §7.
type Stage string

const (
	StageConnect     Stage = "connect"
	StageEnumerate   Stage = "enumerate"
	StageExtractDDL  Stage = "extract-ddl"
	StageParse       Stage = "parse"
	StagePlan        Stage = "plan"
	StageSerialize   Stage = "serialize"
)

// StageError wraps an underlying error with the stage that produced it.
// Connection and enumeration failures are fatal (the caller should abort
// the run with no files written); extract-ddl and parse failures are
// recoverable and are normally logged rather than returned.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Fatal reports whether an error of this stage must abort the run before
// any output is written.
func (s Stage) Fatal() bool {
	switch s {
	case StageConnect, StageEnumerate:
		return true
	default:
		return false
	}
}

// NewStageError wraps err with stage, or returns nil if err is nil.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
