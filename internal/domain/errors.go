package domain

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the failure class of a pipeline run. Each kind maps
// to a distinct process exit code so callers can tell an empty document
// apart from a failed install.
type ErrorKind string

const (
	KindUsage           ErrorKind = "usage"
	KindConfig          ErrorKind = "config"
	KindExtractionEmpty ErrorKind = "extraction-empty"
	KindValidation      ErrorKind = "validation"
	KindAssembly        ErrorKind = "assembly"
	KindLaunch          ErrorKind = "launch"
	KindExecution       ErrorKind = "execution"
	KindTimeout         ErrorKind = "timeout"
)

// VerifyError is the error type carried through the pipeline, tagged with
// the stage that produced it.
type VerifyError struct {
	Kind         ErrorKind
	Stage        string // "extract", "normalize", "validate", "assemble", "run"
	File         string
	CommandIndex int // order index of the offending command, -1 if n/a
	Message      string
	Cause        error
}

func (e *VerifyError) Error() string {
	s := fmt.Sprintf("[%s]", e.Stage)
	if e.File != "" {
		s += " " + e.File
	}
	if e.CommandIndex >= 0 {
		s += fmt.Sprintf(" (command #%d)", e.CommandIndex+1)
	}
	s += ": " + e.Message
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// NewError creates a VerifyError without a command index.
func NewError(kind ErrorKind, stage, file, message string, cause error) *VerifyError {
	return &VerifyError{
		Kind:         kind,
		Stage:        stage,
		File:         file,
		CommandIndex: -1,
		Message:      message,
		Cause:        cause,
	}
}

// NewCommandError creates a VerifyError pointing at a specific command.
func NewCommandError(kind ErrorKind, stage, file string, index int, message string, cause error) *VerifyError {
	e := NewError(kind, stage, file, message, cause)
	e.CommandIndex = index
	return e
}

// ExitCode maps an error to the process exit code contract: 0 on success,
// a distinct non-zero code per failure kind, 1 for anything untagged.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var verr *VerifyError
	if !errors.As(err, &verr) {
		return 1
	}
	switch verr.Kind {
	case KindUsage, KindConfig:
		return 2
	case KindExtractionEmpty:
		return 3
	case KindValidation:
		return 4
	case KindAssembly:
		return 5
	case KindLaunch:
		return 6
	case KindExecution:
		return 7
	case KindTimeout:
		return 8
	default:
		return 1
	}
}
