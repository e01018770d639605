package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/daxgen/internal/registry"
)

// unknownError is a sentinel that also matches registry.ErrUnknownEntity.
type unknownError string

func (e unknownError) Error() string { return string(e) }
func (e unknownError) Unwrap() error { return registry.ErrUnknownEntity }

var (
	ErrDuplicateJobID      = errors.New("duplicate job id")
	ErrDuplicateEdge       = errors.New("duplicate edge")
	ErrConflictingProducer = errors.New("conflicting producer")
	ErrCyclicGraph         = errors.New("cyclic graph")

	// The unknown-reference errors all match registry.ErrUnknownEntity.
	ErrUnknownJob        error = unknownError("unknown job")
	ErrUnknownExecutable error = unknownError("unknown executable")
	ErrUnknownFile       error = unknownError("unknown file")
)

// GraphError pairs a failure class from this package with the identifiers
// that caused it.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

// CycleError reports one cycle among jobs. Path starts and ends with the same
// job ID.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil || len(e.Path) == 0 {
		return ErrCyclicGraph.Error()
	}
	return ErrCyclicGraph.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCyclicGraph }

// ValidationError aggregates every violation found by Validate.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("workflow validation failed:")
	for _, err := range e.Errs {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() []error { return e.Errs }
