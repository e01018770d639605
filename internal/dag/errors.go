package dag

import (
	"errors"
	"strings"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateEdge = errors.New("duplicate edge")
	ErrSelfEdge      = errors.New("self-referential edge")
	ErrCycle         = errors.New("cycle detected")
)

// CycleError reports one cycle as a path whose first and last elements are
// the same node, e.g. [a b c a].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if e == nil || len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return ErrCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }
