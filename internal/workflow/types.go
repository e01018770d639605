package workflow

import (
	"fmt"
	"strings"
)

// LinkType is the direction of a job's use of a logical file.
type LinkType int

const (
	// Input marks a file the job reads.
	Input LinkType = iota
	// Output marks a file the job produces.
	Output
)

func (l LinkType) String() string {
	switch l {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("LinkType(%d)", int(l))
	}
}

// ParseLinkType accepts "input" or "output" in any case.
func ParseLinkType(s string) (LinkType, error) {
	switch strings.ToLower(s) {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	default:
		return 0, fmt.Errorf("invalid link type %q: must be 'input' or 'output'", s)
	}
}

// EdgePolicy selects how the dependency set is derived.
type EdgePolicy int

const (
	// EdgesInferred adds the producer to consumer pairs implied by file usage
	// to the explicit edges.
	EdgesInferred EdgePolicy = iota
	// EdgesExplicit uses the explicit edges only.
	EdgesExplicit
)

func (p EdgePolicy) String() string {
	switch p {
	case EdgesInferred:
		return "inferred"
	case EdgesExplicit:
		return "explicit"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(p))
	}
}

// ParseEdgePolicy accepts "inferred" or "explicit" in any case. An empty
// string selects the default, EdgesInferred.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(s) {
	case "", "inferred":
		return EdgesInferred, nil
	case "explicit":
		return EdgesExplicit, nil
	default:
		return 0, fmt.Errorf("invalid dependency policy %q: must be 'inferred' or 'explicit'", s)
	}
}

// Edge is a dependency: Child runs after Parent.
type Edge struct {
	Parent string
	Child  string
}

func (e Edge) String() string {
	return e.Parent + " -> " + e.Child
}
