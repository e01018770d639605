// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workflow

import (
	"fmt"

	"github.com/vk/daxgen/internal/entityid"
	"github.com/vk/daxgen/internal/profile"
	"github.com/vk/daxgen/internal/registry"
)

// Workflow is the root container of a workflow description.
type Workflow struct {
	name     string
	registry *registry.Registry
	jobs     map[string]*Job
	order    []*Job
	edges    []Edge
	edgeSet  map[Edge]struct{}
	policy   EdgePolicy
}

// New creates an empty workflow with the default EdgesInferred policy.
func New(name string) *Workflow {
	return &Workflow{
		name:     name,
		registry: registry.New(),
		jobs:     make(map[string]*Job),
		edgeSet:  make(map[Edge]struct{}),
	}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Registry returns the registry owning the workflow's files and executables.
func (w *Workflow) Registry() *registry.Registry { return w.registry }

// DeclareFile declares a logical file in the workflow's registry.
func (w *Workflow) DeclareFile(lfn string) (*registry.File, error) {
	return w.registry.DeclareFile(lfn)
}

// DeclareExecutable declares an executable in the workflow's registry.
func (w *Workflow) DeclareExecutable(namespace, name, version string) (*registry.Executable, error) {
	return w.registry.DeclareExecutable(namespace, name, version)
}

// AddJob adds a job to the graph. The job's references are not resolved
// here, so files and executables may be declared in any order before
// Validate is called.
func (w *Workflow) AddJob(job *Job) error {
	if job == nil || job.id == "" {
		return &GraphError{Kind: registry.ErrInvalidIdentifier, Msg: "job id must not be empty"}
	}
	if _, exists := w.jobs[job.id]; exists {
		return &GraphError{Kind: ErrDuplicateJobID, Msg: fmt.Sprintf("%q", job.id)}
	}
	w.jobs[job.id] = job
	w.order = append(w.order, job)
	return nil
}

// Job looks up a job by ID.
func (w *Workflow) Job(id string) (*Job, error) {
	j, ok := w.jobs[id]
	if !ok {
		return nil, &GraphError{Kind: ErrUnknownJob, Msg: fmt.Sprintf("%q", id)}
	}
	return j, nil
}

// Jobs returns the jobs in the order they were added.
func (w *Workflow) Jobs() []*Job {
	return append([]*Job(nil), w.order...)
}

// AddDependency records that child runs after parent. Both jobs must already
// be in the graph. Declaring the same edge twice is an error, as is a job
// depending on itself. A failed call leaves the workflow unchanged.
func (w *Workflow) AddDependency(parent, child string) error {
	for _, id := range []string{parent, child} {
		if _, ok := w.jobs[id]; !ok {
			return &GraphError{Kind: ErrUnknownJob, Msg: fmt.Sprintf("%q", id)}
		}
	}
	if parent == child {
		return &CycleError{Path: []string{parent, child}}
	}
	e := Edge{Parent: parent, Child: child}
	if _, exists := w.edgeSet[e]; exists {
		return &GraphError{Kind: ErrDuplicateEdge, Msg: e.String()}
	}
	w.edgeSet[e] = struct{}{}
	w.edges = append(w.edges, e)
	return nil
}

// ExplicitDependencies returns the edges recorded with AddDependency, in
// insertion order.
func (w *Workflow) ExplicitDependencies() []Edge {
	return append([]Edge(nil), w.edges...)
}

// SetEdgePolicy selects how Dependencies derives the edge set.
func (w *Workflow) SetEdgePolicy(policy EdgePolicy) *Workflow {
	w.policy = policy
	return w
}

// EdgePolicy returns the current dependency policy.
func (w *Workflow) EdgePolicy() EdgePolicy { return w.policy }

// Dependencies returns the resolved edge set. The explicit edges come first in
// insertion order. Under EdgesInferred they are followed by the direct
// producer to consumer pairs implied by file usage that are not already
// present, ordered by consumer job and then by usage. Only direct pairs are
// added, never their transitive closure.
func (w *Workflow) Dependencies() []Edge {
	edges := w.ExplicitDependencies()
	if w.policy != EdgesInferred {
		return edges
	}

	seen := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		seen[e] = struct{}{}
	}
	producers := w.producers()
	for _, consumer := range w.order {
		for _, u := range consumer.usages {
			if u.Link != Input {
				continue
			}
			producer, ok := producers[u.File]
			if !ok {
				continue
			}
			e := Edge{Parent: producer, Child: consumer.id}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// producers maps each logical file to the first job, in insertion order, that
// declares it as output.
func (w *Workflow) producers() map[string]string {
	out := make(map[string]string)
	for _, j := range w.order {
		for _, u := range j.usages {
			if u.Link != Output {
				continue
			}
			if _, ok := out[u.File]; !ok {
				out[u.File] = j.id
			}
		}
	}
	return out
}

// SetProfile sets (namespace, key) = value on the owner's profiles. Setting an
// existing pair updates its value in place. Unknown owners yield an error
// matching registry.ErrUnknownEntity.
func (w *Workflow) SetProfile(owner profile.Owner, namespace, key, value string) error {
	switch owner.Kind {
	case profile.OwnerJob:
		j, err := w.Job(owner.ID)
		if err != nil {
			return err
		}
		j.profiles.Set(namespace, key, value)
		return nil

	case profile.OwnerExecutable:
		id, err := entityid.Parse(owner.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", &GraphError{Kind: ErrUnknownExecutable, Msg: fmt.Sprintf("%q", owner.ID)}, err)
		}
		e, err := w.registry.Executable(id)
		if err != nil {
			return err
		}
		e.AddProfile(namespace, key, value)
		return nil

	case profile.OwnerUsage:
		j, err := w.Job(owner.ID)
		if err != nil {
			return err
		}
		u := j.usage(owner.File)
		if u == nil {
			return &GraphError{Kind: ErrUnknownFile, Msg: fmt.Sprintf("job %q does not use %q", owner.ID, owner.File)}
		}
		u.profiles.Set(namespace, key, value)
		return nil

	default:
		return fmt.Errorf("unsupported profile owner %s", owner)
	}
}
