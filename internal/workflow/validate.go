package workflow

import (
	"errors"
	"fmt"

	"github.com/vk/daxgen/internal/dag"
)

// Validate checks the workflow as a whole and reports every violation it
// finds. Checks run in a fixed order: executable references, file
// references, conflicting producers, then acyclicity over the resolved
// dependency set. It never modifies the workflow. The result is nil or a
// *ValidationError.
func (w *Workflow) Validate() error {
	var errs []error
	errs = append(errs, w.validateExecutables()...)
	errs = append(errs, w.validateFiles()...)
	errs = append(errs, w.validateProducers()...)
	if err := w.validateAcyclic(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &ValidationError{Errs: errs}
	}
	return nil
}

func (w *Workflow) validateExecutables() []error {
	var errs []error
	for _, j := range w.order {
		if !w.registry.HasExecutable(j.executable) {
			errs = append(errs, &GraphError{
				Kind: ErrUnknownExecutable,
				Msg:  fmt.Sprintf("job %q references %q", j.id, j.executable),
			})
		}
	}
	return errs
}

func (w *Workflow) validateFiles() []error {
	var errs []error
	for _, j := range w.order {
		for _, lfn := range j.files() {
			if !w.registry.HasFile(lfn) {
				errs = append(errs, &GraphError{
					Kind: ErrUnknownFile,
					Msg:  fmt.Sprintf("job %q references %q", j.id, lfn),
				})
			}
		}
	}
	return errs
}

func (w *Workflow) validateProducers() []error {
	var errs []error
	first := make(map[string]string)
	for _, j := range w.order {
		for _, u := range j.usages {
			if u.Link != Output {
				continue
			}
			if producer, ok := first[u.File]; ok {
				errs = append(errs, &GraphError{
					Kind: ErrConflictingProducer,
					Msg:  fmt.Sprintf("file %q is produced by jobs %q and %q", u.File, producer, j.id),
				})
				continue
			}
			first[u.File] = j.id
		}
	}
	return errs
}

func (w *Workflow) validateAcyclic() error {
	_, err := w.TopologicalOrder()
	return err
}

// TopologicalOrder returns the job IDs ordered so that every job follows all
// of its dependencies under the current policy. Jobs that are ready at the
// same time keep their insertion order. A cycle yields a *CycleError.
func (w *Workflow) TopologicalOrder() ([]string, error) {
	g := dag.New()
	for _, j := range w.order {
		g.AddNode(j.id)
	}
	for _, e := range w.Dependencies() {
		if err := g.AddEdge(e.Parent, e.Child); err != nil {
			return nil, fmt.Errorf("failed to add dependency %s: %w", e, err)
		}
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &CycleError{Path: cycleErr.Path}
		}
		return nil, err
	}
	return order, nil
}
