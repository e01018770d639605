package registry

import (
	"fmt"

	"github.com/vk/daxgen/internal/entityid"
)

// Registry holds all declared files and executables for a single workflow.
type Registry struct {
	files       map[string]*File
	fileOrder   []*File
	executables map[entityid.Executable]*Executable
	exeOrder    []*Executable
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		files:       make(map[string]*File),
		executables: make(map[entityid.Executable]*Executable),
	}
}

// DeclareFile declares a logical file and returns its handle.
func (r *Registry) DeclareFile(lfn string) (*File, error) {
	if lfn == "" {
		return nil, &EntityError{Kind: ErrInvalidIdentifier, Entity: "file", ID: lfn}
	}
	if _, exists := r.files[lfn]; exists {
		return nil, duplicate("file", lfn)
	}
	f := &File{name: lfn}
	r.files[lfn] = f
	r.fileOrder = append(r.fileOrder, f)
	return f, nil
}

// DeclareExecutable declares an executable by its identity triple and returns
// its handle.
func (r *Registry) DeclareExecutable(namespace, name, version string) (*Executable, error) {
	id := entityid.New(namespace, name, version)
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", &EntityError{Kind: ErrInvalidIdentifier, Entity: "executable", ID: id.String()}, err)
	}
	if _, exists := r.executables[id]; exists {
		return nil, duplicate("executable", id.String())
	}
	e := &Executable{id: id, installed: true}
	r.executables[id] = e
	r.exeOrder = append(r.exeOrder, e)
	return e, nil
}

// File looks up a declared file by its logical name.
func (r *Registry) File(lfn string) (*File, error) {
	f, ok := r.files[lfn]
	if !ok {
		return nil, unknown("file", lfn)
	}
	return f, nil
}

// Executable looks up a declared executable by identity.
func (r *Registry) Executable(id entityid.Executable) (*Executable, error) {
	e, ok := r.executables[id]
	if !ok {
		return nil, unknown("executable", id.String())
	}
	return e, nil
}

// HasFile reports whether lfn has been declared.
func (r *Registry) HasFile(lfn string) bool {
	_, ok := r.files[lfn]
	return ok
}

// HasExecutable reports whether id has been declared.
func (r *Registry) HasExecutable(id entityid.Executable) bool {
	_, ok := r.executables[id]
	return ok
}

// Files returns the declared files in declaration order.
func (r *Registry) Files() []*File {
	return append([]*File(nil), r.fileOrder...)
}

// Executables returns the declared executables in declaration order.
func (r *Registry) Executables() []*Executable {
	return append([]*Executable(nil), r.exeOrder...)
}
