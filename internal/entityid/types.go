// internal/entityid/types.go
package entityid

// Executable is the identity triple of a transformation: the value that jobs
// use to reference an executable declared in the registry.
type Executable struct {
	Namespace string
	Name      string
	Version   string
}

// New creates an executable identity from its three parts.
func New(namespace, name, version string) Executable {
	return Executable{Namespace: namespace, Name: name, Version: version}
}

// IsZero reports whether the identity has no name.
func (e Executable) IsZero() bool {
	return e.Name == ""
}
