// internal/entityid/format.go
package entityid

import "strings"

const (
	namespaceSeparator = "::"
	versionSeparator   = ":"
)

// String serializes the identity into its canonical string representation.
// Empty namespace and version parts are omitted.
func (e Executable) String() string {
	var sb strings.Builder
	if e.Namespace != "" {
		sb.WriteString(e.Namespace)
		sb.WriteString(namespaceSeparator)
	}
	sb.WriteString(e.Name)
	if e.Version != "" {
		sb.WriteString(versionSeparator)
		sb.WriteString(e.Version)
	}
	return sb.String()
}

// Equal reports whether two identities name the same executable.
func (e Executable) Equal(other Executable) bool {
	return e == other
}
