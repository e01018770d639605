// internal/entityid/parser.go
package entityid

import (
	"fmt"
	"regexp"
	"strings"
)

// partRegex matches a single identity part: a namespace, a name or a version.
var partRegex = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+$`)

// isValidPart checks for undesirable but technically matching names.
func isValidPart(part string) bool {
	if part == "." || part == ".." || part == "-" {
		return false
	}
	return partRegex.MatchString(part)
}

// Parse creates an Executable identity by parsing its canonical string representation.
func Parse(raw string) (Executable, error) {
	if raw == "" {
		return Executable{}, fmt.Errorf("identifier cannot be empty")
	}

	var id Executable
	rest := raw
	if ns, after, found := strings.Cut(rest, namespaceSeparator); found {
		if ns == "" {
			return Executable{}, fmt.Errorf("identifier %q has an empty namespace", raw)
		}
		id.Namespace = ns
		rest = after
	}

	name, version, found := strings.Cut(rest, versionSeparator)
	if found && version == "" {
		return Executable{}, fmt.Errorf("identifier %q has an empty version", raw)
	}
	id.Name = name
	id.Version = version

	if err := id.Validate(); err != nil {
		return Executable{}, fmt.Errorf("invalid identifier %q: %w", raw, err)
	}
	return id, nil
}

// Validate checks every present part against the identifier schema.
func (e Executable) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !isValidPart(e.Name) {
		return fmt.Errorf("invalid name: %q", e.Name)
	}
	if e.Namespace != "" && !isValidPart(e.Namespace) {
		return fmt.Errorf("invalid namespace: %q", e.Namespace)
	}
	if e.Version != "" && !isValidPart(e.Version) {
		return fmt.Errorf("invalid version: %q", e.Version)
	}
	return nil
}
