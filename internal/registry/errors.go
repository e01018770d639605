package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateDeclaration is returned when an identity is declared twice.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrUnknownEntity is returned when a lookup names an undeclared entity.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrInvalidIdentifier is returned for empty or malformed identities.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// EntityError carries the offending entity kind and identifier together with
// the failure class in Kind.
type EntityError struct {
	Kind   error
	Entity string // "file", "executable" or "job"
	ID     string
}

func (e *EntityError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %q", e.Kind, e.Entity, e.ID)
}

func (e *EntityError) Unwrap() error { return e.Kind }

func duplicate(entity, id string) error {
	return &EntityError{Kind: ErrDuplicateDeclaration, Entity: entity, ID: id}
}

func unknown(entity, id string) error {
	return &EntityError{Kind: ErrUnknownEntity, Entity: entity, ID: id}
}
