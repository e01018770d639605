// internal/entityid/doc.go

/*
Package entityid provides a structured, type-safe representation for
executable identifiers, based on the canonical format `namespace::name:version`.

Namespace and version are optional, so `name`, `namespace::name` and
`name:version` are all valid forms. The name is always required.

This package enforces the identifier schema and centralizes all
formatting and parsing logic, so the registry, the job graph and every
document encoder agree on how an executable is spelled.
*/
package entityid
