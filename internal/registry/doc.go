// Package registry holds the declarations a workflow refers to by name: logical
// files and executables.
//
// The Registry is the sole owner of these entities. Jobs keep only identity
// keys (a logical file name or an executable triple) and resolve them here,
// so an entity shared by many jobs is declared exactly once and never copied.
// Declaration order is preserved because it drives serialization order.
package registry
