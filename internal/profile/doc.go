// Package profile implements the namespaced key/value hints that a workflow
// attaches to jobs, executables and job-level file usages.
//
// A profile bag is deliberately schema-less. Planners recognise an evolving
// set of namespaces (for example "selector" hints that steer site selection),
// so this package only stores and orders entries and never interprets them.
// Iteration order is insertion order, which keeps serialized documents stable.
package profile
