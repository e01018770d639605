// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package workflow is the aggregate root of a workflow description. It owns
// the entity registry, the jobs, and the dependency edges between them, and
// it is the single place where the whole description is validated.
//
// # Core Concepts
//
//   - Workflow: The root container. Files and executables are declared on it,
//     jobs are added to it, and explicit dependencies are recorded between
//     jobs it already knows.
//
//   - Job: One invocation of a declared executable. A job carries its ordered
//     argument tokens (literal text or references to logical files), the files
//     it reads and writes, and its own profiles.
//
//   - Usage: A job's use of a logical file, either as input or as output. The
//     set of usages is what lets the workflow infer data-flow dependencies.
//
// # Dependencies
//
// Explicit edges are always part of the graph. Under EdgesInferred (the
// default) every direct producer to consumer pair implied by shared files is
// added after them, skipping pairs already declared. Under EdgesExplicit the
// usages are purely descriptive. See Workflow.Dependencies.
//
// # Validation
//
// Mutating calls reject local violations immediately (duplicate job IDs,
// edges to unknown jobs, duplicate edges) and leave the workflow unchanged
// when they fail. Validate performs the global checks once: references to the
// registry, conflicting producers and acyclicity. It collects every violation
// rather than stopping at the first one.
package workflow
