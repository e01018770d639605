// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Job structure, a single invocation of a declared
// executable. A Job refers to its executable and files by identity only; the
// registry owned by the Workflow is what gives those identities meaning.

package workflow

import (
	"github.com/vk/daxgen/internal/entityid"
	"github.com/vk/daxgen/internal/profile"
)

// Argument is one token of a job's command line: literal text, or a logical
// file rendered by name at serialization time.
type Argument struct {
	Value  string
	IsFile bool
}

// Literal returns a literal argument token. Whitespace is kept verbatim.
func Literal(text string) Argument { return Argument{Value: text} }

// FileRef returns an argument token referring to the logical file lfn.
func FileRef(lfn string) Argument { return Argument{Value: lfn, IsFile: true} }

// Usage is a job's use of one logical file.
type Usage struct {
	File     string
	Link     LinkType
	Transfer bool
	Optional bool

	register *bool
	profiles profile.Set
}

// Register returns the explicit catalog flag for this usage. When set is
// false the flag is inherited from the file declaration.
func (u Usage) Register() (value, set bool) {
	if u.register == nil {
		return false, false
	}
	return *u.register, true
}

// Profiles returns the usage's profiles in insertion order.
func (u Usage) Profiles() []profile.Profile {
	return u.profiles.All()
}

// UsageOption adjusts a usage recorded with Job.UsesWith.
type UsageOption func(*Usage)

// Transfer sets whether the planner stages the file. The default is true.
func Transfer(transfer bool) UsageOption {
	return func(u *Usage) { u.Transfer = transfer }
}

// Register overrides the file's catalog flag for this usage.
func Register(register bool) UsageOption {
	return func(u *Usage) { u.register = &register }
}

// Optional marks the file as not required for the job to run.
func Optional(optional bool) UsageOption {
	return func(u *Usage) { u.Optional = optional }
}

// UsageProfile attaches a profile to the usage.
func UsageProfile(namespace, key, value string) UsageOption {
	return func(u *Usage) { u.profiles.Set(namespace, key, value) }
}

// Job is one node of the workflow graph.
type Job struct {
	id         string
	executable entityid.Executable
	arguments  []Argument
	usages     []*Usage
	profiles   profile.Set
}

// NewJob creates a job that invokes the executable (namespace, name, version).
func NewJob(id, namespace, name, version string) *Job {
	return &Job{
		id:         id,
		executable: entityid.New(namespace, name, version),
	}
}

// ID returns the caller-supplied job ID.
func (j *Job) ID() string { return j.id }

// Executable returns the identity of the executable the job invokes.
func (j *Job) Executable() entityid.Executable { return j.executable }

// AddArgument appends a literal token.
func (j *Job) AddArgument(text string) *Job {
	j.arguments = append(j.arguments, Literal(text))
	return j
}

// AddFileArgument appends a reference to the logical file lfn.
func (j *Job) AddFileArgument(lfn string) *Job {
	j.arguments = append(j.arguments, FileRef(lfn))
	return j
}

// Arguments returns the argument tokens in the order they were added.
func (j *Job) Arguments() []Argument {
	return append([]Argument(nil), j.arguments...)
}

// Uses records that the job reads or writes lfn.
func (j *Job) Uses(lfn string, link LinkType) *Job {
	return j.UsesWith(lfn, link)
}

// UsesWith records a usage with options. A job uses each file once: using the
// same file again replaces the earlier usage in place.
func (j *Job) UsesWith(lfn string, link LinkType, opts ...UsageOption) *Job {
	u := &Usage{File: lfn, Link: link, Transfer: true}
	for _, opt := range opts {
		opt(u)
	}
	for i, existing := range j.usages {
		if existing.File == lfn {
			j.usages[i] = u
			return j
		}
	}
	j.usages = append(j.usages, u)
	return j
}

// Usages returns the job's usages in the order they were first recorded.
func (j *Job) Usages() []Usage {
	out := make([]Usage, 0, len(j.usages))
	for _, u := range j.usages {
		out = append(out, *u)
	}
	return out
}

func (j *Job) usage(lfn string) *Usage {
	for _, u := range j.usages {
		if u.File == lfn {
			return u
		}
	}
	return nil
}

// AddProfile sets a profile on the job. Setting an existing (namespace, key)
// pair updates its value in place.
func (j *Job) AddProfile(namespace, key, value string) *Job {
	j.profiles.Set(namespace, key, value)
	return j
}

// Profile returns the value of the job profile (namespace, key).
func (j *Job) Profile(namespace, key string) (string, bool) {
	return j.profiles.Get(namespace, key)
}

// Profiles returns the job's profiles in insertion order.
func (j *Job) Profiles() []profile.Profile {
	return j.profiles.All()
}

// files returns every logical file the job mentions, usages first, then file
// arguments, without repeats.
func (j *Job) files() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(lfn string) {
		if _, ok := seen[lfn]; ok {
			return
		}
		seen[lfn] = struct{}{}
		out = append(out, lfn)
	}
	for _, u := range j.usages {
		add(u.File)
	}
	for _, a := range j.arguments {
		if a.IsFile {
			add(a.Value)
		}
	}
	return out
}
