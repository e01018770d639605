package registry

import (
	"github.com/vk/daxgen/internal/entityid"
	"github.com/vk/daxgen/internal/profile"
)

// PhysicalFile is a concrete location of a logical file or executable.
type PhysicalFile struct {
	URL  string
	Site string
}

// File is a declared logical file.
type File struct {
	name     string
	pfns     []PhysicalFile
	register bool
}

// Name returns the logical file name.
func (f *File) Name() string { return f.name }

// AddPhysicalFile appends a (url, site) mapping.
func (f *File) AddPhysicalFile(url, site string) *File {
	f.pfns = append(f.pfns, PhysicalFile{URL: url, Site: site})
	return f
}

// PhysicalFiles returns the mappings in the order they were added.
func (f *File) PhysicalFiles() []PhysicalFile {
	return append([]PhysicalFile(nil), f.pfns...)
}

// SetRegister marks whether the planner should catalog the file once produced.
func (f *File) SetRegister(register bool) *File {
	f.register = register
	return f
}

// Register reports the catalog registration flag.
func (f *File) Register() bool { return f.register }

// Executable is a declared transformation. Executables are installed by default.
type Executable struct {
	id        entityid.Executable
	arch      Arch
	os        OS
	installed bool
	pfns      []PhysicalFile
	profiles  profile.Set
}

// ID returns the identity triple.
func (e *Executable) ID() entityid.Executable { return e.id }

// SetArchitecture sets the target architecture.
func (e *Executable) SetArchitecture(arch Arch) *Executable {
	e.arch = arch
	return e
}

// Architecture returns the target architecture, empty if unspecified.
func (e *Executable) Architecture() Arch { return e.arch }

// SetOS sets the target operating system.
func (e *Executable) SetOS(os OS) *Executable {
	e.os = os
	return e
}

// OS returns the target operating system, empty if unspecified.
func (e *Executable) OS() OS { return e.os }

// SetInstalled records whether the executable is pre-installed on the site
// (true) or must be staged by the planner (false).
func (e *Executable) SetInstalled(installed bool) *Executable {
	e.installed = installed
	return e
}

// Installed reports the installed flag.
func (e *Executable) Installed() bool { return e.installed }

// AddPhysicalFile appends a (url, site) mapping.
func (e *Executable) AddPhysicalFile(url, site string) *Executable {
	e.pfns = append(e.pfns, PhysicalFile{URL: url, Site: site})
	return e
}

// PhysicalFiles returns the mappings in the order they were added.
func (e *Executable) PhysicalFiles() []PhysicalFile {
	return append([]PhysicalFile(nil), e.pfns...)
}

// AddProfile attaches a profile to the executable.
func (e *Executable) AddProfile(namespace, key, value string) *Executable {
	e.profiles.Set(namespace, key, value)
	return e
}

// Profiles returns the executable's profiles in insertion order.
func (e *Executable) Profiles() []profile.Profile {
	return e.profiles.All()
}
