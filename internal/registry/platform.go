package registry

import (
	"fmt"
	"strings"
)

// Arch is the target architecture of an executable. The zero value means
// "not specified" and is omitted from serialized documents.
type Arch string

const (
	ArchX86     Arch = "x86"
	ArchX86_64  Arch = "x86_64"
	ArchPPC     Arch = "ppc"
	ArchPPC_64  Arch = "ppc_64"
	ArchIA64    Arch = "ia64"
	ArchSparcV7 Arch = "sparcv7"
	ArchSparcV9 Arch = "sparcv9"
	ArchAArch64 Arch = "aarch64"
)

var knownArchs = []Arch{ArchX86, ArchX86_64, ArchPPC, ArchPPC_64, ArchIA64, ArchSparcV7, ArchSparcV9, ArchAArch64}

// ParseArch converts a case-insensitive architecture name into an Arch.
// An empty string yields the unspecified architecture.
func ParseArch(s string) (Arch, error) {
	if s == "" {
		return "", nil
	}
	for _, a := range knownArchs {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown architecture %q", s)
}

// OS is the target operating system of an executable. The zero value means
// "not specified".
type OS string

const (
	OSLinux   OS = "linux"
	OSSunOS   OS = "sunos"
	OSAIX     OS = "aix"
	OSMacOSX  OS = "macosx"
	OSWindows OS = "windows"
)

var knownOSes = []OS{OSLinux, OSSunOS, OSAIX, OSMacOSX, OSWindows}

// ParseOS converts a case-insensitive operating system name into an OS.
// An empty string yields the unspecified OS.
func ParseOS(s string) (OS, error) {
	if s == "" {
		return "", nil
	}
	for _, o := range knownOSes {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown operating system %q", s)
}
