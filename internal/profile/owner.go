package profile

import "fmt"

// OwnerKind names the scope a profile is attached to.
type OwnerKind int

const (
	// OwnerJob scopes a profile to a job.
	OwnerJob OwnerKind = iota
	// OwnerExecutable scopes a profile to a declared executable.
	OwnerExecutable
	// OwnerUsage scopes a profile to one job's use of a logical file.
	OwnerUsage
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerJob:
		return "job"
	case OwnerExecutable:
		return "executable"
	case OwnerUsage:
		return "usage"
	default:
		return fmt.Sprintf("OwnerKind(%d)", int(k))
	}
}

// Owner identifies the entity that receives a profile. ID is a job ID or a
// canonical executable identifier; File is the logical file name and is only
// meaningful for OwnerUsage.
type Owner struct {
	Kind OwnerKind
	ID   string
	File string
}

// JobOwner addresses the profiles of a job.
func JobOwner(jobID string) Owner {
	return Owner{Kind: OwnerJob, ID: jobID}
}

// ExecutableOwner addresses the profiles of an executable by its canonical identifier.
func ExecutableOwner(id string) Owner {
	return Owner{Kind: OwnerExecutable, ID: id}
}

// UsageOwner addresses the profiles of a job's usage of a logical file.
func UsageOwner(jobID, lfn string) Owner {
	return Owner{Kind: OwnerUsage, ID: jobID, File: lfn}
}

func (o Owner) String() string {
	if o.Kind == OwnerUsage {
		return fmt.Sprintf("%s %s/%s", o.Kind, o.ID, o.File)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.ID)
}
