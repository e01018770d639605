package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/profile"
	"github.com/vk/daxgen/internal/registry"
	"github.com/vk/daxgen/internal/workflow"
)

// BlackDiamond builds the four-job diamond used across the test suite:
//
//	     j1
//	    /  \
//	  j2    j3
//	    \  /
//	     j4
//
// It declares seven files (f.e1 is registered but unused), three executables
// and four explicit dependencies.
func BlackDiamond(t *testing.T) *workflow.Workflow {
	t.Helper()

	wf := workflow.New("blackdiamond")

	fa, err := wf.DeclareFile("f.a")
	require.NoError(t, err)
	fa.AddPhysicalFile("file:///work/f.a", "local")

	for _, lfn := range []string{"f.b1", "f.b2", "f.c1", "f.c2"} {
		_, err := wf.DeclareFile(lfn)
		require.NoError(t, err)
	}
	fd, err := wf.DeclareFile("f.d")
	require.NoError(t, err)
	fd.SetRegister(true)
	fe1, err := wf.DeclareFile("f.e1")
	require.NoError(t, err)
	fe1.SetRegister(true)

	for _, name := range []string{"preprocess", "findrange", "analyze"} {
		exe, err := wf.DeclareExecutable("pegasus", name, "4.0")
		require.NoError(t, err)
		bin := "/opt/pegasus/bin/pegasus-keg-fake"
		if name == "analyze" {
			bin = "/opt/pegasus/bin/pegasus-keg"
		}
		exe.SetArchitecture(registry.ArchX86_64).
			SetOS(registry.OSLinux).
			SetInstalled(false).
			AddPhysicalFile("file://"+bin, "local")
	}

	hints := func(j *workflow.Job, pfn string) *workflow.Job {
		return j.AddProfile(profile.NamespaceSelector, "grid.jobtype", "auxillary").
			AddProfile(profile.NamespaceSelector, "execution.site", "CCG").
			AddProfile(profile.NamespaceSelector, "pfn", pfn)
	}

	j1 := workflow.NewJob("j1", "pegasus", "preprocess", "4.0").
		AddArgument("-o ").AddFileArgument("f.b1").
		AddArgument(" -o ").AddFileArgument("f.b2").
		Uses("f.a", workflow.Input).
		Uses("f.b1", workflow.Output).
		Uses("f.b2", workflow.Output)
	hints(j1, "/usr/bin/pegasus-keg")

	j2 := workflow.NewJob("j2", "pegasus", "findrange", "4.0").
		AddArgument("-a findrange -T 10 -i ").AddFileArgument("f.b1").
		AddArgument("-o ").AddFileArgument("f.c1").
		Uses("f.b1", workflow.Input).
		Uses("f.c1", workflow.Output)
	hints(j2, "/opt/pegasus/bin/pegasus-keg")

	j3 := workflow.NewJob("j3", "pegasus", "findrange", "4.0").
		AddArgument("-a findrange -T 10 -i ").AddFileArgument("f.b2").
		AddArgument("-o ").AddFileArgument("f.c2").
		Uses("f.b2", workflow.Input).
		Uses("f.c2", workflow.Output)
	hints(j3, "/opt/pegasus/bin/pegasus-keg")

	j4 := workflow.NewJob("j4", "pegasus", "analyze", "4.0").
		AddArgument("-a analyze -T 10 -i ").AddFileArgument("f.c1").
		AddArgument(" ").AddFileArgument("f.c2").
		AddArgument("-o ").AddFileArgument("f.d").
		Uses("f.c1", workflow.Input).
		Uses("f.c2", workflow.Input).
		Uses("f.d", workflow.Output)
	j4.AddProfile(profile.NamespaceSelector, "execution.site", "CCG").
		AddProfile(profile.NamespaceSelector, "pfn", "/opt/pegasus/bin/pegasus-keg").
		AddProfile(profile.NamespaceSelector, "grid.jobtype", "auxillary")

	for _, j := range []*workflow.Job{j1, j2, j3, j4} {
		require.NoError(t, wf.AddJob(j))
	}

	for _, e := range [][2]string{{"j1", "j2"}, {"j1", "j3"}, {"j2", "j4"}, {"j3", "j4"}} {
		require.NoError(t, wf.AddDependency(e[0], e[1]))
	}

	return wf
}
