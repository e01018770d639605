package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/profile"
	"github.com/vk/daxgen/internal/registry"
)

// chain builds a workflow of jobs that each produce "<id>.out" and read the
// output of the job before them, without any explicit edges.
func chain(t *testing.T, ids ...string) *Workflow {
	t.Helper()
	wf := New("chain")
	_, err := wf.DeclareExecutable("", "tool", "")
	require.NoError(t, err)
	for i, id := range ids {
		_, err := wf.DeclareFile(id + ".out")
		require.NoError(t, err)
		j := NewJob(id, "", "tool", "").Uses(id+".out", Output)
		if i > 0 {
			j.Uses(ids[i-1]+".out", Input)
		}
		require.NoError(t, wf.AddJob(j))
	}
	return wf
}

func TestAddJob(t *testing.T) {
	wf := New("w")
	require.NoError(t, wf.AddJob(NewJob("j1", "", "tool", "")))

	err := wf.AddJob(NewJob("j1", "", "other", ""))
	assert.ErrorIs(t, err, ErrDuplicateJobID)
	assert.EqualError(t, err, `duplicate job id: "j1"`)

	j, err := wf.Job("j1")
	require.NoError(t, err)
	assert.Equal(t, "tool", j.Executable().Name, "a rejected job must not replace the original")
	assert.Len(t, wf.Jobs(), 1)

	assert.ErrorIs(t, wf.AddJob(nil), registry.ErrInvalidIdentifier)
	assert.ErrorIs(t, wf.AddJob(NewJob("", "", "tool", "")), registry.ErrInvalidIdentifier)
}

func TestJob_Lookup(t *testing.T) {
	wf := New("w")
	_, err := wf.Job("missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
	assert.ErrorIs(t, err, registry.ErrUnknownEntity)
}

func TestAddDependency(t *testing.T) {
	newWF := func(t *testing.T) *Workflow {
		wf := New("w")
		require.NoError(t, wf.AddJob(NewJob("a", "", "tool", "")))
		require.NoError(t, wf.AddJob(NewJob("b", "", "tool", "")))
		return wf
	}

	t.Run("records edges in order", func(t *testing.T) {
		wf := newWF(t)
		require.NoError(t, wf.AddDependency("b", "a"))
		require.NoError(t, wf.AddDependency("a", "b"))
		assert.Equal(t, []Edge{{"b", "a"}, {"a", "b"}}, wf.ExplicitDependencies())
	})

	t.Run("unknown job leaves workflow unchanged", func(t *testing.T) {
		wf := newWF(t)
		require.NoError(t, wf.AddDependency("a", "b"))

		err := wf.AddDependency("a", "ghost")
		assert.ErrorIs(t, err, ErrUnknownJob)
		assert.ErrorIs(t, err, registry.ErrUnknownEntity)
		assert.ErrorContains(t, err, `"ghost"`)

		err = wf.AddDependency("ghost", "a")
		assert.ErrorIs(t, err, ErrUnknownJob)

		assert.Equal(t, []Edge{{"a", "b"}}, wf.ExplicitDependencies())
		assert.Len(t, wf.Jobs(), 2)
	})

	t.Run("duplicate edge is rejected", func(t *testing.T) {
		wf := newWF(t)
		require.NoError(t, wf.AddDependency("a", "b"))
		err := wf.AddDependency("a", "b")
		assert.ErrorIs(t, err, ErrDuplicateEdge)
		assert.EqualError(t, err, "duplicate edge: a -> b")
		assert.Len(t, wf.ExplicitDependencies(), 1)
	})

	t.Run("self edge is a cycle", func(t *testing.T) {
		wf := newWF(t)
		err := wf.AddDependency("a", "a")
		assert.ErrorIs(t, err, ErrCyclicGraph)
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a", "a"}, cycleErr.Path)
		assert.Empty(t, wf.ExplicitDependencies())
	})
}

func TestDependencies(t *testing.T) {
	t.Run("usage-only jobs infer producer to consumer pairs", func(t *testing.T) {
		wf := chain(t, "x", "y", "z")
		assert.Equal(t, []Edge{{"x", "y"}, {"y", "z"}}, wf.Dependencies())
		assert.NoError(t, wf.Validate())
	})

	t.Run("inference is not a transitive closure", func(t *testing.T) {
		wf := chain(t, "x", "y", "z")
		assert.NotContains(t, wf.Dependencies(), Edge{"x", "z"})
	})

	t.Run("explicit edges come first and are not repeated", func(t *testing.T) {
		wf := chain(t, "x", "y", "z")
		require.NoError(t, wf.AddDependency("y", "z"))
		require.NoError(t, wf.AddDependency("x", "z"))
		assert.Equal(t, []Edge{{"y", "z"}, {"x", "z"}, {"x", "y"}}, wf.Dependencies())
	})

	t.Run("explicit policy ignores usages", func(t *testing.T) {
		wf := chain(t, "x", "y", "z")
		wf.SetEdgePolicy(EdgesExplicit)
		assert.Empty(t, wf.Dependencies())
		require.NoError(t, wf.AddDependency("x", "z"))
		assert.Equal(t, []Edge{{"x", "z"}}, wf.Dependencies())
	})

}

func TestUsesWith(t *testing.T) {
	j := NewJob("j", "", "tool", "").
		UsesWith("a", Input, Optional(true), Transfer(false)).
		UsesWith("b", Output, Register(true), UsageProfile("pegasus", "size", "10")).
		Uses("c", Output)

	usages := j.Usages()
	require.Len(t, usages, 3)

	assert.True(t, usages[0].Optional)
	assert.False(t, usages[0].Transfer)
	_, set := usages[0].Register()
	assert.False(t, set)

	reg, set := usages[1].Register()
	assert.True(t, set)
	assert.True(t, reg)
	assert.Equal(t, []profile.Profile{{Namespace: "pegasus", Key: "size", Value: "10"}}, usages[1].Profiles())

	assert.True(t, usages[2].Transfer, "transfer defaults to true")

	j.Uses("a", Output)
	usages = j.Usages()
	require.Len(t, usages, 3, "re-using a file replaces the usage in place")
	assert.Equal(t, "a", usages[0].File)
	assert.Equal(t, Output, usages[0].Link)
}

func TestArguments(t *testing.T) {
	j := NewJob("j", "", "tool", "").
		AddArgument("-o ").AddFileArgument("f.b1").AddArgument(" -o ")
	assert.Equal(t, []Argument{Literal("-o "), FileRef("f.b1"), Literal(" -o ")}, j.Arguments())
}

func TestSetProfile(t *testing.T) {
	wf := New("w")
	_, err := wf.DeclareExecutable("pegasus", "keg", "1.0")
	require.NoError(t, err)
	require.NoError(t, wf.AddJob(NewJob("j1", "pegasus", "keg", "1.0").Uses("f.a", Input)))

	t.Run("job profiles update in place", func(t *testing.T) {
		require.NoError(t, wf.SetProfile(profile.JobOwner("j1"), "selector", "pfn", "/bin/a"))
		require.NoError(t, wf.SetProfile(profile.JobOwner("j1"), "env", "HOME", "/tmp"))
		require.NoError(t, wf.SetProfile(profile.JobOwner("j1"), "selector", "pfn", "/bin/b"))

		j, err := wf.Job("j1")
		require.NoError(t, err)
		assert.Equal(t, []profile.Profile{
			{Namespace: "selector", Key: "pfn", Value: "/bin/b"},
			{Namespace: "env", Key: "HOME", Value: "/tmp"},
		}, j.Profiles())
	})

	t.Run("executable profiles", func(t *testing.T) {
		require.NoError(t, wf.SetProfile(profile.ExecutableOwner("pegasus::keg:1.0"), "env", "PATH", "/bin"))
		exes := wf.Registry().Executables()
		require.Len(t, exes, 1)
		assert.Equal(t, []profile.Profile{{Namespace: "env", Key: "PATH", Value: "/bin"}}, exes[0].Profiles())
	})

	t.Run("usage profiles", func(t *testing.T) {
		require.NoError(t, wf.SetProfile(profile.UsageOwner("j1", "f.a"), "pegasus", "checksum", "abc"))
		j, err := wf.Job("j1")
		require.NoError(t, err)
		assert.Equal(t, "abc", j.Usages()[0].Profiles()[0].Value)
	})

	t.Run("unknown owners", func(t *testing.T) {
		owners := []profile.Owner{
			profile.JobOwner("ghost"),
			profile.ExecutableOwner("pegasus::missing:1.0"),
			profile.UsageOwner("j1", "f.zz"),
			profile.UsageOwner("ghost", "f.a"),
		}
		for _, owner := range owners {
			err := wf.SetProfile(owner, "ns", "k", "v")
			assert.ErrorIs(t, err, registry.ErrUnknownEntity, owner.String())
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("acyclic dag passes", func(t *testing.T) {
		wf := chain(t, "a", "b", "c", "d")
		require.NoError(t, wf.AddDependency("a", "c"))
		require.NoError(t, wf.AddDependency("a", "d"))
		assert.NoError(t, wf.Validate())
	})

	t.Run("direct cycle", func(t *testing.T) {
		wf := chain(t, "a", "b")
		require.NoError(t, wf.AddDependency("b", "a"))

		err := wf.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCyclicGraph)
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a", "b", "a"}, cycleErr.Path)
	})

	t.Run("transitive cycle", func(t *testing.T) {
		wf := chain(t, "a", "b", "c")
		wf.SetEdgePolicy(EdgesExplicit)
		require.NoError(t, wf.AddDependency("a", "b"))
		require.NoError(t, wf.AddDependency("b", "c"))
		require.NoError(t, wf.AddDependency("c", "a"))

		err := wf.Validate()
		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a", "b", "c", "a"}, cycleErr.Path)
		assert.Contains(t, err.Error(), "cyclic graph: a -> b -> c -> a")
	})

	t.Run("conflicting producer", func(t *testing.T) {
		wf := New("w")
		_, err := wf.DeclareExecutable("", "tool", "")
		require.NoError(t, err)
		_, err = wf.DeclareFile("out")
		require.NoError(t, err)
		require.NoError(t, wf.AddJob(NewJob("p1", "", "tool", "").Uses("out", Output)))
		require.NoError(t, wf.AddJob(NewJob("p2", "", "tool", "").Uses("out", Output)))

		err = wf.Validate()
		assert.ErrorIs(t, err, ErrConflictingProducer)
		assert.ErrorContains(t, err, `file "out" is produced by jobs "p1" and "p2"`)
	})

	t.Run("unknown references are all reported", func(t *testing.T) {
		wf := New("w")
		require.NoError(t, wf.AddJob(NewJob("j1", "ns", "missing", "1").
			Uses("nope.in", Input).
			AddFileArgument("nope.arg")))

		err := wf.Validate()
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Errs, 3)
		assert.ErrorIs(t, vErr.Errs[0], ErrUnknownExecutable)
		assert.ErrorIs(t, vErr.Errs[1], ErrUnknownFile)
		assert.ErrorIs(t, vErr.Errs[2], ErrUnknownFile)
		assert.ErrorIs(t, err, registry.ErrUnknownEntity)
		assert.Equal(t,
			"workflow validation failed:\n"+
				"- unknown executable: job \"j1\" references \"ns::missing:1\"\n"+
				"- unknown file: job \"j1\" references \"nope.in\"\n"+
				"- unknown file: job \"j1\" references \"nope.arg\"",
			err.Error())
	})

	t.Run("validation has no side effects", func(t *testing.T) {
		wf := chain(t, "a", "b")
		before := wf.Dependencies()
		require.NoError(t, wf.Validate())
		assert.Equal(t, before, wf.Dependencies())
		assert.Empty(t, wf.ExplicitDependencies())
	})

	t.Run("declarations may follow jobs", func(t *testing.T) {
		wf := New("w")
		require.NoError(t, wf.AddJob(NewJob("j", "", "tool", "").Uses("in", Input)))
		assert.Error(t, wf.Validate())

		_, err := wf.DeclareExecutable("", "tool", "")
		require.NoError(t, err)
		_, err = wf.DeclareFile("in")
		require.NoError(t, err)
		assert.NoError(t, wf.Validate())
	})
}

func TestTopologicalOrder(t *testing.T) {
	wf := chain(t, "c", "b", "a")
	order, err := wf.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, order)

	wf = chain(t, "a", "b")
	require.NoError(t, wf.AddDependency("b", "a"))
	_, err = wf.TopologicalOrder()
	assert.True(t, errors.Is(err, ErrCyclicGraph))
}

func TestParsePolicyAndLink(t *testing.T) {
	p, err := ParseEdgePolicy("")
	require.NoError(t, err)
	assert.Equal(t, EdgesInferred, p)
	p, err = ParseEdgePolicy("EXPLICIT")
	require.NoError(t, err)
	assert.Equal(t, EdgesExplicit, p)
	_, err = ParseEdgePolicy("closure")
	assert.Error(t, err)

	l, err := ParseLinkType("Output")
	require.NoError(t, err)
	assert.Equal(t, Output, l)
	assert.Equal(t, "input", Input.String())
	_, err = ParseLinkType("inout")
	assert.Error(t, err)
}
