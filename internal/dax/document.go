package dax

import (
	"fmt"

	"github.com/vk/daxgen/internal/entityid"
	"github.com/vk/daxgen/internal/profile"
	"github.com/vk/daxgen/internal/registry"
	"github.com/vk/daxgen/internal/workflow"
)

// document is the format-neutral shape shared by the YAML and HCL codecs.
// Dependencies hold the explicit edges only; inferred edges are recomputed
// from the usages when the document is built back into a workflow.
type document struct {
	Name         string          `yaml:"name"`
	Policy       string          `yaml:"dependencyPolicy"`
	Files        []fileDoc       `yaml:"files,omitempty"`
	Executables  []executableDoc `yaml:"executables,omitempty"`
	Jobs         []jobDoc        `yaml:"jobs,omitempty"`
	Dependencies []edgeDoc       `yaml:"dependencies,omitempty"`
}

type pfnDoc struct {
	URL  string `yaml:"url"`
	Site string `yaml:"site"`
}

type profileDoc struct {
	Namespace string `yaml:"namespace"`
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
}

type fileDoc struct {
	LFN      string   `yaml:"lfn"`
	Register bool     `yaml:"register,omitempty"`
	PFNs     []pfnDoc `yaml:"pfns,omitempty"`
}

type executableDoc struct {
	Namespace string       `yaml:"namespace,omitempty"`
	Name      string       `yaml:"name"`
	Version   string       `yaml:"version,omitempty"`
	Arch      string       `yaml:"arch,omitempty"`
	OS        string       `yaml:"os,omitempty"`
	Installed *bool        `yaml:"installed,omitempty"`
	PFNs      []pfnDoc     `yaml:"pfns,omitempty"`
	Profiles  []profileDoc `yaml:"profiles,omitempty"`
}

type usageDoc struct {
	LFN      string       `yaml:"lfn"`
	Link     string       `yaml:"link"`
	Transfer *bool        `yaml:"transfer,omitempty"`
	Register *bool        `yaml:"register,omitempty"`
	Optional bool         `yaml:"optional,omitempty"`
	Profiles []profileDoc `yaml:"profiles,omitempty"`
}

type jobDoc struct {
	ID         string        `yaml:"id"`
	Executable string        `yaml:"executable"`
	Arguments  []argumentDoc `yaml:"arguments,omitempty"`
	Uses       []usageDoc    `yaml:"uses,omitempty"`
	Profiles   []profileDoc  `yaml:"profiles,omitempty"`
}

type edgeDoc struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

func pfnDocs(pfns []registry.PhysicalFile) []pfnDoc {
	var out []pfnDoc
	for _, p := range pfns {
		out = append(out, pfnDoc{URL: p.URL, Site: p.Site})
	}
	return out
}

func profileDocs(profiles []profile.Profile) []profileDoc {
	var out []profileDoc
	for _, p := range profiles {
		out = append(out, profileDoc{Namespace: p.Namespace, Key: p.Key, Value: p.Value})
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// newDocument captures wf in document form.
func newDocument(wf *workflow.Workflow) *document {
	doc := &document{
		Name:   wf.Name(),
		Policy: wf.EdgePolicy().String(),
	}

	reg := wf.Registry()
	for _, f := range reg.Files() {
		doc.Files = append(doc.Files, fileDoc{
			LFN:      f.Name(),
			Register: f.Register(),
			PFNs:     pfnDocs(f.PhysicalFiles()),
		})
	}

	for _, e := range reg.Executables() {
		id := e.ID()
		doc.Executables = append(doc.Executables, executableDoc{
			Namespace: id.Namespace,
			Name:      id.Name,
			Version:   id.Version,
			Arch:      string(e.Architecture()),
			OS:        string(e.OS()),
			Installed: boolPtr(e.Installed()),
			PFNs:      pfnDocs(e.PhysicalFiles()),
			Profiles:  profileDocs(e.Profiles()),
		})
	}

	for _, j := range wf.Jobs() {
		jd := jobDoc{
			ID:         j.ID(),
			Executable: j.Executable().String(),
			Profiles:   profileDocs(j.Profiles()),
		}
		for _, a := range j.Arguments() {
			jd.Arguments = append(jd.Arguments, argumentDoc(a))
		}
		for _, u := range j.Usages() {
			ud := usageDoc{
				LFN:      u.File,
				Link:     u.Link.String(),
				Optional: u.Optional,
				Profiles: profileDocs(u.Profiles()),
			}
			if !u.Transfer {
				ud.Transfer = boolPtr(false)
			}
			if reg, ok := u.Register(); ok {
				ud.Register = boolPtr(reg)
			}
			jd.Uses = append(jd.Uses, ud)
		}
		doc.Jobs = append(doc.Jobs, jd)
	}

	for _, e := range wf.ExplicitDependencies() {
		doc.Dependencies = append(doc.Dependencies, edgeDoc{Parent: e.Parent, Child: e.Child})
	}

	return doc
}

// build replays the document through the builder API, so every local
// invariant of the registry and the job graph is enforced while reading.
func (d *document) build() (*workflow.Workflow, error) {
	wf := workflow.New(d.Name)

	policy, err := workflow.ParseEdgePolicy(d.Policy)
	if err != nil {
		return nil, err
	}
	wf.SetEdgePolicy(policy)

	for _, fd := range d.Files {
		f, err := wf.DeclareFile(fd.LFN)
		if err != nil {
			return nil, err
		}
		f.SetRegister(fd.Register)
		for _, p := range fd.PFNs {
			f.AddPhysicalFile(p.URL, p.Site)
		}
	}

	for _, ed := range d.Executables {
		e, err := wf.DeclareExecutable(ed.Namespace, ed.Name, ed.Version)
		if err != nil {
			return nil, err
		}
		arch, err := registry.ParseArch(ed.Arch)
		if err != nil {
			return nil, fmt.Errorf("executable %q: %w", e.ID(), err)
		}
		osys, err := registry.ParseOS(ed.OS)
		if err != nil {
			return nil, fmt.Errorf("executable %q: %w", e.ID(), err)
		}
		e.SetArchitecture(arch).SetOS(osys)
		if ed.Installed != nil {
			e.SetInstalled(*ed.Installed)
		}
		for _, p := range ed.PFNs {
			e.AddPhysicalFile(p.URL, p.Site)
		}
		for _, p := range ed.Profiles {
			e.AddProfile(p.Namespace, p.Key, p.Value)
		}
	}

	for _, jd := range d.Jobs {
		job, err := jd.build()
		if err != nil {
			return nil, err
		}
		if err := wf.AddJob(job); err != nil {
			return nil, err
		}
	}

	for _, e := range d.Dependencies {
		if err := wf.AddDependency(e.Parent, e.Child); err != nil {
			return nil, err
		}
	}

	return wf, nil
}

func (jd *jobDoc) build() (*workflow.Job, error) {
	id, err := entityid.Parse(jd.Executable)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", jd.ID, err)
	}

	job := workflow.NewJob(jd.ID, id.Namespace, id.Name, id.Version)
	for _, a := range jd.Arguments {
		if a.IsFile {
			job.AddFileArgument(a.Value)
		} else {
			job.AddArgument(a.Value)
		}
	}

	for _, ud := range jd.Uses {
		link, err := workflow.ParseLinkType(ud.Link)
		if err != nil {
			return nil, fmt.Errorf("job %q uses %q: %w", jd.ID, ud.LFN, err)
		}
		var opts []workflow.UsageOption
		if ud.Transfer != nil {
			opts = append(opts, workflow.Transfer(*ud.Transfer))
		}
		if ud.Register != nil {
			opts = append(opts, workflow.Register(*ud.Register))
		}
		if ud.Optional {
			opts = append(opts, workflow.Optional(true))
		}
		for _, p := range ud.Profiles {
			opts = append(opts, workflow.UsageProfile(p.Namespace, p.Key, p.Value))
		}
		job.UsesWith(ud.LFN, link, opts...)
	}

	for _, p := range jd.Profiles {
		job.AddProfile(p.Namespace, p.Key, p.Value)
	}
	return job, nil
}
