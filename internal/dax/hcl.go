package dax

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/daxgen/internal/workflow"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot represents the top-level structure of a workflow file for decoding.
type hclRoot struct {
	Name        string           `hcl:"name"`
	Policy      string           `hcl:"dependency_policy,optional"`
	Files       []*hclFile       `hcl:"file,block"`
	Executables []*hclExecutable `hcl:"executable,block"`
	Jobs        []*hclJob        `hcl:"job,block"`
}

type hclPFN struct {
	URL  string `hcl:"url"`
	Site string `hcl:"site"`
}

type hclProfile struct {
	Namespace string `hcl:"namespace,label"`
	Key       string `hcl:"key,label"`
	Value     string `hcl:"value"`
}

type hclFile struct {
	LFN      string    `hcl:"lfn,label"`
	Register bool      `hcl:"register,optional"`
	PFNs     []*hclPFN `hcl:"pfn,block"`
}

type hclExecutable struct {
	Namespace string        `hcl:"namespace,label"`
	Name      string        `hcl:"name,label"`
	Version   string        `hcl:"version,label"`
	Arch      string        `hcl:"arch,optional"`
	OS        string        `hcl:"os,optional"`
	Installed *bool         `hcl:"installed,optional"`
	PFNs      []*hclPFN     `hcl:"pfn,block"`
	Profiles  []*hclProfile `hcl:"profile,block"`
}

type hclUses struct {
	LFN      string        `hcl:"lfn,label"`
	Link     string        `hcl:"link"`
	Transfer *bool         `hcl:"transfer,optional"`
	Register *bool         `hcl:"register,optional"`
	Optional bool          `hcl:"optional,optional"`
	Profiles []*hclProfile `hcl:"profile,block"`
}

type hclJob struct {
	ID         string         `hcl:"id,label"`
	Executable string         `hcl:"executable"`
	Arguments  hcl.Expression `hcl:"arguments,optional"`
	DependsOn  []string       `hcl:"depends_on,optional"`
	Uses       []*hclUses     `hcl:"uses,block"`
	Profiles   []*hclProfile  `hcl:"profile,block"`
}

// fileArgType is the object type of a file reference inside `arguments`.
var fileArgType = cty.Object(map[string]cty.Type{"file": cty.String})

type hclCodec struct{}

// Encode writes the workflow as HCL. Explicit dependencies are written as a
// depends_on list on the child job, in job order.
//
// HCL output is stable across its own round trip but not byte-faithful to
// the builder's input: every string passes through cty, which normalises it
// to Unicode NFC, and explicit edges come back grouped by child job rather
// than in the order AddDependency saw them.
func (hclCodec) Encode(w io.Writer, wf *workflow.Workflow) error {
	return render(w, wf, func(buf *bytes.Buffer) error {
		f := hclwrite.NewEmptyFile()
		writeHCL(f.Body(), newDocument(wf))
		_, err := buf.Write(hclwrite.Format(f.Bytes()))
		return err
	})
}

func writeHCL(body *hclwrite.Body, doc *document) {
	body.SetAttributeValue("name", cty.StringVal(doc.Name))
	body.SetAttributeValue("dependency_policy", cty.StringVal(doc.Policy))

	for _, fd := range doc.Files {
		body.AppendNewline()
		fb := body.AppendNewBlock("file", []string{fd.LFN}).Body()
		if fd.Register {
			fb.SetAttributeValue("register", cty.True)
		}
		writePFNs(fb, fd.PFNs)
	}

	for _, ed := range doc.Executables {
		body.AppendNewline()
		eb := body.AppendNewBlock("executable", []string{ed.Namespace, ed.Name, ed.Version}).Body()
		if ed.Arch != "" {
			eb.SetAttributeValue("arch", cty.StringVal(ed.Arch))
		}
		if ed.OS != "" {
			eb.SetAttributeValue("os", cty.StringVal(ed.OS))
		}
		if ed.Installed != nil {
			eb.SetAttributeValue("installed", cty.BoolVal(*ed.Installed))
		}
		writePFNs(eb, ed.PFNs)
		writeProfiles(eb, ed.Profiles)
	}

	parents := make(map[string][]cty.Value)
	for _, e := range doc.Dependencies {
		parents[e.Child] = append(parents[e.Child], cty.StringVal(e.Parent))
	}

	for _, jd := range doc.Jobs {
		body.AppendNewline()
		jb := body.AppendNewBlock("job", []string{jd.ID}).Body()
		jb.SetAttributeValue("executable", cty.StringVal(jd.Executable))
		if len(jd.Arguments) > 0 {
			args := make([]cty.Value, 0, len(jd.Arguments))
			for _, a := range jd.Arguments {
				if a.IsFile {
					args = append(args, cty.ObjectVal(map[string]cty.Value{"file": cty.StringVal(a.Value)}))
				} else {
					args = append(args, cty.StringVal(a.Value))
				}
			}
			jb.SetAttributeValue("arguments", cty.TupleVal(args))
		}
		if deps := parents[jd.ID]; len(deps) > 0 {
			jb.SetAttributeValue("depends_on", cty.ListVal(deps))
		}
		for _, ud := range jd.Uses {
			ub := jb.AppendNewBlock("uses", []string{ud.LFN}).Body()
			ub.SetAttributeValue("link", cty.StringVal(ud.Link))
			if ud.Transfer != nil {
				ub.SetAttributeValue("transfer", cty.BoolVal(*ud.Transfer))
			}
			if ud.Register != nil {
				ub.SetAttributeValue("register", cty.BoolVal(*ud.Register))
			}
			if ud.Optional {
				ub.SetAttributeValue("optional", cty.True)
			}
			writeProfiles(ub, ud.Profiles)
		}
		writeProfiles(jb, jd.Profiles)
	}
}

func writePFNs(body *hclwrite.Body, pfns []pfnDoc) {
	for _, p := range pfns {
		pb := body.AppendNewBlock("pfn", nil).Body()
		pb.SetAttributeValue("url", cty.StringVal(p.URL))
		pb.SetAttributeValue("site", cty.StringVal(p.Site))
	}
}

func writeProfiles(body *hclwrite.Body, profiles []profileDoc) {
	for _, p := range profiles {
		pb := body.AppendNewBlock("profile", []string{p.Namespace, p.Key}).Body()
		pb.SetAttributeValue("value", cty.StringVal(p.Value))
	}
}

func (hclCodec) Decode(r io.Reader, filename string) (*workflow.Workflow, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL file %s: %w", filename, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	doc, err := root.document()
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}
	wf, err := doc.build()
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow from %s: %w", filename, err)
	}
	return wf, nil
}

// document translates the decoded HCL blocks into the neutral document.
func (root *hclRoot) document() (*document, error) {
	doc := &document{Name: root.Name, Policy: root.Policy}

	for _, f := range root.Files {
		doc.Files = append(doc.Files, fileDoc{LFN: f.LFN, Register: f.Register, PFNs: hclPFNDocs(f.PFNs)})
	}

	for _, e := range root.Executables {
		doc.Executables = append(doc.Executables, executableDoc{
			Namespace: e.Namespace,
			Name:      e.Name,
			Version:   e.Version,
			Arch:      e.Arch,
			OS:        e.OS,
			Installed: e.Installed,
			PFNs:      hclPFNDocs(e.PFNs),
			Profiles:  hclProfileDocs(e.Profiles),
		})
	}

	for _, j := range root.Jobs {
		args, err := decodeArguments(j.Arguments)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", j.ID, err)
		}
		jd := jobDoc{
			ID:         j.ID,
			Executable: j.Executable,
			Arguments:  args,
			Profiles:   hclProfileDocs(j.Profiles),
		}
		for _, u := range j.Uses {
			jd.Uses = append(jd.Uses, usageDoc{
				LFN:      u.LFN,
				Link:     u.Link,
				Transfer: u.Transfer,
				Register: u.Register,
				Optional: u.Optional,
				Profiles: hclProfileDocs(u.Profiles),
			})
		}
		doc.Jobs = append(doc.Jobs, jd)

		for _, parent := range j.DependsOn {
			doc.Dependencies = append(doc.Dependencies, edgeDoc{Parent: parent, Child: j.ID})
		}
	}

	return doc, nil
}

// decodeArguments evaluates the `arguments` expression. Each element is a
// string literal or an object of the form { file = "<lfn>" }.
func decodeArguments(expr hcl.Expression) ([]argumentDoc, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() || !(val.Type().IsTupleType() || val.Type().IsListType()) {
		return nil, fmt.Errorf("arguments must be a list, got %s", val.Type().FriendlyName())
	}

	var out []argumentDoc
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, fmt.Errorf("arguments must not contain null")
		}
		if elem.Type().IsObjectType() {
			ref, err := convert.Convert(elem, fileArgType)
			if err != nil {
				return nil, fmt.Errorf("file argument must be { file = \"<lfn>\" }: %w", err)
			}
			var lfn string
			if err := gocty.FromCtyValue(ref.GetAttr("file"), &lfn); err != nil {
				return nil, fmt.Errorf("file argument: %w", err)
			}
			out = append(out, argumentDoc{Value: lfn, IsFile: true})
			continue
		}
		str, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("argument must be a string: %w", err)
		}
		out = append(out, argumentDoc{Value: str.AsString()})
	}
	return out, nil
}

func hclPFNDocs(pfns []*hclPFN) []pfnDoc {
	var out []pfnDoc
	for _, p := range pfns {
		out = append(out, pfnDoc{URL: p.URL, Site: p.Site})
	}
	return out
}

func hclProfileDocs(profiles []*hclProfile) []profileDoc {
	var out []profileDoc
	for _, p := range profiles {
		out = append(out, profileDoc{Namespace: p.Namespace, Key: p.Key, Value: p.Value})
	}
	return out
}
