package dax

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/vk/daxgen/internal/profile"
	"github.com/vk/daxgen/internal/registry"
	"github.com/vk/daxgen/internal/workflow"
)

const (
	daxVersion   = "3.6"
	daxNamespace = "http://pegasus.isi.edu/schema/DAX"
	daxSchema    = "http://pegasus.isi.edu/schema/dax-3.6.xsd"
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	indentUnit   = "  "
)

// xmlEncoder writes the DAX 3.6 layout. Elements are written by hand because
// <argument> is mixed content: literal text interleaved with <file/> elements
// whose whitespace must survive exactly as given.
type xmlEncoder struct{}

func (xmlEncoder) Encode(w io.Writer, wf *workflow.Workflow) error {
	return render(w, wf, func(buf *bytes.Buffer) error {
		x := &xmlWriter{buf: buf}
		x.document(wf)
		return nil
	})
}

type xmlWriter struct {
	buf   *bytes.Buffer
	depth int
}

func (x *xmlWriter) indent() {
	for i := 0; i < x.depth; i++ {
		x.buf.WriteString(indentUnit)
	}
}

func (x *xmlWriter) text(s string) {
	// Writes into a bytes.Buffer cannot fail.
	_ = xml.EscapeText(x.buf, []byte(s))
}

func (x *xmlWriter) attrs(kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		x.buf.WriteByte(' ')
		x.buf.WriteString(kv[i])
		x.buf.WriteString(`="`)
		x.text(kv[i+1])
		x.buf.WriteByte('"')
	}
}

// open writes <name attrs...> on its own line and increases the depth.
func (x *xmlWriter) open(name string, kv ...string) {
	x.indent()
	x.buf.WriteByte('<')
	x.buf.WriteString(name)
	x.attrs(kv...)
	x.buf.WriteString(">\n")
	x.depth++
}

func (x *xmlWriter) close(name string) {
	x.depth--
	x.indent()
	x.buf.WriteString("</")
	x.buf.WriteString(name)
	x.buf.WriteString(">\n")
}

// empty writes <name attrs.../> on its own line.
func (x *xmlWriter) empty(name string, kv ...string) {
	x.indent()
	x.buf.WriteByte('<')
	x.buf.WriteString(name)
	x.attrs(kv...)
	x.buf.WriteString("/>\n")
}

func (x *xmlWriter) document(wf *workflow.Workflow) {
	x.buf.WriteString(xml.Header)
	x.open("adag",
		"xmlns", daxNamespace,
		"xmlns:xsi", xsiNamespace,
		"xsi:schemaLocation", daxNamespace+" "+daxSchema,
		"version", daxVersion,
		"name", wf.Name(),
	)

	reg := wf.Registry()
	for _, f := range reg.Files() {
		x.file(f)
	}
	for _, e := range reg.Executables() {
		x.executable(e)
	}
	for _, j := range wf.Jobs() {
		x.job(reg, j)
	}
	x.dependencies(wf)

	x.close("adag")
}

func (x *xmlWriter) file(f *registry.File) {
	kv := []string{"name", f.Name()}
	if f.Register() {
		kv = append(kv, "register", "true")
	}
	pfns := f.PhysicalFiles()
	if len(pfns) == 0 {
		x.empty("file", kv...)
		return
	}
	x.open("file", kv...)
	x.pfns(pfns)
	x.close("file")
}

func (x *xmlWriter) executable(e *registry.Executable) {
	id := e.ID()
	kv := []string{"namespace", id.Namespace, "name", id.Name, "version", id.Version}
	if e.Architecture() != "" {
		kv = append(kv, "arch", string(e.Architecture()))
	}
	if e.OS() != "" {
		kv = append(kv, "os", string(e.OS()))
	}
	kv = append(kv, "installed", strconv.FormatBool(e.Installed()))

	profiles, pfns := e.Profiles(), e.PhysicalFiles()
	if len(profiles) == 0 && len(pfns) == 0 {
		x.empty("executable", kv...)
		return
	}
	x.open("executable", kv...)
	x.profiles(profiles)
	x.pfns(pfns)
	x.close("executable")
}

func (x *xmlWriter) job(reg *registry.Registry, j *workflow.Job) {
	id := j.Executable()
	x.open("job", "id", j.ID(), "namespace", id.Namespace, "name", id.Name, "version", id.Version)

	if args := j.Arguments(); len(args) > 0 {
		x.indent()
		x.buf.WriteString("<argument>")
		for _, a := range args {
			if a.IsFile {
				x.buf.WriteString("<file")
				x.attrs("name", a.Value)
				x.buf.WriteString("/>")
			} else {
				x.text(a.Value)
			}
		}
		x.buf.WriteString("</argument>\n")
	}

	x.profiles(j.Profiles())

	for _, u := range j.Usages() {
		kv := []string{"name", u.File, "link", u.Link.String(), "transfer", strconv.FormatBool(u.Transfer)}
		if u.Link == workflow.Output {
			kv = append(kv, "register", strconv.FormatBool(usageRegister(reg, u)))
		}
		if u.Optional {
			kv = append(kv, "optional", "true")
		}
		if profiles := u.Profiles(); len(profiles) > 0 {
			x.open("uses", kv...)
			x.profiles(profiles)
			x.close("uses")
			continue
		}
		x.empty("uses", kv...)
	}

	x.close("job")
}

// usageRegister resolves the catalog flag of an output usage: an explicit
// override on the usage wins over the file declaration.
func usageRegister(reg *registry.Registry, u workflow.Usage) bool {
	if v, ok := u.Register(); ok {
		return v
	}
	f, err := reg.File(u.File)
	if err != nil {
		return false
	}
	return f.Register()
}

// dependencies writes the resolved edge set grouped by child, in job order.
func (x *xmlWriter) dependencies(wf *workflow.Workflow) {
	parents := make(map[string][]string)
	for _, e := range wf.Dependencies() {
		parents[e.Child] = append(parents[e.Child], e.Parent)
	}
	for _, j := range wf.Jobs() {
		ps := parents[j.ID()]
		if len(ps) == 0 {
			continue
		}
		x.open("child", "ref", j.ID())
		for _, p := range ps {
			x.empty("parent", "ref", p)
		}
		x.close("child")
	}
}

func (x *xmlWriter) profiles(profiles []profile.Profile) {
	for _, p := range profiles {
		x.indent()
		x.buf.WriteString("<profile")
		x.attrs("namespace", p.Namespace, "key", p.Key)
		x.buf.WriteByte('>')
		x.text(p.Value)
		x.buf.WriteString("</profile>\n")
	}
}

func (x *xmlWriter) pfns(pfns []registry.PhysicalFile) {
	for _, p := range pfns {
		x.empty("pfn", "url", p.URL, "site", p.Site)
	}
}
