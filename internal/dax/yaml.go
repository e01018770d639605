package dax

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vk/daxgen/internal/workflow"
	"gopkg.in/yaml.v3"
)

// argumentDoc is written as a plain string for literal tokens and as a
// single-key mapping {file: <lfn>} for file references.
type argumentDoc workflow.Argument

type fileRefDoc struct {
	File string `yaml:"file"`
}

func (a argumentDoc) MarshalYAML() (any, error) {
	if a.IsFile {
		return fileRefDoc{File: a.Value}, nil
	}
	return a.Value, nil
}

func (a *argumentDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Decode rather than read node.Value: literals that are not valid
		// UTF-8 are written as !!binary.
		var text string
		if err := node.Decode(&text); err != nil {
			return err
		}
		*a = argumentDoc(workflow.Literal(text))
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 || node.Content[0].Value != "file" {
			return fmt.Errorf("line %d: file argument must be a single-key {file: <lfn>} mapping", node.Line)
		}
		var lfn string
		if err := node.Content[1].Decode(&lfn); err != nil {
			return err
		}
		if lfn == "" {
			return fmt.Errorf("line %d: file argument must name a file", node.Line)
		}
		*a = argumentDoc(workflow.FileRef(lfn))
		return nil
	default:
		return fmt.Errorf("line %d: argument must be a string or a {file: ...} mapping", node.Line)
	}
}

type yamlCodec struct{}

func (yamlCodec) Encode(w io.Writer, wf *workflow.Workflow) error {
	return render(w, wf, func(buf *bytes.Buffer) error {
		enc := yaml.NewEncoder(buf)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(wf)); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	})
}

func (yamlCodec) Decode(r io.Reader, filename string) (*workflow.Workflow, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	wf, err := doc.build()
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow from %s: %w", filename, err)
	}
	return wf, nil
}
