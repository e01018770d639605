package dax

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vk/daxgen/internal/workflow"
)

// Format names a document format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ErrUnsupportedFormat is returned for unknown formats and for decoding XML.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts "xml", "yaml" (or "yml") and "hcl" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "xml", "dax":
		return FormatXML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension written for the format, including the dot.
// XML documents use the conventional .dax extension.
func (f Format) Ext() string {
	if f == FormatXML {
		return ".dax"
	}
	return "." + string(f)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Encoder writes a workflow as a document.
type Encoder interface {
	Encode(w io.Writer, wf *workflow.Workflow) error
}

// Decoder reads a workflow back from a document. filename is used in
// diagnostics only.
type Decoder interface {
	Decode(r io.Reader, filename string) (*workflow.Workflow, error)
}

// NewEncoder returns the encoder for format.
func NewEncoder(format Format) (Encoder, error) {
	switch format {
	case FormatXML:
		return xmlEncoder{}, nil
	case FormatYAML:
		return yamlCodec{}, nil
	case FormatHCL:
		return hclCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewDecoder returns the decoder for format. XML has no decoder.
func NewDecoder(format Format) (Decoder, error) {
	switch format {
	case FormatYAML:
		return yamlCodec{}, nil
	case FormatHCL:
		return hclCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: cannot decode %q", ErrUnsupportedFormat, format)
	}
}

// Encode validates wf and writes it to w in the given format. Nothing is
// written if validation or encoding fails.
func Encode(w io.Writer, wf *workflow.Workflow, format Format) error {
	enc, err := NewEncoder(format)
	if err != nil {
		return err
	}
	return enc.Encode(w, wf)
}

// Marshal returns the document for wf in the given format.
func Marshal(wf *workflow.Workflow, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, wf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a workflow in the given format.
func Decode(r io.Reader, filename string, format Format) (*workflow.Workflow, error) {
	dec, err := NewDecoder(format)
	if err != nil {
		return nil, err
	}
	return dec.Decode(r, filename)
}

// render validates wf, lets fill build the whole document in memory, and
// copies it to w in a single write.
func render(w io.Writer, wf *workflow.Workflow, fill func(*bytes.Buffer) error) error {
	if err := wf.Validate(); err != nil {
		return fmt.Errorf("cannot encode invalid workflow %q: %w", wf.Name(), err)
	}
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
