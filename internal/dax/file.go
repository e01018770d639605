package dax

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/daxgen/internal/ctxlog"
	"github.com/vk/daxgen/internal/workflow"
)

// ErrIOFailure matches every error caused by the file system while writing a
// document.
var ErrIOFailure = errors.New("i/o failure")

// WriteError reports a failed step of WriteFile. It matches both ErrIOFailure
// and the underlying cause.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrIOFailure, e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrIOFailure, e.Err} }

// WriteFile validates wf and writes it to path in the given format. The
// document is written to a temporary file in the same directory, synced, and
// renamed over path. On failure the temporary file is removed and any
// existing file at path is left untouched.
func WriteFile(ctx context.Context, path string, wf *workflow.Workflow, format Format) error {
	ctxlog.FromContext(ctx).Debug("Encoding workflow document.", "path", path, "format", format, "workflow", wf.Name())

	data, err := Marshal(wf, format)
	if err != nil {
		return err
	}
	return WriteDocument(ctx, path, data)
}

// WriteDocument writes an already encoded document to path with the same
// temporary-file-and-rename guarantees as WriteFile.
func WriteDocument(ctx context.Context, path string, data []byte) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Writing workflow document.", "path", path)

	if err := writeAtomic(path, data); err != nil {
		logger.Debug("Failed to write workflow document.", "path", path, "error", err)
		return err
	}

	logger.Debug("Workflow document written.", "path", path, "bytes", len(data))
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &WriteError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &WriteError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &WriteError{Op: "sync", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &WriteError{Op: "close", Path: path, Err: err}
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return &WriteError{Op: "chmod", Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &WriteError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ReadFile loads a workflow from an HCL or YAML file, choosing the decoder
// from the file extension.
func ReadFile(ctx context.Context, path string) (*workflow.Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading workflow file.", "path", path)

	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: cannot infer format of %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow file: %w", err)
	}
	defer f.Close()

	wf, err := Decode(f, path, format)
	if err != nil {
		return nil, err
	}

	logger.Debug("Workflow file loaded.", "path", path, "workflow", wf.Name(), "jobs", len(wf.Jobs()))
	return wf, nil
}
