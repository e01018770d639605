// Package harness runs the full application against files written to a
// temporary directory. It lives apart from testutil because it imports app,
// and app's dependencies use testutil in their own tests.
package harness

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/app"
	"github.com/vk/daxgen/internal/testutil"
)

// Result holds the outcomes of an integration test run.
type Result struct {
	Stdout    string
	LogOutput string
	Err       error
	// Dir is the temporary root the files were written to.
	Dir string
}

// Path resolves a name relative to the run's temporary root.
func (r *Result) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// ReadFile returns the content of a file created under the temporary root.
func (r *Result) ReadFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(r.Path(name))
	require.NoError(t, err)
	return string(b)
}

// Run provides a standardized harness for running integration tests using
// a default background context.
func Run(t *testing.T, files map[string]string, cfg app.Config) *Result {
	t.Helper()
	return RunWithContext(context.Background(), t, files, cfg)
}

// RunWithContext writes files under a fresh temporary directory, resolves
// the relative paths in cfg against it and runs the application.
// Logging defaults to debug level text so tests can assert on messages.
func RunWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *Result {
	t.Helper()

	tmpDir := t.TempDir()

	// Test files are given with relative paths (e.g. "in/main.hcl"), which
	// creates the subdirectory structure within tmpDir.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg.InputPath = resolve(tmpDir, cfg.InputPath)
	if cfg.OutputPath != app.StdoutPath {
		cfg.OutputPath = resolve(tmpDir, cfg.OutputPath)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}

	runErr := app.NewApp(stdout, logBuffer, appConfig).Run(ctx)

	if os.Getenv("DAXGEN_TEST_LOGS") == "true" {
		t.Logf("--- APPLICATION LOGS ---\n%s", logBuffer.String())
	}

	return &Result{
		Stdout:    stdout.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		Dir:       tmpDir,
	}
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
