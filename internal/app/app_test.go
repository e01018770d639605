package app

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/dax"
	"github.com/vk/daxgen/internal/workflow"
)

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer, *strings.Builder) {
	t.Helper()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	appCfg, err := NewConfig(cfg)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	logs := &strings.Builder{}
	return NewApp(out, logs, appCfg), out, logs
}

func TestRun_ToStdout(t *testing.T) {
	a, out, logs := newTestApp(t, Config{InputPath: filepath.Join("testdata", "diamond.hcl")})

	require.NoError(t, a.Run(context.Background()))

	var doc struct {
		Name string `xml:"name,attr"`
		Jobs []struct {
			ID string `xml:"id,attr"`
		} `xml:"job"`
	}
	require.NoError(t, xml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "blackdiamond", doc.Name)
	assert.Len(t, doc.Jobs, 4)
	assert.Contains(t, logs.String(), "Workflow converted.")
	assert.Contains(t, logs.String(), "dependencies=4")
}

func TestRun_ToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "diamond.yaml")
	a, out, _ := newTestApp(t, Config{
		InputPath:  filepath.Join("testdata", "diamond.hcl"),
		OutputPath: dest,
		EdgePolicy: "explicit",
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Zero(t, out.Len(), "nothing is written to stdout when an output file is given")

	wf, err := dax.ReadFile(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, workflow.EdgesExplicit, wf.EdgePolicy())
	assert.Len(t, wf.Dependencies(), 4)
}

func TestRun_InvalidWorkflow(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cyclic.dax")
	a, _, _ := newTestApp(t, Config{
		InputPath:  filepath.Join("testdata", "cyclic.yaml"),
		OutputPath: dest,
	})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrCyclicGraph)
	assert.Contains(t, err.Error(), "a -> b -> a")
	assert.NoFileExists(t, dest)
}

func TestRun_MissingInput(t *testing.T) {
	a, _, _ := newTestApp(t, Config{InputPath: filepath.Join(t.TempDir(), "absent.hcl")})
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Batch(t *testing.T) {
	in := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "diamond.hcl"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(in, "one.hcl"), src, 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(in, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "nested", "two.hcl"), src, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "README.md"), []byte("ignored"), 0o600))

	outDir := filepath.Join(t.TempDir(), "out")
	a, _, logs := newTestApp(t, Config{InputPath: in, OutputPath: outDir, Format: "hcl"})
	require.NoError(t, a.Run(context.Background()))

	assert.FileExists(t, filepath.Join(outDir, "one.hcl"))
	assert.FileExists(t, filepath.Join(outDir, "nested", "two.hcl"))
	assert.Contains(t, logs.String(), "Batch conversion finished.")

	t.Run("stdout is rejected", func(t *testing.T) {
		a, _, _ := newTestApp(t, Config{InputPath: in})
		assert.ErrorContains(t, a.Run(context.Background()), "requires an output directory")
	})

	t.Run("empty directory warns", func(t *testing.T) {
		a, _, logs := newTestApp(t, Config{InputPath: t.TempDir(), OutputPath: filepath.Join(t.TempDir(), "o")})
		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, logs.String(), "No workflow files found")
	})
}

func TestRun_BatchRejectsCollidingOutputs(t *testing.T) {
	in := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "diamond.hcl"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(in, "wf.hcl"), src, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "wf.yaml"), []byte("name: other\n"), 0o600))

	outDir := filepath.Join(t.TempDir(), "out")
	a, _, logs := newTestApp(t, Config{InputPath: in, OutputPath: outDir})

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wf.hcl")
	assert.Contains(t, err.Error(), "wf.yaml")
	assert.Contains(t, err.Error(), filepath.Join(outDir, "wf.dax"))
	assert.NoFileExists(t, filepath.Join(outDir, "wf.dax"), "nothing is converted when the plan collides")
	assert.NotContains(t, logs.String(), "Workflow converted.")
}

func TestBatchPlan(t *testing.T) {
	files := []string{
		filepath.Join("in", "a.hcl"),
		filepath.Join("in", "sub", "b.yml"),
	}
	plan, err := batchPlan("in", "out", files, dax.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []batchItem{
		{src: filepath.Join("in", "a.hcl"), dest: filepath.Join("out", "a.yaml")},
		{src: filepath.Join("in", "sub", "b.yml"), dest: filepath.Join("out", "sub", "b.yaml")},
	}, plan)

	_, err = batchPlan("in", "out", append(files, filepath.Join("in", "sub", "b.hcl")), dax.FormatXML)
	assert.ErrorContains(t, err, "would both be written to")
}

func TestRun_FileOutputEncodesOnce(t *testing.T) {
	input := filepath.Join("testdata", "diamond.hcl")
	stdoutApp, stdout, _ := newTestApp(t, Config{InputPath: input, Format: "xml"})
	require.NoError(t, stdoutApp.Run(context.Background()))

	dest := filepath.Join(t.TempDir(), "diamond.dax")
	fileApp, _, logs := newTestApp(t, Config{InputPath: input, OutputPath: dest})
	require.NoError(t, fileApp.Run(context.Background()))

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(written))
	assert.Equal(t, 1, strings.Count(logs.String(), "Writing workflow document."))
	assert.NotContains(t, logs.String(), "Encoding workflow document.", "the marshalled document is written directly")
}

func TestRun_SubmitFailureIsReported(t *testing.T) {
	a, out, _ := newTestApp(t, Config{
		InputPath:     filepath.Join("testdata", "diamond.hcl"),
		SubmitURL:     "http://127.0.0.1:1/socket.io/",
		SubmitTimeout: 300 * time.Millisecond,
	})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to submit workflow "blackdiamond"`)
	assert.NotZero(t, out.Len(), "the document is written before submission")
}
