package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/dax"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults output to stdout", func(t *testing.T) {
		cfg, err := NewConfig(Config{InputPath: "wf.hcl"})
		require.NoError(t, err)
		assert.Equal(t, StdoutPath, cfg.OutputPath)
	})

	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "missing input", cfg: Config{}, errMsg: "InputPath is a required"},
		{name: "bad format", cfg: Config{InputPath: "a", Format: "json"}, errMsg: "invalid format"},
		{name: "bad policy", cfg: Config{InputPath: "a", EdgePolicy: "closure"}, errMsg: "invalid dependency policy"},
		{name: "negative timeout", cfg: Config{InputPath: "a", SubmitTimeout: -time.Second}, errMsg: "SubmitTimeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestConfig_OutputFormat(t *testing.T) {
	tests := []struct {
		format string
		path   string
		want   dax.Format
	}{
		{format: "", path: StdoutPath, want: dax.FormatXML},
		{format: "", path: "out.yaml", want: dax.FormatYAML},
		{format: "", path: "out.hcl", want: dax.FormatHCL},
		{format: "", path: "out", want: dax.FormatXML},
		{format: "hcl", path: "out.yaml", want: dax.FormatHCL},
		{format: "YAML", path: StdoutPath, want: dax.FormatYAML},
	}
	for _, tc := range tests {
		cfg := &Config{Format: tc.format}
		assert.Equal(t, tc.want, cfg.outputFormat(tc.path), "%q -> %q", tc.format, tc.path)
	}
}

func TestNewLogger(t *testing.T) {
	var buf strings.Builder
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	assert.Equal(t, "DEBUG", parseLevel("Debug").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
}
