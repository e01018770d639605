package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/daxgen/internal/app"
	"github.com/vk/daxgen/internal/submit"
)

func TestParse(t *testing.T) {
	defaults := app.Config{
		InputPath:       "in.hcl",
		OutputPath:      app.StdoutPath,
		LogFormat:       "text",
		LogLevel:        "info",
		SubmitNamespace: "/",
		SubmitTimeout:   submit.DefaultTimeout,
	}

	testCases := []struct {
		name           string
		args           []string
		wantConfig     *app.Config
		wantShouldExit bool
		wantErr        bool
		wantErrCode    int
		wantOutput     string
	}{
		{
			name:       "input only uses defaults",
			args:       []string{"in.hcl"},
			wantConfig: &defaults,
		},
		{
			name: "all flags",
			args: []string{
				"-output", "out.yaml",
				"-format", "YAML",
				"-edges", "explicit",
				"-log-format", "json",
				"-log-level", "debug",
				"-submit-url", "http://planner:3000",
				"-submit-namespace", "/pegasus",
				"-submit-timeout", "2s",
				"in.hcl",
			},
			wantConfig: &app.Config{
				InputPath:       "in.hcl",
				OutputPath:      "out.yaml",
				Format:          "yaml",
				EdgePolicy:      "explicit",
				LogFormat:       "json",
				LogLevel:        "debug",
				SubmitURL:       "http://planner:3000",
				SubmitNamespace: "/pegasus",
				SubmitTimeout:   2 * time.Second,
			},
		},
		{
			name: "shorthand output overrides long form",
			args: []string{"-output", "a.dax", "-o", "b.dax", "in.hcl"},
			wantConfig: func() *app.Config {
				cfg := defaults
				cfg.OutputPath = "b.dax"
				return &cfg
			}(),
		},
		{
			name:           "help flag",
			args:           []string{"-h"},
			wantShouldExit: true,
			wantOutput:     "Usage:",
		},
		{
			name:           "no input prints usage",
			args:           []string{},
			wantShouldExit: true,
			wantOutput:     "Usage:",
		},
		{
			name:        "unknown flag",
			args:        []string{"-bogus", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "two inputs",
			args:        []string{"a.hcl", "b.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "invalid log format",
			args:        []string{"-log-format", "xml", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "invalid log level",
			args:        []string{"-log-level", "trace", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "invalid output format",
			args:        []string{"-format", "json", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "invalid edge policy",
			args:        []string{"-edges", "transitive", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
		{
			name:        "negative submit timeout",
			args:        []string{"-submit-timeout", "-1s", "in.hcl"},
			wantErr:     true,
			wantErrCode: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)

			if tc.wantErr {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %T", err)
				assert.Equal(t, tc.wantErrCode, exitErr.Code)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantShouldExit, shouldExit)
			if tc.wantOutput != "" {
				assert.Contains(t, out.String(), tc.wantOutput)
			}
			if diff := cmp.Diff(tc.wantConfig, cfg); diff != "" {
				t.Errorf("Parse() config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 2, Message: "bad flag"}
	assert.Equal(t, "bad flag", err.Error())
}
