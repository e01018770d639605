package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/daxgen/internal/dax"
	"github.com/vk/daxgen/internal/workflow"
)

// StdoutPath selects standard output as the destination.
const StdoutPath = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath  string // workflow file (.hcl, .yaml) or a directory of them
	OutputPath string // file, directory (batch mode) or "-"
	Format     string // xml, yaml or hcl; empty infers from OutputPath
	EdgePolicy string // overrides the policy stored in the input when set

	LogFormat string
	LogLevel  string

	SubmitURL       string
	SubmitNamespace string
	SubmitTimeout   time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = StdoutPath
	}
	if cfg.Format != "" {
		if _, err := dax.ParseFormat(cfg.Format); err != nil {
			return nil, fmt.Errorf("invalid format: %w", err)
		}
	}
	if cfg.EdgePolicy != "" {
		if _, err := workflow.ParseEdgePolicy(cfg.EdgePolicy); err != nil {
			return nil, err
		}
	}
	if cfg.SubmitTimeout < 0 {
		return nil, errors.New("SubmitTimeout must not be negative")
	}

	return &cfg, nil
}

// outputFormat picks the format for a destination: the configured one, else
// the destination's extension, else XML.
func (c *Config) outputFormat(path string) dax.Format {
	if c.Format != "" {
		f, _ := dax.ParseFormat(c.Format)
		return f
	}
	if path != StdoutPath {
		if f, ok := dax.FormatFromPath(path); ok {
			return f
		}
	}
	return dax.FormatXML
}
