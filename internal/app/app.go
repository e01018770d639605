package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/daxgen/internal/ctxlog"
	"github.com/vk/daxgen/internal/dax"
	"github.com/vk/daxgen/internal/fsutil"
	"github.com/vk/daxgen/internal/submit"
	"github.com/vk/daxgen/internal/workflow"
)

// inputExtensions are the workflow description formats that can be read.
var inputExtensions = []string{".hcl", ".yaml", ".yml"}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Documents written to
// standard output go to outW; logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run converts the configured input. A directory input converts every
// workflow file beneath it into the output directory.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "input", a.config.InputPath, "output", a.config.OutputPath)

	info, err := os.Stat(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if info.IsDir() {
		err = a.runBatch(ctx)
	} else {
		err = a.convert(ctx, a.config.InputPath, a.config.OutputPath)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runBatch(ctx context.Context) error {
	out := a.config.OutputPath
	if out == StdoutPath {
		return errors.New("a directory input requires an output directory")
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := fsutil.FindFilesByExtension(a.config.InputPath, inputExtensions...)
	if err != nil {
		return fmt.Errorf("failed to find workflow files in %s: %w", a.config.InputPath, err)
	}
	if len(files) == 0 {
		a.logger.Warn("No workflow files found in path.", "path", a.config.InputPath)
		return nil
	}

	format := a.config.outputFormat(StdoutPath)
	plan, err := batchPlan(a.config.InputPath, out, files, format)
	if err != nil {
		return err
	}
	for _, p := range plan {
		if err := os.MkdirAll(filepath.Dir(p.dest), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := a.convert(ctx, p.src, p.dest); err != nil {
			return err
		}
	}
	a.logger.Info("Batch conversion finished.", "files", len(files))
	return nil
}

type batchItem struct {
	src  string
	dest string
}

// batchPlan maps every input to its destination. The output tree mirrors the
// input tree with the format's extension. Inputs that differ only by
// extension would share a destination, so that is an error rather than a
// silent overwrite.
func batchPlan(inRoot, outRoot string, files []string, format dax.Format) ([]batchItem, error) {
	plan := make([]batchItem, 0, len(files))
	sources := make(map[string]string, len(files))
	for _, in := range files {
		rel, err := filepath.Rel(inRoot, in)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", in, err)
		}
		dest := filepath.Join(outRoot, strings.TrimSuffix(rel, filepath.Ext(rel))+format.Ext())
		if prev, ok := sources[dest]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, dest)
		}
		sources[dest] = in
		plan = append(plan, batchItem{src: in, dest: dest})
	}
	return plan, nil
}

// convert loads one workflow, validates it, writes it, and submits it when a
// planner URL is configured.
func (a *App) convert(ctx context.Context, in, out string) error {
	logger := ctxlog.FromContext(ctx).With("input", in)

	wf, err := dax.ReadFile(ctx, in)
	if err != nil {
		return err
	}

	if a.config.EdgePolicy != "" {
		policy, err := workflow.ParseEdgePolicy(a.config.EdgePolicy)
		if err != nil {
			return err
		}
		wf.SetEdgePolicy(policy)
		logger.Debug("Dependency policy overridden.", "policy", policy)
	}

	// Marshal validates before encoding; the document is then written as is.
	format := a.config.outputFormat(out)
	data, err := dax.Marshal(wf, format)
	if err != nil {
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("workflow %s is invalid: %w", in, verr)
		}
		return err
	}

	if out == StdoutPath {
		if _, err := a.outW.Write(data); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
	} else if err := dax.WriteDocument(ctx, out, data); err != nil {
		return err
	}

	logger.Info("Workflow converted.",
		"workflow", wf.Name(),
		"output", out,
		"format", format,
		"jobs", len(wf.Jobs()),
		"dependencies", len(wf.Dependencies()),
	)

	if a.config.SubmitURL == "" {
		return nil
	}
	_, err = submit.Send(ctx, submit.Config{
		URL:       a.config.SubmitURL,
		Namespace: a.config.SubmitNamespace,
		Timeout:   a.config.SubmitTimeout,
	}, submit.Document{Name: wf.Name(), Format: string(format), Content: data})
	if err != nil {
		return fmt.Errorf("failed to submit workflow %q: %w", wf.Name(), err)
	}
	return nil
}
