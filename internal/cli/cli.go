package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/daxgen/internal/app"
	"github.com/vk/daxgen/internal/submit"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("daxgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
daxgen - Validate a workflow description and write it as a DAX document.

Usage:
  daxgen [options] INPUT

Arguments:
  INPUT
    Path to a workflow description (.hcl, .yaml, .yml) or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	outputFlag := flagSet.String("output", app.StdoutPath, "Destination file, or a directory when INPUT is a directory. '-' writes to stdout.")
	oFlag := flagSet.String("o", "", "Destination (shorthand).")
	formatFlag := flagSet.String("format", "", "Output format. Options: 'xml', 'yaml', 'hcl'. Defaults to the output extension, else 'xml'.")
	edgesFlag := flagSet.String("edges", "", "Override the dependency policy. Options: 'inferred' or 'explicit'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	submitURLFlag := flagSet.String("submit-url", "", "Socket.IO endpoint of a planner to hand the document to. Empty disables submission.")
	submitNSFlag := flagSet.String("submit-namespace", "/", "Socket.IO namespace used for submission.")
	submitTimeoutFlag := flagSet.Duration("submit-timeout", submit.DefaultTimeout, "How long to wait for the planner to accept the document.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No input provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single INPUT, got %d", flagSet.NArg())}
	}
	input := flagSet.Arg(0)

	outputPath := *outputFlag
	if *oFlag != "" {
		outputPath = *oFlag
	}
	slog.Debug("Paths determined.", "input", input, "output", outputPath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		InputPath:       input,
		OutputPath:      outputPath,
		Format:          strings.ToLower(*formatFlag),
		EdgePolicy:      strings.ToLower(*edgesFlag),
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		SubmitURL:       *submitURLFlag,
		SubmitNamespace: *submitNSFlag,
		SubmitTimeout:   *submitTimeoutFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
