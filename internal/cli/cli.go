package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/signupboard/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("signupboard", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Signupboard - a terminal console for the school activities signup service.

Usage:
  signupboard [options] COMMAND [args]

Commands:
  list                         Fetch and render all activities.
  signup ACTIVITY EMAIL        Sign an email up for an activity.
  unregister ACTIVITY EMAIL    Remove an email from an activity.
  watch                        Re-render the activity list periodically.
  console                      Interactive session (reload, select, email,
                               signup, remove, quit).
  demo                         Run the console against an embedded sample
                               signup service.

Options:
`)
		flagSet.PrintDefaults()
	}

	serverFlag := flagSet.String("server", "", "Base URL of the signup service. Overrides the config file.")
	configFlag := flagSet.String("config", "", "Path to an HCL config file.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-request timeout. 0 uses the configured default.")
	ttlFlag := flagSet.Duration("notice-ttl", 0, "How long notices stay visible. 0 uses the configured default.")
	intervalFlag := flagSet.Duration("interval", 0, "Reload interval for watch mode. 0 uses the configured default.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

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
		Command:       flagSet.Arg(0),
		Args:          flagSet.Args()[1:],
		ServerURL:     *serverFlag,
		ConfigPath:    *configFlag,
		Timeout:       *timeoutFlag,
		NoticeTTL:     *ttlFlag,
		WatchInterval: *intervalFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
