// Package cli implements the taskctl command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/taskmanager/internal/client"
	"github.com/dtroode/taskmanager/internal/logger"
)

// Exit codes.
const (
	ExitSuccess = 0
	// ExitUserError covers bad arguments and unknown tasks.
	ExitUserError = 1
	// ExitAuthError covers missing sessions and rejected credentials.
	ExitAuthError = 2
	// ExitBackendError covers server and network failures.
	ExitBackendError = 3
)

const (
	appName        = "taskctl"
	defaultServer  = "localhost:50051"
	defaultTimeout = 10 * time.Second
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

type globalOptions struct {
	server    string
	configDir string
	timeout   time.Duration
	useTLS    bool
	verbose   bool

	errOut io.Writer
	logger *logger.Logger
}

// connect opens a client bound to the session in the config dir.
func (o *globalOptions) connect() (*client.Client, error) {
	o.logger.Debug("taskctl: connecting", "server", o.server, "tls", o.useTLS, "config_dir", o.configDir)

	c, err := client.New(client.Options{Address: o.server, UseTLS: o.useTLS}, client.NewSessionStore(o.configDir))
	if err != nil {
		return nil, fail(ExitBackendError, "%w", err)
	}
	return c, nil
}

// withTimeout bounds a single command.
func (o *globalOptions) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

// NewRootCommand builds the taskctl command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Manage your task list",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.errOut = cmd.ErrOrStderr()
			opts.logger = logger.NewWithWriter(opts.errOut, int(level))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("TASKCTL_SERVER", defaultServer), "API server address")
	flags.StringVar(&opts.configDir, "config-dir", defaultConfigDir(), "directory holding the session file")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "timeout for each server call")
	flags.BoolVar(&opts.useTLS, "tls", false, "connect with TLS")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newSignUpCommand(opts),
		newVerifyCommand(opts),
		newResendCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newDoneCommand(opts),
		newEditCommand(opts),
		newRemoveCommand(opts),
	)

	return root
}

// Execute runs taskctl with args and returns the process exit code.
func Execute(ctx context.Context, version string, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCommand(version)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(errOut, "error: %v\n", err)
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return ExitUserError
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultConfigDir follows XDG_CONFIG_HOME, falling back to ~/.config.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}
