package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/macropower/netsense/pkg/log"
	"github.com/macropower/netsense/pkg/telemetry"
	"github.com/macropower/netsense/pkg/version"
)

const (
	cmdName = "netsense"
	cmdDesc = `Detect which known network this machine is on and print its connect commands.`

	dotEnvFile = ".env"
)

type RootArgs struct {
	logCloser io.Closer
	shutdown  telemetry.ShutdownFunc

	LogLevel  string
	LogFormat string
	LogFile   string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.LogFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagFilename("log-file", "log"))
}

// NewRootCmd creates the netsense command tree. The root command behaves
// like "netsense match".
func NewRootCmd() *cobra.Command {
	loadDotEnv(dotEnvFile)

	args := NewRootArgs()
	matchArgs := NewMatchArgs(args)

	matchCmd := NewMatchCmd(matchArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           matchExamples,
		PersistentPreRunE: setup(args),
		Args:              matchCmd.Args,
		RunE:              matchCmd.RunE,
	}

	args.AddFlags(cmd)
	matchArgs.AddFlags(cmd)
	cmd.AddCommand(
		matchCmd,
		NewExplainCmd(NewExplainArgs(args)),
		NewObserveCmd(NewObserveArgs(args)),
		NewSchemaCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

// loadDotEnv loads environment variables from path. Variables that are
// already set keep their values.
func loadDotEnv(path string) {
	err := gotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load env file",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		closer, err := log.Setup(log.Options{
			Level:  ra.LogLevel,
			Format: ra.LogFormat,
			File:   ra.LogFile,
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}

		ra.logCloser = closer

		shutdown, err := telemetry.Setup(cmd.Context(), version.GetVersion())
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		ra.shutdown = shutdown

		return nil
	}
}

// withCleanup wraps a RunE function so that the resources acquired by
// setup are released once it returns, whether or not it failed.
func (ra *RootArgs) withCleanup(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)

		cleanupErr := ra.cleanup(cmd.Context())
		if err != nil {
			if cleanupErr != nil {
				slog.Error("cleanup", slog.Any("error", cleanupErr))
			}

			return err
		}

		return cleanupErr
	}
}

func (ra *RootArgs) cleanup(ctx context.Context) error {
	var errs []error

	if ra.shutdown != nil {
		err := ra.shutdown(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}

		ra.shutdown = nil
	}

	if ra.logCloser != nil {
		err := ra.logCloser.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}

		ra.logCloser = nil
	}

	return errors.Join(errs...)
}
