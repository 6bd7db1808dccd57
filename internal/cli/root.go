package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"my/internal/config"
	applog "my/internal/log"
	"my/internal/runner"
)

// Version is reported by my --version.
const Version = "0.1.0"

// Deps are the shared dependencies of every subcommand.
type Deps struct {
	Config *config.Config
	Logger *applog.Logger
	Runner runner.Runner
}

// NewRootCommand builds the my command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Config == nil {
		deps.Config = config.Load()
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.Runner == nil {
		deps.Runner = runner.NewExec(deps.Logger)
	}

	root := &cobra.Command{
		Use:           "my",
		Short:         "Personal command-line utilities",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newExpensesCommand(deps),
		newHighlightCommand(deps),
		newServeCommand(deps),
		newBackupCommand(deps),
	)
	return root
}

// Execute loads .env and the environment configuration, then runs the
// command named by os.Args. It returns the first error for main to print.
func Execute() error {
	if err := LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := SetupLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := SignalContext(context.Background(), logger)
	defer stop()

	root := NewRootCommand(Deps{Config: cfg, Logger: logger, Runner: runner.NewExec(logger)})
	return root.ExecuteContext(ctx)
}

// PrintError writes err to w as the single line main reports on failure.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "my: %v\n", err)
}
