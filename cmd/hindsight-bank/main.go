// Hindsight-bank prints the memory bank ID for the current project.
//
// Claude Code hooks call it to decide which Hindsight memory bank a session
// reads from and writes to. The ID is derived from the origin remote of the
// enclosing git repository, falling back to the project path, and is always
// printed on stdout. Diagnostics go to stderr.
//
// Usage:
//
//	# Print the bank ID
//	hindsight-bank id
//
//	# Show how the ID was derived
//	hindsight-bank status --json
//
//	# Trace resolution without git installed
//	HINDSIGHT_DEBUG=1 hindsight-bank id --git-backend gogit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gcswan/hindsight-cc/internal/config"
	"github.com/gcswan/hindsight-cc/internal/logging"
	"github.com/gcswan/hindsight-cc/pkg/git"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// rootFlags holds the persistent flags. Only flags the user set override
// file and environment configuration.
type rootFlags struct {
	configPath string
	debug      bool
	gitBackend string
	gitTimeout time.Duration
}

// app is the state shared by subcommands once PersistentPreRunE has run.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *logging.Logger
	repo   git.Repository
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hindsight-bank",
		Short: "Resolve the Hindsight memory bank ID for the current project",
		Long: `hindsight-bank derives a stable memory bank ID for the project in the
current directory.

The ID is "claude-code--" followed by, in order of preference:
  - the last two path segments of the origin remote URL (owner-repo)
  - the last two components of the project directory
  - "default" when no project directory can be found

Configuration is read from ~/.config/hindsight-cc/config.yaml (or .toml),
then HINDSIGHT_* environment variables, then flags.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.config/hindsight-cc/config.yaml)")
	pf.BoolVar(&a.flags.debug, "debug", false, "print resolution steps to stderr")
	pf.StringVar(&a.flags.gitBackend, "git-backend", git.BackendCLI, "git backend: cli, gogit or auto")
	pf.DurationVar(&a.flags.gitTimeout, "git-timeout", git.DefaultTimeout, "timeout for each git query")

	root.AddCommand(newIDCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// setup loads configuration, applies flags, and builds the logger and git
// backend for the subcommand about to run.
//
// An unreadable or invalid config file is reported and skipped so hooks
// always receive an ID. Invalid flags are an error.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, loadErr := config.Load(a.flags.configPath)
	if loadErr != nil {
		cfg = fallbackConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = config.Switch(a.flags.debug)
	}
	if flags.Changed("git-backend") {
		cfg.Git.Backend = a.flags.gitBackend
	}
	if flags.Changed("git-timeout") {
		cfg.Git.Timeout = config.Duration(a.flags.gitTimeout)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}
	logger = logger.Named(cmd.Name()).With(zap.String("git_backend", cfg.Git.Backend))

	ctx := logging.WithCommand(cmd.Context(), cmd.Name())
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	if loadErr != nil {
		logger.Warn(ctx, "ignoring configuration", zap.Error(loadErr))
	}

	repo, err := git.New(cfg.GitOptions())
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.repo = cfg, logger, repo
	logger.Trace(ctx, "configured",
		zap.Duration("git_timeout", cfg.Git.Timeout.Duration()),
		zap.String("level", cfg.Logging.Level))
	return nil
}

// fallbackConfig keeps HINDSIGHT_* overrides when only the file layer is
// broken, and drops to defaults when the environment is invalid too.
func fallbackConfig() *config.Config {
	if cfg, err := config.LoadEnv(); err == nil {
		return cfg
	}
	return config.Default()
}

// newLogger writes to the command's stderr. Debug mode lowers the level to
// at least debug so resolution steps are visible.
func newLogger(cfg *config.Config, cmd *cobra.Command) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level: %w", err)
	}
	if cfg.Debug.Enabled() && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	lc := logging.NewDefaultConfig()
	lc.Level = level
	lc.Format = cfg.Logging.Format
	lc.Output = cmd.ErrOrStderr()

	return logging.NewLogger(lc)
}
