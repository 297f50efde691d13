package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/taskboard/formats"
	"github.com/arthur-debert/taskboard/taskboard"
	"github.com/arthur-debert/taskboard/taskboard/store"
)

// Configuration keys shared by flags, env vars and config files
const (
	keyDir            = "dir"
	keySeed           = "seed"
	keyLogLevel       = "log-level"
	keyLogStderr      = "log-stderr"
	keyPersistRetries = "persist-retries"
	keyFormat         = "format"
	keyAddr           = "addr"
)

// CLI is the Viper-driven taskboard command line
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	logger  *slog.Logger
	logFile io.Closer
	board   *taskboard.Board
}

// NewCLI creates the command tree and loads configuration
func NewCLI() *CLI {
	cli := &CLI{viperInst: viper.New()}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	v := cli.viperInst

	// TASKBOARD_CONFIG points at a specific config file
	if configFile := os.Getenv("TASKBOARD_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("taskboard")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.taskboard")
	}

	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keySeed, store.SeedNone.String())
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyPersistRetries, 1)
	v.SetDefault(keyFormat, "table")
	v.SetDefault(keyAddr, "127.0.0.1:8080")

	// Read config file if it exists
	_ = v.ReadInConfig()
}

// runConfig is the resolved configuration for one run
type runConfig struct {
	Dir            string
	Seed           store.SeedPolicy
	LogLevel       string
	LogStderr      bool
	PersistRetries int
	Format         string
	Addr           string
}

func (cli *CLI) config() (runConfig, error) {
	v := cli.viperInst
	seed, err := store.ParseSeedPolicy(v.GetString(keySeed))
	if err != nil {
		return runConfig{}, NewConfigError("load configuration", err.Error(), CommonSuggestions.CheckConfig)
	}
	format := v.GetString(keyFormat)
	if _, err := formats.Get(format); err != nil {
		return runConfig{}, NewConfigError("load configuration", err.Error(), CommonSuggestions.CheckConfig)
	}
	retries := v.GetInt(keyPersistRetries)
	if retries < 0 {
		return runConfig{}, NewConfigError("load configuration",
			fmt.Sprintf("persist-retries must be >= 0, got %d", retries), CommonSuggestions.CheckConfig)
	}
	return runConfig{
		Dir:            v.GetString(keyDir),
		Seed:           seed,
		LogLevel:       v.GetString(keyLogLevel),
		LogStderr:      v.GetBool(keyLogStderr),
		PersistRetries: retries,
		Format:         format,
		Addr:           v.GetString(keyAddr),
	}, nil
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard - a kanban board kept in local JSON files",
		Long: `Taskboard keeps a three-column kanban board (To Do, In Progress, Done)
in JSON files and keeps every view of it in sync.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (TASKBOARD_*)
3. Configuration file (TASKBOARD_CONFIG, ./taskboard.yaml, ~/.taskboard/taskboard.yaml)
4. Defaults

Examples:
  taskboard add "Write docs" --assignee Ana
  taskboard move 1 "in progress"
  taskboard import backlog.json
  taskboard board
  TASKBOARD_DIR=./board taskboard list --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.config()
			if err != nil {
				return err
			}
			logger, closer, err := initLogging(cfg.LogLevel, cfg.LogStderr, cmd.ErrOrStderr())
			if err != nil {
				// Logging is best effort; keep going without a log file
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			}
			cli.logger, cli.logFile = logger, closer
			cli.logger.Debug("command started", "command", cmd.CommandPath(), "args", args)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cli.logFile != nil {
				_ = cli.logFile.Close()
				cli.logFile = nil
			}
		},
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.String(keyDir, "", "board data directory (default $XDG_DATA_HOME/taskboard)")
	flags.String(keySeed, "none", "what an empty board starts with: none or examples")
	flags.String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	flags.Bool(keyLogStderr, false, "also write logs to stderr")
	flags.Int(keyPersistRetries, 1, "extra save attempts before reporting a persistence failure")
	_ = cli.viperInst.BindPFlags(flags)
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newAddCommand(),
		cli.newEditCommand(),
		cli.newMoveCommand(),
		cli.newImportCommand(),
		cli.newListCommand(),
		cli.newSearchCommand(),
		cli.newBoardCommand(),
		cli.newAssigneesCommand(),
		cli.newServeCommand(),
		cli.newWatchCommand(),
	)
}

// openBoard opens the configured board once per run
func (cli *CLI) openBoard(cmd *cobra.Command) (*taskboard.Board, error) {
	if cli.board != nil {
		return cli.board, nil
	}
	cfg, err := cli.config()
	if err != nil {
		return nil, err
	}
	board, err := taskboard.Open(taskboard.Config{
		Dir:            cfg.Dir,
		Seed:           cfg.Seed,
		PersistRetries: cfg.PersistRetries,
		Logger:         cli.logger,
	})
	if err != nil && board == nil {
		return nil, NewStoreError("open board", err, CommonSuggestions.CheckDir, CommonSuggestions.CheckPerms)
	}
	warn(cmd, err)
	cli.board = board
	return board, nil
}

// warn reports a persistence failure without failing the command
func warn(cmd *cobra.Command, err error) {
	if err != nil && errors.Is(err, taskboard.ErrPersistenceFailure) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: change applied but not saved: %v\n", err)
	}
}

// persistOnly returns err unless it is a persistence warning, which it prints
func persistOnly(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, taskboard.ErrPersistenceFailure) {
		warn(cmd, err)
		return nil
	}
	return err
}

// Execute runs the CLI; long-running commands stop when ctx is done
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}
