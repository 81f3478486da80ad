// Package commands implements the CLI commands for dirvault.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/cmd"
	"github.com/dirvault/dirvault/internal/config"
	"github.com/dirvault/dirvault/internal/errors"
	"github.com/dirvault/dirvault/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

// loadedConfig holds the configuration loaded during initialization.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config file (default: ./config.yaml, then XDG config dir)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("dirvault version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	loadedConfig, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "dirvault",
	Short: "Scheduled zip backups for a directory tree",
	Long: `dirvault archives a directory tree into timestamped zip files, keeps a
bounded number of them, and can run unattended on a cron schedule.

Archives are named dirvault_backup_YYYYMMDD_HHMMSS.zip so that sorting
by name sorts by creation time. Configured directory names are pruned
before descent and configured file suffixes are skipped, and archives
already present in the tree are never re-archived into new ones.`,
	Example: `  # Create the configuration file
  dirvault init

  # Run the scheduler in the foreground
  dirvault run

  # Trigger a backup immediately
  dirvault backup create

  See Also: dirvault backup list, dirvault backup prune`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("DIRVAULT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load and validation failures before any
// subcommand runs. init is exempt: it exists to create the config.
func checkConfig(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "help", "version", "init":
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if errs := config.Validate(loadedConfig); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return errors.NewConfigError(
			errors.Newf("invalid configuration: %s", strings.Join(msgs, "; ")))
	}

	return nil
}

// GetConfig returns the configuration loaded during initialization.
// Subcommands use this instead of re-reading the file.
func GetConfig() *config.Config {
	if loadedConfig == nil {
		return &config.Config{}
	}
	return loadedConfig
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
