package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/config"
	"github.com/dirvault/dirvault/internal/errors"
	"github.com/dirvault/dirvault/internal/paths"
	"github.com/dirvault/dirvault/pkg/fileutil"
)

var (
	initYes   bool
	initForce bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dirvault configuration",
	Long: `Bootstrap the dirvault configuration file with default values.

Creates config.yaml under the XDG config directory with a weekly
schedule, a retention cap of five archives, and the standard exclusion
lists. Edit the file afterwards to point root_path and backup_path at
your installation.`,
	Example: `  # Initialize with interactive prompts
  dirvault init

  # Initialize non-interactively, accepting defaults
  dirvault init --yes

  # Force overwrite existing configuration
  dirvault init --force

  See Also: dirvault run, dirvault backup create`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configFile := filepath.Join(paths.ConfigHome(), config.AppName, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil && !initForce {
		fmt.Printf("Configuration already exists at %s\n", configFile)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	cfg := config.Config{
		MaxBackups:      config.DefaultMaxBackups,
		CronExpression:  config.DefaultCronExpression,
		ExcludeDirs:     config.DefaultExcludeDirs,
		ExcludeSuffixes: config.DefaultExcludeSuffixes,
	}

	if !initYes {
		fmt.Println("This will create:")
		fmt.Printf("  %s\n", configFile)
		fmt.Println()

		if !confirm("Proceed?") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := paths.EnsureDir(filepath.Dir(configFile), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(configFile, &cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Printf("Created %s\n", configFile)
	return nil
}
