// Package config provides configuration management for dirvault using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dirvault/dirvault/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "dirvault"

// Defaults applied when the config file omits a value.
const (
	// DefaultMaxBackups is the retention cap. Values <= 0 disable pruning.
	DefaultMaxBackups = 5

	// DefaultCronExpression triggers a backup roughly weekly.
	DefaultCronExpression = "0 0 */7 * *"
)

// DefaultExcludeDirs are directory names pruned from the walk before
// descent: build artifacts, version control, and dependency caches.
var DefaultExcludeDirs = []string{".venv", "__pycache__", ".git", "node_modules"}

// DefaultExcludeSuffixes are file suffixes skipped during archiving.
var DefaultExcludeSuffixes = []string{".pyc", ".log", ".tmp"}

// Config represents the top-level configuration structure.
type Config struct {
	// RootPath is the fallback root when executable-relative discovery
	// finds no installation markers.
	RootPath string `mapstructure:"root_path" yaml:"root_path"`

	// BackupPath is the archive destination directory. Absolute paths are
	// used verbatim; relative or empty values default to the parent of
	// the root directory.
	BackupPath string `mapstructure:"backup_path" yaml:"backup_path"`

	// MaxBackups is the number of archives to retain. <= 0 disables pruning.
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`

	// CronExpression is the five-field recurrence schedule.
	CronExpression string `mapstructure:"cron_expression" yaml:"cron_expression"`

	// ExcludeDirs are directory names excluded from archives.
	ExcludeDirs []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs"`

	// ExcludeSuffixes are file suffixes excluded from archives.
	ExcludeSuffixes []string `mapstructure:"exclude_suffixes" yaml:"exclude_suffixes"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support
	viper.SetEnvPrefix("DIRVAULT")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("max_backups", DefaultMaxBackups)
	viper.SetDefault("cron_expression", DefaultCronExpression)
	viper.SetDefault("exclude_dirs", DefaultExcludeDirs)
	viper.SetDefault("exclude_suffixes", DefaultExcludeSuffixes)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
