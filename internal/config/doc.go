// Package config provides configuration management for dirvault using Viper.
//
// Configuration is read from config.yaml in the current directory or
// $XDG_CONFIG_HOME/dirvault, with DIRVAULT_* environment variable
// overrides. Recognized keys:
//
//	root_path        - installation root override (default: discovered)
//	backup_path      - absolute archive destination (default: parent of root)
//	max_backups      - retention cap, <= 0 disables pruning (default: 5)
//	cron_expression  - five-field schedule (default: "0 0 */7 * *")
//	exclude_dirs     - directory names excluded from archives
//	exclude_suffixes - file suffixes excluded from archives
//
// Call [Init] once at startup, then [Load] to obtain a typed [Config].
// [Validate] reports malformed values without aborting on the first one.
package config
