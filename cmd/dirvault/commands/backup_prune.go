package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/errors"
	"github.com/dirvault/dirvault/internal/logging"
	"github.com/dirvault/dirvault/internal/retention"
)

var pruneKeep int

func init() {
	backupPruneCmd.Flags().IntVar(&pruneKeep, "keep", 0,
		"override max_backups for this invocation (0 uses the configured value)")
	backupCmd.AddCommand(backupPruneCmd)
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archives beyond the retention cap",
	Long: `Apply the retention policy on demand.

Archives are ordered newest first and everything past the cap is
deleted. Only files following the archive naming convention are
candidates; anything else in the directory is left alone. A cap of
zero or less means retention is disabled and nothing is deleted.`,
	Example: `  # Prune using the configured max_backups
  dirvault backup prune

  # Keep only the two most recent archives
  dirvault backup prune --keep 2`,
	RunE: runBackupPrune,
}

func runBackupPrune(cmd *cobra.Command, _ []string) error {
	return runBackupPruneWithWriter(cmd, os.Stdout)
}

func runBackupPruneWithWriter(cmd *cobra.Command, w io.Writer) error {
	cfg := GetConfig()
	logger := logging.FromContext(cmd.Context())

	policy := retention.Policy{MaxKept: cfg.MaxBackups}
	if pruneKeep > 0 {
		policy.MaxKept = pruneKeep
	}

	if !policy.Enabled() {
		fmt.Fprintln(w, "Retention is disabled (max_backups <= 0); nothing to prune")
		return nil
	}

	dir := archiveDirFromConfig(cfg)
	pruned, err := retention.Prune(dir, policy, logger)
	if err != nil {
		return errors.Wrap(err, "pruning archives")
	}

	if len(pruned) == 0 {
		fmt.Fprintf(w, "Nothing to prune (cap %d)\n", policy.MaxKept)
		return nil
	}

	for _, p := range pruned {
		fmt.Fprintf(w, "%s✓ deleted %s%s\n", colorGreen, filepath.Base(p), colorReset)
	}
	fmt.Fprintf(w, "Deleted %d archive(s), keeping the %d most recent\n", len(pruned), policy.MaxKept)

	return nil
}
