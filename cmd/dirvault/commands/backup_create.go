package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/archive"
	"github.com/dirvault/dirvault/internal/errors"
	"github.com/dirvault/dirvault/internal/logging"
	"github.com/dirvault/dirvault/internal/service"
)

func init() {
	backupCmd.AddCommand(backupCreateCmd)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup archive now",
	Long: `Create a backup archive immediately, outside the schedule.

The archive is built with the configured exclusion rules, then retention
is applied. It is safe to run while the scheduler is active: archives
are uniquely timestamped, so the two can never overwrite each other.`,
	Example: `  # Create a backup with the default config
  dirvault backup create

  See Also:
    dirvault backup list  - List existing archives
    dirvault backup prune - Apply retention on demand`,
	RunE: runBackupCreate,
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	return runBackupCreateWithWriter(cmd, os.Stdout)
}

func runBackupCreateWithWriter(cmd *cobra.Command, w io.Writer) error {
	svc := service.New(GetConfig(), logging.FromContext(cmd.Context()))

	res := svc.RunOnce(cmd.Context())
	if res.Err != nil {
		if errors.Is(res.Err, archive.ErrArchiveExists) {
			return errors.NewUserError(res.Err,
				"An archive was created within the last second. Try again.")
		}
		return errors.NewSystemError(res.Err, "Check that the root and backup paths are readable and writable")
	}

	fmt.Fprintf(w, "%s✓ created %s%s\n", colorGreen, filepath.Base(res.Archive.Path), colorReset)
	fmt.Fprintf(w, "  location: %s\n", filepath.Dir(res.Archive.Path))
	fmt.Fprintf(w, "  size:     %s (%d files)\n", formatSize(res.Archive.SizeBytes), res.Archive.FileCount)

	for _, p := range res.Pruned {
		fmt.Fprintf(w, "  %spruned %s%s\n", colorGray, filepath.Base(p), colorReset)
	}

	return nil
}
