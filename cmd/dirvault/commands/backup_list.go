package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/errors"
	"github.com/dirvault/dirvault/internal/logging"
	"github.com/dirvault/dirvault/internal/service"
)

// listLimit caps the tabular view; --json always returns everything.
const listLimit = 5

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup archives",
	Long: `List backup archives in the configured archive directory.

Archives are shown newest first. The tabular view shows the five most
recent and summarizes the rest; --json emits every archive.`,
	Example: `  # List recent archives
  dirvault backup list

  # Output as JSON
  dirvault backup list --json

  See Also:
    dirvault backup create - Create a new archive
    dirvault backup prune  - Apply retention on demand`,
	RunE: runBackupList,
}

// archiveListOutput is the JSON shape of the archive listing.
type archiveListOutput struct {
	Directory string              `json:"directory"`
	Count     int                 `json:"count"`
	Archives  []archiveInfoOutput `json:"archives"`
	LastRun   *service.State      `json:"last_run,omitempty"`
}

// archiveInfoOutput represents a single archive in JSON output.
type archiveInfoOutput struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	return runBackupListWithWriter(cmd, os.Stdout)
}

func runBackupListWithWriter(cmd *cobra.Command, w io.Writer) error {
	svc := service.New(GetConfig(), logging.FromContext(cmd.Context()))

	infos, err := svc.Status()
	if err != nil {
		return errors.Wrap(err, "listing archives")
	}

	lastRun, err := svc.LastRun()
	if err != nil {
		// The listing is still useful without the snapshot.
		logging.FromContext(cmd.Context()).Warn("reading last-run state failed", "error", err)
		lastRun = nil
	}

	if backupListJSON {
		output := archiveListOutput{
			Directory: svc.ArchiveDir(),
			Count:     len(infos),
			Archives:  make([]archiveInfoOutput, len(infos)),
			LastRun:   lastRun,
		}
		for i, info := range infos {
			output.Archives[i] = archiveInfoOutput{
				Name:      info.Name,
				SizeBytes: info.SizeBytes,
				ModTime:   info.ModTime,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	fmt.Fprintf(w, "%sArchives in %s%s\n", colorCyan+colorBold, svc.ArchiveDir(), colorReset)

	if len(infos) == 0 {
		fmt.Fprintf(w, "  %s(no archives)%s\n", colorGray, colorReset)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: dirvault backup create")
		return nil
	}

	shown := infos
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sNAME%s\t%sCREATED%s\t%sSIZE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, info := range shown {
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\n",
			colorGreen, info.Name, colorReset,
			info.ModTime.Local().Format("2006-01-02 15:04:05"),
			formatSize(info.SizeBytes))
	}
	tw.Flush()

	if rest := len(infos) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  %s...and %d more%s\n", colorGray, rest, colorReset)
	}

	if lastRun != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Last run: %s (%d files, %s, took %s)\n",
			lastRun.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			lastRun.FileCount,
			formatSize(lastRun.SizeBytes),
			lastRun.Duration)
	}

	return nil
}
