package commands

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and prune backup archives",
	Long: `Work with backup archives directly, outside the scheduler.

Archives created here use the same naming, exclusion, and retention
rules as scheduled runs, so manual and scheduled backups coexist in the
same directory.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}
