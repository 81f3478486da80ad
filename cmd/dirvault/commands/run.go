package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dirvault/dirvault/internal/logging"
	"github.com/dirvault/dirvault/internal/service"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the backup scheduler in the foreground",
	Long: `Start the cron-driven backup scheduler and block until interrupted.

The scheduler computes the next run time from the configured cron
expression, sleeps until it is due, performs the backup, prunes old
archives, and repeats. A failed run is logged and does not stop the
scheduler. SIGINT or SIGTERM triggers a clean shutdown; an in-flight
backup is allowed to finish first.`,
	Example: `  # Run with the default config
  dirvault run

  # Run with verbose logging and a log file
  dirvault run -v --log-file /var/log/dirvault.log`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())
	svc := service.New(GetConfig(), logger)

	fmt.Printf("dirvault scheduler started\n")
	fmt.Printf("  root:     %s\n", svc.Root())
	fmt.Printf("  archives: %s\n", svc.ArchiveDir())
	fmt.Printf("  schedule: %s\n", GetConfig().CronExpression)

	svc.Start()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down, waiting for in-flight work")
	svc.Stop()

	fmt.Println("dirvault scheduler stopped")
	return nil
}
