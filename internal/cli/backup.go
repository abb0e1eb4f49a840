package cli

import (
	"fmt"

	"github.com/babylog/babylog/internal/app"
	"github.com/babylog/babylog/internal/utils"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy all events into the backup database once",
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().String("driver", "", "Backup driver, sqlite or postgres (default from config)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.Backup.Driver = driver
	}

	deps, err := app.BuildDependencies(cfg, utils.SystemClock{})
	if err != nil {
		return err
	}

	service, closeBackup, err := app.OpenBackup(cmd.Context(), cfg, deps.EventService, deps.Clock, deps.Location)
	if err != nil {
		return err
	}
	defer closeBackup()

	result, err := service.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Backed up: %d\nSkipped:   %d\nErrors:    %d\n", result.Success, result.Skipped, result.Errors)
	if result.Errors > 0 {
		return fmt.Errorf("%d events failed to back up", result.Errors)
	}
	return nil
}
