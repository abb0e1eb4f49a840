package cli

import (
	"fmt"
	"os"

	"github.com/babylog/babylog/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "babylog",
		Short: "Babylog - baby care event log and vitals dashboard backend",
		Long: `Babylog records feeding, sleep and diaper events, builds daily timelines
and statistics, and serves baby monitor vitals written by the sock poller.

Without a subcommand it starts the HTTP server.`,
		RunE:              runServe,
		PersistentPreRunE: applyLogLevel,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/application.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

// Execute runs the root command
func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(backupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func applyLogLevel(cmd *cobra.Command, args []string) error {
	if logLevel == "" {
		return nil
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func loadConfig() (config.Application, error) {
	return config.Load(configPath)
}
