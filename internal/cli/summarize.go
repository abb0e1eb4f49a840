package cli

import (
	"fmt"

	"github.com/babylog/babylog/internal/app"
	"github.com/babylog/babylog/internal/utils"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Write daily vitals summaries for past days missing one",
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	deps, err := app.BuildDependencies(cfg, utils.SystemClock{})
	if err != nil {
		return err
	}

	result, err := deps.Summarizer.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated: %d\n", len(result.Generated))
	for _, date := range result.Generated {
		fmt.Fprintf(out, "  %s\n", date)
	}
	fmt.Fprintf(out, "Skipped:   %d\n", len(result.Skipped))
	if len(result.Failed) > 0 {
		return fmt.Errorf("failed to summarize %d days: %v", len(result.Failed), result.Failed)
	}
	return nil
}
