package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/babylog/babylog/internal/app"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/timeline"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const titleColumnWidth = 24

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the timeline and totals of one day",
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().String("date", "", "Day to print as YYYY-MM-DD (default today)")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	dateFlag, _ := cmd.Flags().GetString("date")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	deps, err := app.BuildDependencies(cfg, utils.SystemClock{})
	if err != nil {
		return err
	}

	date := deps.TimelineService.Today()
	if dateFlag != "" {
		date, err = utils.ParseDate(dateFlag, deps.Location)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateFlag)
		}
	}

	day, err := deps.TimelineService.GetDay(cmd.Context(), date)
	if err != nil {
		return err
	}
	printTimeline(cmd.OutOrStdout(), day, deps.Location)
	return nil
}

func printTimeline(w io.Writer, day timeline.DayTimeline, loc *time.Location) {
	fmt.Fprintf(w, "Timeline for %s\n\n", day.Date.Format("Monday, 2 January 2006"))

	if len(day.Entries) == 0 {
		fmt.Fprintln(w, "No events recorded.")
	}
	for _, entry := range day.Entries {
		fmt.Fprintln(w, formatEntry(entry, loc))
	}

	stats := day.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sleep:   %s\n", timeline.FormatMinutes(stats.TotalSleepMinutes))
	fmt.Fprintf(w, "Feeding: %s\n", timeline.FormatMinutes(stats.TotalFeedMinutes))
	fmt.Fprintf(w, "Diapers: %d\n", stats.DiaperCount)
	fmt.Fprintf(w, "Events:  %d\n", stats.TotalEventCount)
}

// formatEntry renders one aligned row. Icons are wide runes so the title
// column is padded by display width.
func formatEntry(entry timeline.Entry, loc *time.Location) string {
	title := strings.TrimSpace(entry.Icon + " " + entry.Title)
	when := entry.Start.In(loc).Format("15:04")
	if !entry.IsDuration() {
		return fmt.Sprintf("%s        %s", when, title)
	}
	when += "-" + entry.End.In(loc).Format("15:04")
	duration := timeline.FormatMinutes(timeline.RoundedMinutes(entry.Duration()))
	return fmt.Sprintf("%s  %s %s", when, runewidth.FillRight(title, titleColumnWidth), duration)
}
