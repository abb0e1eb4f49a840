package timeline

import (
	"fmt"
	"time"
)

// DailyAggregate summarises one day of entries.
type DailyAggregate struct {
	TotalSleepMinutes int
	TotalFeedMinutes  int
	DiaperCount       int
	TotalEventCount   int
}

// Aggregate totals sleep and feed durations and counts diaper instants.
// dayEventCount is the number of events the entries were built from.
func Aggregate(entries []Entry, dayEventCount int) DailyAggregate {
	agg := DailyAggregate{TotalEventCount: dayEventCount}
	for _, e := range entries {
		switch {
		case e.IsDuration() && e.Category == CategorySleep:
			agg.TotalSleepMinutes += RoundedMinutes(e.Duration())
		case e.IsDuration() && e.Category == CategoryFeed:
			agg.TotalFeedMinutes += RoundedMinutes(e.Duration())
		case !e.IsDuration() && e.Category == CategoryDiaper:
			agg.DiaperCount++
		}
	}
	return agg
}

// RoundedMinutes rounds d to whole minutes at millisecond precision, half up.
func RoundedMinutes(d time.Duration) int {
	ms := d.Milliseconds()
	if ms < 0 {
		return -int((-ms + 30_000) / 60_000)
	}
	return int((ms + 30_000) / 60_000)
}

// FlooredMinutes truncates d to whole minutes.
func FlooredMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// FormatMinutes renders a minute total as "Xm", "Xh" or "Xh Ym".
func FormatMinutes(total int) string {
	hours := total / 60
	minutes := total % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
