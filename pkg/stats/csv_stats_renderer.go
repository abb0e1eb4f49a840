package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats StatsSummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

func (t *CsvStatsRendererImpl) RenderStats(stats StatsSummary) (string, error) {
	data := make([][]string, 0, len(stats.Days)+3)
	data = append(data, []string{"Date", "Sleep", "Feed", "Diapers", "Events"})
	for _, day := range stats.Days {
		data = append(data, []string{
			day.Date.Format("02/01/2006"),
			minutesToString(day.Aggregate.TotalSleepMinutes),
			minutesToString(day.Aggregate.TotalFeedMinutes),
			strconv.Itoa(day.Aggregate.DiaperCount),
			strconv.Itoa(day.Aggregate.TotalEventCount),
		})
	}
	data = append(data, []string{
		"Total",
		minutesToString(stats.Total.TotalSleepMinutes),
		minutesToString(stats.Total.TotalFeedMinutes),
		strconv.Itoa(stats.Total.DiaperCount),
		strconv.Itoa(stats.Total.TotalEventCount),
	})
	data = append(data, []string{
		"Average",
		minutesToString(int(stats.Average.SleepMinutes + 0.5)),
		minutesToString(int(stats.Average.FeedMinutes + 0.5)),
		strconv.FormatFloat(stats.Average.Diapers, 'f', 1, 64),
		strconv.FormatFloat(stats.Average.Events, 'f', 1, 64),
	})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

// minutesToString renders a minute total as HH:MM.
func minutesToString(total int) string {
	hours := strconv.Itoa(total / 60)
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(total % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	return hours + ":" + minutes
}
