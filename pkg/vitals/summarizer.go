package vitals

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/babylog/babylog/internal/jsonfile"
	"github.com/babylog/babylog/internal/utils"
	log "github.com/sirupsen/logrus"
)

type SummarizeResult struct {
	Generated []string
	Skipped   []string
	Failed    []string
}

// Summarizer archives completed days of the rolling history into daily
// summary files. Days that already have a summary are left alone.
type Summarizer struct {
	source   Source
	paths    Paths
	location *time.Location
	clock    utils.Clock
}

func NewSummarizer(source Source, paths Paths, location *time.Location, clock utils.Clock) *Summarizer {
	return &Summarizer{source, paths, location, clock}
}

func (s *Summarizer) Run(ctx context.Context) (SummarizeResult, error) {
	result := SummarizeResult{}

	history, found, err := s.source.History()
	if err != nil {
		return result, err
	}
	if !found || len(history) == 0 {
		log.Info("No vitals history to summarize")
		return result, nil
	}

	today := utils.StartOfDay(s.clock.Now(), s.location)
	days := make(map[string]time.Time)
	for _, r := range history {
		t, err := r.Time()
		if err != nil {
			continue
		}
		day := utils.StartOfDay(t, s.location)
		if !day.Before(today) {
			continue
		}
		days[day.Format(time.DateOnly)] = day
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if err := os.MkdirAll(s.paths.SummariesDir, 0o755); err != nil {
		return result, fmt.Errorf("could not create %s: %w", s.paths.SummariesDir, err)
	}

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		day := days[date]
		path := s.paths.SummaryFile(day)
		if _, err := os.Stat(path); err == nil {
			log.Debugf("Skipping %s, summary already exists", date)
			result.Skipped = append(result.Skipped, date)
			continue
		}

		summary, ok := AggregateDay(ReadingsOfDay(history, day, s.location), s.location)
		if !ok {
			result.Failed = append(result.Failed, date)
			continue
		}
		if err := writeSummary(path, summary); err != nil {
			log.Errorf("failed to save summary for %s: %v", date, err)
			result.Failed = append(result.Failed, date)
			continue
		}
		log.Infof("Saved daily summary: %s", path)
		result.Generated = append(result.Generated, date)
	}

	log.Infof("Summaries: %d generated, %d skipped, %d failed", len(result.Generated), len(result.Skipped), len(result.Failed))
	return result, nil
}

func writeSummary(path string, summary Summary) error {
	return jsonfile.Update(jsonfile.New(path), func(current *Summary) error {
		*current = summary
		return nil
	})
}
