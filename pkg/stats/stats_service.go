package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	"github.com/babylog/babylog/pkg/timeline"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	// GetDailyStats aggregates every local calendar day from the day of from
	// through the day of to, both inclusive.
	GetDailyStats(ctx context.Context, from time.Time, to time.Time) (StatsSummary, error)
}

type StatsServiceImpl struct {
	events   timeline.EventSource
	location *time.Location
}

func NewStatsServiceImpl(events timeline.EventSource, location *time.Location) *StatsServiceImpl {
	return &StatsServiceImpl{events: events, location: location}
}

func (s *StatsServiceImpl) GetDailyStats(ctx context.Context, from time.Time, to time.Time) (StatsSummary, error) {
	firstDay := utils.StartOfDay(from, s.location)
	lastDay := utils.StartOfDay(to, s.location)
	if firstDay.After(lastDay) {
		return StatsSummary{}, ErrInvalidRange
	}
	days := daysBetween(firstDay, lastDay)
	if len(days) > MaxRangeDays {
		return StatsSummary{}, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLarge, len(days), MaxRangeDays)
	}

	_, rangeEnd := timeline.DayBounds(lastDay, s.location)
	events, err := s.events.EventsBetween(ctx, firstDay, rangeEnd)
	if err != nil {
		return StatsSummary{}, err
	}
	log.Tracef("Aggregating %d events over %d days", len(events), len(days))

	byDay := make(map[time.Time][]event.Event, len(days))
	for _, e := range events {
		day := utils.StartOfDay(e.Time, s.location)
		byDay[day] = append(byDay[day], e)
	}

	summary := StatsSummary{
		StartDate: firstDay,
		EndDate:   lastDay,
		Days:      make([]DailyStats, 0, len(days)),
	}
	for _, day := range days {
		dayEvents := byDay[day]
		agg := timeline.Aggregate(timeline.Build(dayEvents), len(dayEvents))
		summary.Days = append(summary.Days, DailyStats{Date: day, Aggregate: agg})

		summary.Total.TotalSleepMinutes += agg.TotalSleepMinutes
		summary.Total.TotalFeedMinutes += agg.TotalFeedMinutes
		summary.Total.DiaperCount += agg.DiaperCount
		summary.Total.TotalEventCount += agg.TotalEventCount
	}

	n := float64(len(days))
	summary.Average = Averages{
		SleepMinutes: roundTo(float64(summary.Total.TotalSleepMinutes)/n, 1),
		FeedMinutes:  roundTo(float64(summary.Total.TotalFeedMinutes)/n, 1),
		Diapers:      roundTo(float64(summary.Total.DiaperCount)/n, 1),
		Events:       roundTo(float64(summary.Total.TotalEventCount)/n, 1),
	}
	return summary, nil
}

func daysBetween(first, last time.Time) []time.Time {
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func roundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}
