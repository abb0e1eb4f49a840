package stats

import (
	"errors"
	"time"

	"github.com/babylog/babylog/pkg/timeline"
)

const MaxRangeDays = 92

var (
	ErrRangeTooLarge = errors.New("date range too large")
	ErrInvalidRange  = errors.New("from date is after to date")
)

type DailyStats struct {
	Date      time.Time
	Aggregate timeline.DailyAggregate
}

type Averages struct {
	SleepMinutes float64
	FeedMinutes  float64
	Diapers      float64
	Events       float64
}

type StatsSummary struct {
	StartDate time.Time
	EndDate   time.Time
	Days      []DailyStats
	Total     timeline.DailyAggregate
	Average   Averages
}
