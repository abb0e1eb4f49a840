package timeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
)

// EventSource provides parsed events within an inclusive time range.
type EventSource interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

// DayTimeline is everything needed to render one local calendar day.
type DayTimeline struct {
	Date    time.Time
	Start   time.Time
	End     time.Time
	Entries []Entry
	Stats   DailyAggregate
	// Events are the raw day events, latest first.
	Events        []event.Event
	FeedIntervals FeedIntervals
}

type TimelineService interface {
	GetDay(ctx context.Context, date time.Time) (DayTimeline, error)
	Today() time.Time
	Location() *time.Location
}

type TimelineServiceImpl struct {
	events   EventSource
	location *time.Location
	clock    utils.Clock
}

func NewTimelineService(events EventSource, location *time.Location, clock utils.Clock) *TimelineServiceImpl {
	return &TimelineServiceImpl{events, location, clock}
}

func (s *TimelineServiceImpl) GetDay(ctx context.Context, date time.Time) (DayTimeline, error) {
	start, end := DayBounds(date, s.location)
	dayEvents, err := s.events.EventsBetween(ctx, start, end)
	if err != nil {
		return DayTimeline{}, fmt.Errorf("failed to load events for %s: %w", start.Format(time.DateOnly), err)
	}

	entries := Build(dayEvents)

	latestFirst := slices.Clone(dayEvents)
	slices.SortStableFunc(latestFirst, func(a, b event.Event) int {
		return b.Time.Compare(a.Time)
	})

	return DayTimeline{
		Date:          start,
		Start:         start,
		End:           end,
		Entries:       entries,
		Stats:         Aggregate(entries, len(dayEvents)),
		Events:        latestFirst,
		FeedIntervals: ComputeFeedIntervals(dayEvents),
	}, nil
}

func (s *TimelineServiceImpl) Today() time.Time {
	return utils.StartOfDay(s.clock.Now(), s.location)
}

func (s *TimelineServiceImpl) Location() *time.Location {
	return s.location
}
