package timeline

import (
	"slices"
	"time"

	"github.com/babylog/babylog/pkg/event"
)

const (
	typeFeedStart = "Feed Start"
	typeFeedEnd   = "Feed End"
)

// FeedIntervals holds, keyed by event id, how long each feed lasted (Feed End
// since the previous Feed Start) and how long the baby went between feeds
// (Feed Start since the previous Feed End).
type FeedIntervals struct {
	Durations map[int64]time.Duration
	Gaps      map[int64]time.Duration
}

func ComputeFeedIntervals(events []event.Event) FeedIntervals {
	asc := slices.Clone(events)
	slices.SortStableFunc(asc, func(a, b event.Event) int {
		return a.Time.Compare(b.Time)
	})

	result := FeedIntervals{
		Durations: make(map[int64]time.Duration),
		Gaps:      make(map[int64]time.Duration),
	}
	var lastStart, lastEnd *time.Time
	for _, ev := range asc {
		switch ev.Type {
		case typeFeedStart:
			if lastEnd != nil {
				if gap := ev.Time.Sub(*lastEnd); gap > 0 {
					result.Gaps[ev.ID] = gap
				}
			}
			t := ev.Time
			lastStart = &t
		case typeFeedEnd:
			if lastStart != nil {
				if d := ev.Time.Sub(*lastStart); d > 0 {
					result.Durations[ev.ID] = d
				}
			}
			t := ev.Time
			lastEnd = &t
		}
	}
	return result
}
