// Package timeline turns a day's raw events into the entries drawn on the
// 24-hour strip: sessions made of a "<X> Start" and a later "<X> End" become
// one duration, everything else stays a point in time.
package timeline

import (
	"strings"
	"time"
)

type Kind string

const (
	KindDuration Kind = "duration"
	KindInstant  Kind = "instant"
)

const (
	CategoryFeed      = "feed"
	CategorySleep     = "sleep"
	CategoryDiaper    = "diaper"
	CategoryMilestone = "milestone"
	CategoryOther     = "other"
)

const (
	startSuffix = " Start"
	endSuffix   = " End"
)

// Entry is one item of the day timeline. End is zero for instants.
type Entry struct {
	Kind     Kind
	Category string
	Start    time.Time
	End      time.Time
	Icon     string
	Title    string
	Notes    string
	// EventIDs lists the events this entry was built from: one for an
	// instant, start then end for a duration.
	EventIDs []int64
}

func (e Entry) IsDuration() bool {
	return e.Kind == KindDuration
}

// Time is the moment used to order entries.
func (e Entry) Time() time.Time {
	return e.Start
}

func (e Entry) Duration() time.Duration {
	if !e.IsDuration() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// Category classifies an event type that is not part of a start/end pair.
func Category(eventType string) string {
	lower := strings.ToLower(eventType)
	switch {
	case strings.Contains(lower, CategoryFeed):
		return CategoryFeed
	case strings.Contains(lower, CategorySleep):
		return CategorySleep
	case strings.Contains(lower, CategoryDiaper):
		return CategoryDiaper
	case strings.Contains(lower, CategoryMilestone):
		return CategoryMilestone
	}
	return CategoryOther
}
