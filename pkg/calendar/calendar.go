// Package calendar exports recent timelines as an iCalendar feed so the day
// history can be subscribed to from any calendar client.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/timeline"
)

const (
	DefaultDays = 14
	MaxDays     = 92

	productID = "-//babylog//timeline export//EN"
	uidDomain = "babylog"
)

var ErrInvalidDays = errors.New("invalid number of days")

type Service struct {
	timeline timeline.TimelineService
	clock    utils.Clock
}

func NewService(timelineService timeline.TimelineService, clock utils.Clock) *Service {
	return &Service{timelineService, clock}
}

// Export renders the timeline entries of the last days local days, today
// included, oldest first.
func (s *Service) Export(ctx context.Context, days int) (string, error) {
	if days <= 0 || days > MaxDays {
		return "", fmt.Errorf("%w: %d, allowed 1-%d", ErrInvalidDays, days, MaxDays)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := s.clock.Now()
	today := s.timeline.Today()
	for i := days - 1; i >= 0; i-- {
		day, err := s.timeline.GetDay(ctx, today.AddDate(0, 0, -i))
		if err != nil {
			return "", err
		}
		for _, entry := range day.Entries {
			addEntry(cal, entry, stamp)
		}
	}
	return cal.Serialize(), nil
}

func addEntry(cal *ical.Calendar, entry timeline.Entry, stamp time.Time) {
	end := entry.End
	if !entry.IsDuration() {
		end = entry.Start
	}

	vevent := cal.AddEvent(uid(entry))
	vevent.SetDtStampTime(stamp)
	vevent.SetStartAt(entry.Start)
	vevent.SetEndAt(end)
	vevent.SetSummary(summary(entry))
	if entry.Notes != "" {
		vevent.SetDescription(entry.Notes)
	}
	vevent.SetProperty(ical.ComponentPropertyCategories, entry.Category)
}

func uid(entry timeline.Entry) string {
	if len(entry.EventIDs) == 0 {
		return fmt.Sprintf("%d@%s", entry.Start.UnixMilli(), uidDomain)
	}
	return fmt.Sprintf("%d@%s", entry.EventIDs[0], uidDomain)
}

func summary(entry timeline.Entry) string {
	return strings.TrimSpace(entry.Icon + " " + entry.Title)
}
