// Package sleep_detector turns sleep state transitions reported by the vitals
// monitor into Sleep Start / Sleep End events.
package sleep_detector

import (
	"context"
	"sync"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	"github.com/babylog/babylog/pkg/vitals"
	log "github.com/sirupsen/logrus"
)

const (
	Icon  = "😴"
	Notes = "Detected by Owlet"

	// DuplicateWindow suppresses a new event when the store's most recent
	// event has the same type and is younger than this.
	DuplicateWindow = 5 * time.Minute
)

type Detector struct {
	events   event.EventService
	clock    utils.Clock
	location *time.Location

	mu         sync.Mutex
	lastAsleep *bool
}

func NewDetector(events event.EventService, clock utils.Clock, location *time.Location) *Detector {
	return &Detector{events: events, clock: clock, location: location}
}

// Subscribe registers the detector for latest reading updates.
func (d *Detector) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped[event_bus.LatestReadingPayload](bus, event_bus.LatestReadingUpdated,
		func(e event_bus.EventT[event_bus.LatestReadingPayload]) error {
			return d.Observe(e.Context(), e.Data.SleepState)
		})
}

// Observe feeds one sleep state. The first known state is only recorded; a
// change between asleep and not asleep creates the matching event. Readings
// without a sleep state are ignored.
func (d *Detector) Observe(ctx context.Context, sleepState *int) error {
	if sleepState == nil {
		return nil
	}
	asleep := *sleepState == vitals.SleepStateAsleep

	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.lastAsleep
	d.lastAsleep = &asleep
	if previous == nil || *previous == asleep {
		return nil
	}

	eventType := event.TypeSleepEnd
	if asleep {
		eventType = event.TypeSleepStart
	}
	return d.create(ctx, eventType)
}

func (d *Detector) create(ctx context.Context, eventType string) error {
	now := d.clock.Now()

	latest, err := d.events.LatestEvent(ctx)
	if err != nil {
		log.Warnf("could not check for duplicate %s events: %v", eventType, err)
	} else if latest != nil && latest.Type == eventType {
		if t, err := event.ParseTime(latest.Time, d.location); err == nil && now.Sub(t) < DuplicateWindow {
			log.Infof("Skipping duplicate %s event, last one at %s", eventType, latest.Time)
			return nil
		}
	}

	record := event.Record{
		ID:    now.UnixMilli(),
		Type:  eventType,
		Icon:  Icon,
		Time:  event.FormatTime(now),
		Notes: Notes,
	}
	if _, err := d.events.SaveEvent(ctx, record); err != nil {
		log.Errorf("failed to create %s event: %v", eventType, err)
		return err
	}
	log.Infof("Created event: %s", eventType)
	return nil
}
