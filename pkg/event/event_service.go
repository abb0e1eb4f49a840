package event

import (
	"context"
	"fmt"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

const DefaultMilestonesLimit = 6

type EventService interface {
	ListEvents(ctx context.Context) ([]Record, error)
	SaveEvent(ctx context.Context, record Record) (bool, error)
	DeleteEvent(ctx context.Context, id int64) error
	// EventsBetween returns the parsed events with from <= time <= to in store
	// order. Records that cannot be parsed are skipped.
	EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	Milestones(ctx context.Context, limit int) ([]Event, error)
	// LatestEvent returns the first record of the store, nil when it is empty.
	LatestEvent(ctx context.Context) (*Record, error)
}

type EventServiceImpl struct {
	repo     EventRepository
	eventBus *event_bus.EventBus
	location *time.Location
}

func NewEventService(repo EventRepository, eventBus *event_bus.EventBus, location *time.Location) *EventServiceImpl {
	return &EventServiceImpl{repo, eventBus, location}
}

func (s *EventServiceImpl) ListEvents(ctx context.Context) ([]Record, error) {
	return s.repo.FindAll(ctx)
}

func (s *EventServiceImpl) SaveEvent(ctx context.Context, record Record) (bool, error) {
	if err := record.Validate(); err != nil {
		return false, err
	}
	if _, err := ParseTime(record.Time, s.location); err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidTime, record.Time)
	}

	created, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return false, err
	}
	log.Debugf("Saved event %d (%s), created: %t", record.ID, record.Type, created)

	s.publish(ctx, event_bus.EventSaved, event_bus.EventSavedPayload{
		ID:      record.ID,
		Type:    record.Type,
		Icon:    record.Icon,
		Time:    record.Time,
		Notes:   record.Notes,
		Created: created,
	})
	return created, nil
}

func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEventNotFound
	}
	log.Debugf("Deleted event %d", id)
	s.publish(ctx, event_bus.EventDeleted, event_bus.EventDeletedPayload{ID: id})
	return nil
}

func (s *EventServiceImpl) EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0)
	for _, record := range records {
		e, err := record.Parse(s.location)
		if err != nil {
			log.Warnf("skipping malformed event %d (%q at %q): %v", record.ID, record.Type, record.Time, err)
			continue
		}
		if e.Time.Before(from) || e.Time.After(to) {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *EventServiceImpl) Milestones(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultMilestonesLimit
	}
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	milestones := make([]Event, 0, limit)
	for _, record := range records {
		if record.Type != TypeMilestone {
			continue
		}
		e, err := record.Parse(s.location)
		if err != nil {
			log.Warnf("skipping malformed milestone %d: %v", record.ID, err)
			continue
		}
		milestones = append(milestones, e)
		if len(milestones) == limit {
			break
		}
	}
	return milestones, nil
}

func (s *EventServiceImpl) LatestEvent(ctx context.Context) (*Record, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *EventServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
