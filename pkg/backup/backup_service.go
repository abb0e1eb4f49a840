package backup

import (
	"context"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	log "github.com/sirupsen/logrus"
)

// RecordSource provides the raw event store contents.
type RecordSource interface {
	ListEvents(ctx context.Context) ([]event.Record, error)
}

type Service struct {
	repo     Repository
	records  RecordSource
	clock    utils.Clock
	location *time.Location
}

func NewService(repo Repository, records RecordSource, clock utils.Clock, location *time.Location) *Service {
	return &Service{repo, records, clock, location}
}

// Run copies every stored event into the backup table. Records missing a
// required field are skipped; a failed upsert is counted and the run goes on.
func (s *Service) Run(ctx context.Context) (Result, error) {
	records, err := s.records.ListEvents(ctx)
	if err != nil {
		return Result{}, err
	}
	log.Infof("Found %d events to backup", len(records))

	backupDate := s.clock.Now().In(s.location)
	result := Result{}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := record.Validate(); err != nil {
			log.Warnf("Skipping invalid event %d: %v", record.ID, err)
			result.Skipped++
			continue
		}
		if err := s.repo.Upsert(ctx, record, backupDate); err != nil {
			result.Errors++
			continue
		}
		result.Success++
	}

	log.Infof("Backup completed: %d successful, %d errors, %d skipped", result.Success, result.Errors, result.Skipped)
	return result, nil
}

// MirrorOnSave backs up every saved event as soon as it is stored.
func (s *Service) MirrorOnSave(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped[event_bus.EventSavedPayload](bus, event_bus.EventSaved,
		func(e event_bus.EventT[event_bus.EventSavedPayload]) error {
			record := event.Record{
				ID:    e.Data.ID,
				Type:  e.Data.Type,
				Icon:  e.Data.Icon,
				Time:  e.Data.Time,
				Notes: e.Data.Notes,
			}
			return s.repo.Upsert(e.Context(), record, s.clock.Now().In(s.location))
		})
}
