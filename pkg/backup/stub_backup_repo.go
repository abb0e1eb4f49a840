package backup

import (
	"context"
	"sync"
	"time"

	"github.com/babylog/babylog/pkg/event"
)

type StubRepository struct {
	mu      sync.Mutex
	Entries map[int64]Entry
	// FailFor makes Upsert fail for the listed event ids.
	FailFor map[int64]error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{Entries: make(map[int64]Entry), FailFor: make(map[int64]error)}
}

func (s *StubRepository) Upsert(ctx context.Context, record event.Record, backupDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailFor[record.ID]; ok {
		return err
	}
	s.Entries[record.ID] = Entry{
		EventID:    record.ID,
		Type:       record.Type,
		Icon:       record.Icon,
		Time:       record.Time,
		Notes:      record.Notes,
		BackupDate: backupDate.Format(time.DateOnly),
	}
	return nil
}

func (s *StubRepository) FindByEventID(ctx context.Context, eventID int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.Entries[eventID]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (s *StubRepository) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Entries), nil
}

func (s *StubRepository) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = make(map[int64]Entry)
	s.FailFor = make(map[int64]error)
}
