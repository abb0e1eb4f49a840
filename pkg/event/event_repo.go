package event

import (
	"context"
	"fmt"

	"github.com/babylog/babylog/internal/jsonfile"
	log "github.com/sirupsen/logrus"
)

type EventRepository interface {
	FindAll(ctx context.Context) ([]Record, error)
	// Upsert replaces the record with the same id in place or inserts it at
	// the front of the store. It reports whether a new record was created.
	Upsert(ctx context.Context, record Record) (bool, error)
	// Delete reports false when no record had the id.
	Delete(ctx context.Context, id int64) (bool, error)
}

// FileEventRepository keeps all events as one JSON array, most recent first.
type FileEventRepository struct {
	file *jsonfile.File
}

func NewFileEventRepository(path string) *FileEventRepository {
	return &FileEventRepository{file: jsonfile.New(path)}
}

func (r *FileEventRepository) FindAll(ctx context.Context) ([]Record, error) {
	records, _, err := jsonfile.Read[[]Record](r.file)
	if err != nil {
		err := fmt.Errorf("%w: %v", ErrStoreCorrupted, err)
		log.Error(err)
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *FileEventRepository) Upsert(ctx context.Context, record Record) (bool, error) {
	created := false
	err := jsonfile.Update(r.file, func(records *[]Record) error {
		for i := range *records {
			if (*records)[i].ID == record.ID {
				(*records)[i] = record
				return nil
			}
		}
		created = true
		*records = append([]Record{record}, *records...)
		return nil
	})
	if err != nil {
		err := fmt.Errorf("could not save event %d: %w", record.ID, err)
		log.Error(err)
		return false, err
	}
	return created, nil
}

func (r *FileEventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := jsonfile.Update(r.file, func(records *[]Record) error {
		kept := make([]Record, 0, len(*records))
		for _, rec := range *records {
			if rec.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, rec)
		}
		if !deleted {
			return ErrEventNotFound
		}
		*records = kept
		return nil
	})
	if err == ErrEventNotFound {
		return false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not delete event %d: %w", id, err)
		log.Error(err)
		return false, err
	}
	return true, nil
}
