package backup

import (
	"context"
	"errors"
	"time"

	"github.com/babylog/babylog/pkg/event"
)

var ErrEntryNotFound = errors.New("backup entry not found")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Entry is one row of the events_backups table.
type Entry struct {
	EventID    int64
	Type       string
	Icon       string
	Time       string
	Notes      string
	BackupDate string
}

type Repository interface {
	// Upsert inserts the record or refreshes the row with the same event id.
	Upsert(ctx context.Context, record event.Record, backupDate time.Time) error
	FindByEventID(ctx context.Context, eventID int64) (Entry, error)
	Count(ctx context.Context) (int, error)
}

// Result counts the outcome of one backup run.
type Result struct {
	Success int
	Errors  int
	Skipped int
}
