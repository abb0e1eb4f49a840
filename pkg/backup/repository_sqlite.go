package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/babylog/babylog/pkg/event"
	log "github.com/sirupsen/logrus"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, record event.Record, backupDate time.Time) error {
	query := `INSERT INTO events_backups (event_id, event_type, icon, event_time, notes, backup_date, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT (event_id) DO UPDATE SET
				event_type = excluded.event_type,
				icon = excluded.icon,
				event_time = excluded.event_time,
				notes = excluded.notes,
				backup_date = excluded.backup_date,
				updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Type,
		record.Icon,
		record.Time,
		record.Notes,
		backupDate.Format(time.DateOnly),
	)
	if err != nil {
		err := fmt.Errorf("could not backup event %d: %w", record.ID, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *SQLiteRepository) FindByEventID(ctx context.Context, eventID int64) (Entry, error) {
	query := `SELECT event_id, event_type, icon, event_time, notes, backup_date
			  FROM events_backups WHERE event_id = ?`

	var entry Entry
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&entry.EventID,
		&entry.Type,
		&entry.Icon,
		&entry.Time,
		&entry.Notes,
		&entry.BackupDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		err := fmt.Errorf("could not query backup entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM events_backups`).Scan(&count); err != nil {
		err := fmt.Errorf("could not count backup entries: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}
