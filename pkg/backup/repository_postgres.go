package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/babylog/babylog/pkg/event"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// PgxDB is satisfied by *pgx.Conn and *pgxpool.Pool.
type PgxDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxDB
}

func NewPostgresRepository(db PgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, record event.Record, backupDate time.Time) error {
	query := `INSERT INTO events_backups (event_id, event_type, icon, event_time, notes, backup_date, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, now())
			  ON CONFLICT (event_id) DO UPDATE SET
				event_type = EXCLUDED.event_type,
				icon = EXCLUDED.icon,
				event_time = EXCLUDED.event_time,
				notes = EXCLUDED.notes,
				backup_date = EXCLUDED.backup_date,
				updated_at = now()`

	_, err := r.db.Exec(ctx, query,
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

func (r *PostgresRepository) FindByEventID(ctx context.Context, eventID int64) (Entry, error) {
	query := `SELECT event_id, event_type, icon, event_time, notes, to_char(backup_date, 'YYYY-MM-DD')
			  FROM events_backups WHERE event_id = $1`

	var entry Entry
	err := r.db.QueryRow(ctx, query, eventID).Scan(
		&entry.EventID,
		&entry.Type,
		&entry.Icon,
		&entry.Time,
		&entry.Notes,
		&entry.BackupDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		err := fmt.Errorf("could not query backup entry: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM events_backups`).Scan(&count); err != nil {
		err := fmt.Errorf("could not count backup entries: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}
