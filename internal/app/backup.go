package app

import (
	"context"
	"fmt"
	"time"

	"github.com/babylog/babylog/internal/config"
	"github.com/babylog/babylog/internal/database"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/backup"
	log "github.com/sirupsen/logrus"
)

// OpenBackup connects the configured backup store, migrates it and returns a
// ready service together with a function releasing the connection.
func OpenBackup(ctx context.Context, cfg config.Application, records backup.RecordSource, clock utils.Clock, location *time.Location) (*backup.Service, func(), error) {
	switch cfg.Backup.Driver {
	case backup.DriverPostgres:
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Connected to backup database %s@%s", cfg.Database.Name, cfg.Database.Host)
		return backup.NewService(backup.NewPostgresRepository(pool), records, clock, location), pool.Close, nil

	case backup.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Backup.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Infof("Opened backup database %s", cfg.Backup.SQLitePath)
		closeDb := func() {
			if err := db.Close(); err != nil {
				log.Warnf("failed to close backup database: %v", err)
			}
		}
		return backup.NewService(backup.NewSQLiteRepository(db), records, clock, location), closeDb, nil

	default:
		return nil, nil, fmt.Errorf("unknown backup driver %q", cfg.Backup.Driver)
	}
}
