package app

import (
	"context"
	"time"

	"github.com/babylog/babylog/pkg/backup"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// NewBackupScheduler schedules periodic backup runs on the given cron expression,
// evaluated in the household timezone.
func NewBackupScheduler(ctx context.Context, schedule string, service *backup.Service, location *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(location))
	_, err := c.AddFunc(schedule, func() {
		if _, err := service.Run(ctx); err != nil {
			log.Errorf("scheduled backup failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Infof("Backup scheduled at %q", schedule)
	return c, nil
}
