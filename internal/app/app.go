package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/babylog/babylog/internal/config"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/vitals"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(cfg config.Application) (*Application, error) {
	deps, err := BuildDependencies(cfg, utils.SystemClock{})
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run starts background workers and the HTTP server, and blocks until ctx is
// cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	if a.cfg.Vitals.AutoCreateSleepEvents {
		closers = append(closers, a.deps.SleepDetector.Subscribe(a.deps.EventBus))
	}

	if a.cfg.Vitals.Watch {
		watcher, err := vitals.NewWatcher(a.deps.VitalsSource, a.deps.EventBus)
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
		closers = append(closers, func() {
			if err := watcher.Close(); err != nil {
				log.Warnf("failed to close vitals watcher: %v", err)
			}
		})
	}

	if a.cfg.Backup.Enabled {
		service, closeBackup, err := OpenBackup(ctx, a.cfg, a.deps.EventService, a.deps.Clock, a.deps.Location)
		if err != nil {
			return err
		}
		closers = append(closers, closeBackup)

		if a.cfg.Backup.MirrorOnSave {
			closers = append(closers, service.MirrorOnSave(a.deps.EventBus))
		}

		scheduler, err := NewBackupScheduler(ctx, a.cfg.Backup.Schedule, service, a.deps.Location)
		if err != nil {
			return err
		}
		scheduler.Start()
		closers = append(closers, func() { <-scheduler.Stop().Done() })
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.srv.Shutdown(shutdownCtx)
}
