package vitals

import (
	"context"
	"os"
	"path/filepath"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher invalidates the FileSource cache when the sync agent rewrites a
// file and publishes LatestReadingUpdated when the latest snapshot changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	source   *FileSource
	eventBus *event_bus.EventBus
	latest   string
}

func NewWatcher(source *FileSource, eventBus *event_bus.EventBus) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	paths := source.Paths()
	w := &Watcher{
		watcher:  watcher,
		source:   source,
		eventBus: eventBus,
		latest:   filepath.Clean(paths.Latest),
	}

	dirs := []string{filepath.Dir(paths.Latest), filepath.Dir(paths.History), paths.SummariesDir}
	added := make(map[string]bool)
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if added[dir] {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			log.Warnf("not watching %s: %v", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
		added[dir] = true
		log.Debugf("Watching %s for vitals changes", dir)
	}
	return w, nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, e)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("vitals watcher error: %v", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(ctx context.Context, e fsnotify.Event) {
	if e.Op == fsnotify.Chmod {
		return
	}
	name := filepath.Clean(e.Name)
	w.source.Invalidate(name)

	if name != w.latest || !e.Op.Has(fsnotify.Write) && !e.Op.Has(fsnotify.Create) {
		return
	}
	reading, err := w.source.Latest()
	if err != nil {
		log.Debugf("latest vitals not readable after %s: %v", e.Op, err)
		return
	}
	if w.eventBus == nil {
		return
	}
	payload := event_bus.LatestReadingPayload{
		Timestamp:  reading.Timestamp,
		SleepState: reading.SleepState,
	}
	if err := w.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.LatestReadingUpdated, payload)); err != nil {
		log.Errorf("failed to publish latest vitals: %v", err)
	}
}
