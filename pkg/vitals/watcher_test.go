package vitals

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {

	t.Run("should publish latest reading when file is written", func(t *testing.T) {
		source, paths := setupFileSource(t, true)
		bus := event_bus.NewEventBus()
		var mu sync.Mutex
		var received []event_bus.LatestReadingPayload
		event_bus.SubscribeTyped[event_bus.LatestReadingPayload](bus, event_bus.LatestReadingUpdated, func(e event_bus.EventT[event_bus.LatestReadingPayload]) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, e.Data)
			return nil
		})
		watcher, err := NewWatcher(source, bus)
		require.NoError(t, err)
		defer watcher.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)

		writeFile(t, paths.Latest, `{"timestamp":"2025-03-10T10:00:00Z","sleep_state":2}`)

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) > 0 && received[len(received)-1].Timestamp == "2025-03-10T10:00:00Z"
		}, 5*time.Second, 20*time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		require.NotNil(t, received[len(received)-1].SleepState)
		assert.Equal(t, 2, *received[len(received)-1].SleepState)
	})

	t.Run("should invalidate cache for other files without publishing", func(t *testing.T) {
		source, paths := setupFileSource(t, true)
		bus := event_bus.NewEventBus()
		published := 0
		bus.Subscribe(event_bus.LatestReadingUpdated, func(e event_bus.Event) error {
			published++
			return nil
		})
		watcher, err := NewWatcher(source, bus)
		require.NoError(t, err)
		defer watcher.Close()
		writeFile(t, paths.History, `[{"timestamp":"a"}]`)
		history, _, err := source.History()
		require.NoError(t, err)
		require.Len(t, history, 1)

		writeFile(t, paths.History, `[{"timestamp":"b"},{"timestamp":"a"}]`)
		watcher.handle(context.Background(), fsnotify.Event{Name: paths.History, Op: fsnotify.Write})
		history, _, err = source.History()

		require.NoError(t, err)
		assert.Len(t, history, 2)
		assert.Equal(t, 0, published)
	})
}
