package sleep_detector

import (
	"context"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoStub *event.StubEventRepository
var clock *utils.MockClock

func setupDetector(t *testing.T) (*Detector, func()) {
	repoStub = event.NewStubEventRepository()
	clock = &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)}
	service := event.NewEventService(repoStub, nil, time.UTC)
	return NewDetector(service, clock, time.UTC), func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func state(v int) *int {
	return &v
}

func TestDetector_Observe(t *testing.T) {
	ctx := context.Background()

	t.Run("should only record first observation", func(t *testing.T) {
		detector, teardown := setupDetector(t)
		defer teardown()

		require.NoError(t, detector.Observe(ctx, state(2)))

		assert.Empty(t, repoStub.Records)
	})

	t.Run("should create sleep start and end on transitions", func(t *testing.T) {
		detector, teardown := setupDetector(t)
		defer teardown()

		// given
		require.NoError(t, detector.Observe(ctx, state(1)))

		// when
		require.NoError(t, detector.Observe(ctx, state(2)))
		clock.Advance(90 * time.Minute)
		require.NoError(t, detector.Observe(ctx, state(8)))

		// then
		require.Len(t, repoStub.Records, 2)
		end, start := repoStub.Records[0], repoStub.Records[1]
		assert.Equal(t, event.Record{
			ID:    time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC).UnixMilli(),
			Type:  event.TypeSleepStart,
			Icon:  "😴",
			Time:  "2025-03-10T21:00:00.000Z",
			Notes: "Detected by Owlet",
		}, start)
		assert.Equal(t, event.TypeSleepEnd, end.Type)
		assert.Equal(t, "2025-03-10T22:30:00.000Z", end.Time)
	})

	t.Run("should ignore unchanged and missing states", func(t *testing.T) {
		detector, teardown := setupDetector(t)
		defer teardown()

		require.NoError(t, detector.Observe(ctx, state(0)))
		require.NoError(t, detector.Observe(ctx, nil))
		require.NoError(t, detector.Observe(ctx, state(1)))
		require.NoError(t, detector.Observe(ctx, state(8)))

		assert.Empty(t, repoStub.Records)
	})

	t.Run("should skip duplicate within five minutes", func(t *testing.T) {
		detector, teardown := setupDetector(t)
		defer teardown()
		repoStub.Records = []event.Record{
			{ID: 1, Type: event.TypeSleepStart, Icon: "😴", Time: "2025-03-10T20:57:00.000Z"},
		}

		require.NoError(t, detector.Observe(ctx, state(1)))
		require.NoError(t, detector.Observe(ctx, state(2)))

		assert.Len(t, repoStub.Records, 1)
	})

	t.Run("should create when same type is older than five minutes", func(t *testing.T) {
		detector, teardown := setupDetector(t)
		defer teardown()
		repoStub.Records = []event.Record{
			{ID: 1, Type: event.TypeSleepStart, Icon: "😴", Time: "2025-03-10T20:55:00.000Z"},
		}

		require.NoError(t, detector.Observe(ctx, state(1)))
		require.NoError(t, detector.Observe(ctx, state(2)))

		assert.Len(t, repoStub.Records, 2)
	})
}

func TestDetector_Subscribe(t *testing.T) {
	detector, teardown := setupDetector(t)
	defer teardown()
	bus := event_bus.NewEventBus()
	unsubscribe := detector.Subscribe(bus)
	defer unsubscribe()

	for _, s := range []int{1, 2} {
		payload := event_bus.LatestReadingPayload{Timestamp: "2025-03-10T21:00:00Z", SleepState: state(s)}
		require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.LatestReadingUpdated, payload)))
	}

	require.Len(t, repoStub.Records, 1)
	assert.Equal(t, event.TypeSleepStart, repoStub.Records[0].Type)
}
