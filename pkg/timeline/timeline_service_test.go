package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock *utils.MockClock
var source *StubEventSource

func setupServiceTest(t *testing.T) (*TimelineServiceImpl, func()) {
	clock = &utils.MockClock{FixedNow: time.Date(2025, 1, 1, 14, 0, 0, 0, location)}
	source = &StubEventSource{}
	service := NewTimelineService(source, location, clock)
	return service, func() {
		t.Log("Teardown after test")
		source.Events = nil
		source.Err = nil
	}
}

func TestGetDay(t *testing.T) {
	ctx := context.Background()

	t.Run("should build entries and stats for the viewed day only", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()
		source.Events = []event.Event{
			ev(1, "Sleep Start", time.Date(2024, 12, 31, 23, 58, 0, 0, location)),
			ev(2, "Sleep End", at(0, 2)),
			ev(3, "Feed Start", at(8, 0)),
			ev(4, "Feed End", at(8, 20)),
			ev(5, "Diaper", at(11, 0)),
			ev(6, "Diaper", time.Date(2025, 1, 2, 0, 0, 0, 0, location)),
		}

		day, err := service.GetDay(ctx, at(15, 0))

		require.NoError(t, err)
		assert.Equal(t, at(0, 0), day.Date)
		require.Len(t, day.Entries, 3)
		assert.Equal(t, "Sleep End", day.Entries[0].Title)
		assert.Equal(t, KindInstant, day.Entries[0].Kind)
		assert.Equal(t, DailyAggregate{TotalFeedMinutes: 20, DiaperCount: 1, TotalEventCount: 4}, day.Stats)
		require.Len(t, day.Events, 4)
		assert.Equal(t, int64(5), day.Events[0].ID)
		assert.Equal(t, int64(2), day.Events[3].ID)
		assert.Equal(t, 20*time.Minute, day.FeedIntervals.Durations[4])
	})

	t.Run("should return empty day without error", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()

		day, err := service.GetDay(ctx, at(15, 0))

		require.NoError(t, err)
		assert.Empty(t, day.Entries)
		assert.Equal(t, DailyAggregate{}, day.Stats)
	})

	t.Run("should propagate source failure", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()
		source.Err = errors.New("disk gone")

		_, err := service.GetDay(ctx, at(15, 0))

		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestToday(t *testing.T) {
	service, teardown := setupServiceTest(t)
	defer teardown()
	clock.SetNow(time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, location), service.Today())
}
