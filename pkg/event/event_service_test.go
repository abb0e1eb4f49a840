package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoStub *StubEventRepository
var bus *event_bus.EventBus

func setupServiceTest(t *testing.T) (EventService, func()) {
	repoStub = NewStubEventRepository()
	bus = event_bus.NewEventBus()
	service := NewEventService(repoStub, bus, tallinn)
	return service, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func TestSaveEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("should store event and publish saved event", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()
		var published []event_bus.EventSavedPayload
		event_bus.SubscribeTyped[event_bus.EventSavedPayload](bus, event_bus.EventSaved, func(e event_bus.EventT[event_bus.EventSavedPayload]) error {
			published = append(published, e.Data)
			return nil
		})

		// when
		created, err := service.SaveEvent(ctx, Record{ID: 10, Type: "Feed", Icon: "🍼", Time: "2025-01-01T08:00:00.000Z"})

		// then
		require.NoError(t, err)
		assert.True(t, created)
		assert.Len(t, repoStub.Records, 1)
		require.Len(t, published, 1)
		assert.Equal(t, int64(10), published[0].ID)
		assert.True(t, published[0].Created)
	})

	t.Run("should reject record missing required field", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()

		_, err := service.SaveEvent(ctx, Record{ID: 10, Type: "Feed", Time: "2025-01-01T08:00:00.000Z"})

		assert.ErrorIs(t, err, ErrMissingField)
		assert.Empty(t, repoStub.Records)
	})

	t.Run("should reject unparseable time", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()

		_, err := service.SaveEvent(ctx, Record{ID: 10, Type: "Feed", Icon: "🍼", Time: "tomorrow"})

		assert.ErrorIs(t, err, ErrInvalidTime)
	})

	t.Run("should save even when a subscriber fails", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()
		bus.Subscribe(event_bus.EventSaved, func(e event_bus.Event) error { return errors.New("mirror down") })

		_, err := service.SaveEvent(ctx, Record{ID: 10, Type: "Feed", Icon: "🍼", Time: "2025-01-01T08:00:00.000Z"})

		assert.NoError(t, err)
		assert.Len(t, repoStub.Records, 1)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("should delete existing event", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()
		repoStub.Records = []Record{{ID: 1, Type: "Feed", Icon: "🍼", Time: "2025-01-01T08:00:00.000Z"}}
		deletedIds := []int64{}
		event_bus.SubscribeTyped[event_bus.EventDeletedPayload](bus, event_bus.EventDeleted, func(e event_bus.EventT[event_bus.EventDeletedPayload]) error {
			deletedIds = append(deletedIds, e.Data.ID)
			return nil
		})

		err := service.DeleteEvent(ctx, 1)

		require.NoError(t, err)
		assert.Empty(t, repoStub.Records)
		assert.Equal(t, []int64{1}, deletedIds)
	})

	t.Run("should return not found for unknown id", func(t *testing.T) {
		service, teardown := setupServiceTest(t)
		defer teardown()

		err := service.DeleteEvent(ctx, 1)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventsBetween(t *testing.T) {
	ctx := context.Background()
	service, teardown := setupServiceTest(t)
	defer teardown()
	repoStub.Records = []Record{
		{ID: 5, Type: "Feed", Icon: "🍼", Time: "2025-01-02T00:00:00.000+02:00"},
		{ID: 4, Type: "Diaper", Icon: "🩱", Time: "not a time"},
		{ID: 3, Type: "", Icon: "📝", Time: "2025-01-01T10:00:00.000Z"},
		{ID: 2, Type: "Feed", Icon: "🍼", Time: "2025-01-01T08:00:00.000Z"},
		{ID: 1, Type: "Feed", Icon: "🍼", Time: "2024-12-31T21:59:59.999Z"},
	}
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, tallinn)
	to := time.Date(2025, 1, 1, 23, 59, 59, int(999*time.Millisecond), tallinn)

	events, err := service.EventsBetween(ctx, from, to)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].ID)
}

func TestMilestones(t *testing.T) {
	ctx := context.Background()
	service, teardown := setupServiceTest(t)
	defer teardown()
	for i := int64(1); i <= 8; i++ {
		repoStub.Records = append([]Record{{ID: i, Type: TypeMilestone, Icon: "⭐", Time: "2025-01-01T08:00:00.000Z", Notes: "milestone"}}, repoStub.Records...)
	}
	repoStub.Records = append([]Record{{ID: 100, Type: "Feed", Icon: "🍼", Time: "2025-01-01T08:00:00.000Z"}}, repoStub.Records...)

	t.Run("should return six most recent milestones by default", func(t *testing.T) {
		milestones, err := service.Milestones(ctx, 0)

		require.NoError(t, err)
		require.Len(t, milestones, 6)
		assert.Equal(t, int64(8), milestones[0].ID)
		assert.Equal(t, int64(3), milestones[5].ID)
	})

	t.Run("should honour explicit limit", func(t *testing.T) {
		milestones, err := service.Milestones(ctx, 2)

		require.NoError(t, err)
		assert.Len(t, milestones, 2)
	})
}

func TestLatestEvent(t *testing.T) {
	ctx := context.Background()
	service, teardown := setupServiceTest(t)
	defer teardown()

	latest, err := service.LatestEvent(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	repoStub.Records = []Record{{ID: 2, Type: TypeSleepStart}, {ID: 1, Type: TypeSleepEnd}}
	latest, err = service.LatestEvent(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(2), latest.ID)
}
