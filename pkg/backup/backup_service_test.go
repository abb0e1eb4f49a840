package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/event_bus"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backupRepo *StubRepository
var eventRepo *event.StubEventRepository

func setupServiceTest(t *testing.T) (*Service, event.EventService, func()) {
	backupRepo = NewStubRepository()
	eventRepo = event.NewStubEventRepository()
	events := event.NewEventService(eventRepo, nil, time.UTC)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)}
	tallinn, _ := time.LoadLocation("Europe/Tallinn")
	return NewService(backupRepo, events, clock, tallinn), events, func() {
		t.Log("Teardown after test")
		backupRepo.Cleanup()
		eventRepo.Cleanup()
	}
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("should back up valid records and count skipped and failed", func(t *testing.T) {
		service, _, teardown := setupServiceTest(t)
		defer teardown()

		// given
		eventRepo.Records = []event.Record{
			{ID: 1, Type: "Feed", Icon: "🍼", Time: "2025-03-09T08:00:00.000Z"},
			{ID: 2, Type: "Diaper", Icon: "🩱", Time: "2025-03-09T09:00:00.000Z", Notes: "wet"},
			{ID: 3, Type: "Bath", Icon: "", Time: "2025-03-09T10:00:00.000Z"},
			{ID: 4, Type: "Sleep", Icon: "😴", Time: "2025-03-09T11:00:00.000Z"},
		}
		backupRepo.FailFor[4] = errors.New("constraint violated")

		// when
		result, err := service.Run(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, Result{Success: 2, Errors: 1, Skipped: 1}, result)
		entry, err := backupRepo.FindByEventID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "wet", entry.Notes)
		assert.Equal(t, "2025-03-10", entry.BackupDate)
	})

	t.Run("should fail when event store cannot be read", func(t *testing.T) {
		service, _, teardown := setupServiceTest(t)
		defer teardown()
		eventRepo.Err = errors.New("locked")

		_, err := service.Run(ctx)

		assert.Error(t, err)
	})
}

func TestService_MirrorOnSave(t *testing.T) {
	backupRepo = NewStubRepository()
	eventRepo = event.NewStubEventRepository()
	bus := event_bus.NewEventBus()
	events := event.NewEventService(eventRepo, bus, time.UTC)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	service := NewService(backupRepo, events, clock, time.UTC)
	unsubscribe := service.MirrorOnSave(bus)
	defer unsubscribe()

	_, err := events.SaveEvent(context.Background(), event.Record{ID: 9, Type: "Feed", Icon: "🍼", Time: "2025-03-10T11:00:00.000Z"})

	require.NoError(t, err)
	entry, err := backupRepo.FindByEventID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Feed", entry.Type)
}
