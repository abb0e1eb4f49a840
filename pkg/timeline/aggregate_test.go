package timeline

import (
	"testing"
	"time"

	"github.com/babylog/babylog/pkg/event"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {

	t.Run("should total a typical day", func(t *testing.T) {
		events := []event.Event{
			ev(1, "Feed Start", at(8, 0)),
			ev(2, "Feed End", at(8, 20)),
			ev(3, "Sleep Start", at(9, 0)),
			ev(4, "Sleep End", at(10, 30)),
			ev(5, "Diaper", at(11, 0)),
		}

		agg := Aggregate(Build(events), len(events))

		assert.Equal(t, DailyAggregate{
			TotalSleepMinutes: 90,
			TotalFeedMinutes:  20,
			DiaperCount:       1,
			TotalEventCount:   5,
		}, agg)
	})

	t.Run("should not count unpaired start as duration", func(t *testing.T) {
		events := []event.Event{ev(1, "Feed Start", at(8, 0))}

		agg := Aggregate(Build(events), len(events))

		assert.Equal(t, 0, agg.TotalFeedMinutes)
		assert.Equal(t, 1, agg.TotalEventCount)
	})

	t.Run("should round each duration half up", func(t *testing.T) {
		start := at(8, 0)
		events := []event.Event{
			ev(1, "Sleep Start", start),
			ev(2, "Sleep End", start.Add(10*time.Minute+30*time.Second)),
			ev(3, "Sleep Start", start.Add(time.Hour)),
			ev(4, "Sleep End", start.Add(time.Hour+10*time.Minute+29*time.Second+999*time.Millisecond)),
		}

		agg := Aggregate(Build(events), len(events))

		assert.Equal(t, 11+10, agg.TotalSleepMinutes)
	})

	t.Run("should count only diaper instants", func(t *testing.T) {
		events := []event.Event{ev(1, "Diaper", at(8, 0)), ev(2, "Wet diaper", at(9, 0)), ev(3, "Bath", at(10, 0))}

		agg := Aggregate(Build(events), len(events))

		assert.Equal(t, 2, agg.DiaperCount)
	})
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{20, "20m"},
		{60, "1h"},
		{90, "1h 30m"},
		{125, "2h 5m"},
		{600, "10h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinutes(tt.minutes))
		})
	}
}

func TestRoundedMinutes(t *testing.T) {
	assert.Equal(t, 0, RoundedMinutes(29*time.Second))
	assert.Equal(t, 1, RoundedMinutes(30*time.Second))
	assert.Equal(t, 20, RoundedMinutes(20*time.Minute))
	assert.Equal(t, 19, FlooredMinutes(19*time.Minute+59*time.Second))
}
