package vitals

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Run(t *testing.T) {

	t.Run("should do nothing without history", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, tallinn)}

		result, err := NewSummarizer(source, paths, tallinn, clock).Run(context.Background())

		require.NoError(t, err)
		assert.Empty(t, result.Generated)
	})

	t.Run("should summarize past days and skip existing ones", func(t *testing.T) {
		// given
		source, paths := setupFileSource(t, false)
		clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, tallinn)}
		writeFile(t, paths.History, `[
			{"timestamp":"2025-03-10T08:00:00Z","heart_rate":130},
			{"timestamp":"2025-03-09T08:00:00Z","heart_rate":120},
			{"timestamp":"2025-03-09T07:00:00Z","heart_rate":124},
			{"timestamp":"2025-03-08T08:00:00Z","heart_rate":110}
		]`)
		existing := paths.SummaryFile(time.Date(2025, 3, 8, 0, 0, 0, 0, tallinn))
		writeFile(t, existing, `{"date":"2025-03-08","hourly":[]}`)

		// when
		result, err := NewSummarizer(source, paths, tallinn, clock).Run(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-03-09"}, result.Generated)
		assert.Equal(t, []string{"2025-03-08"}, result.Skipped)
		assert.Empty(t, result.Failed)

		_, err = os.Stat(paths.SummaryFile(time.Date(2025, 3, 10, 0, 0, 0, 0, tallinn)))
		assert.True(t, os.IsNotExist(err))

		summaries, err := source.Summaries(10)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "2025-03-09", summaries[0].Date)
		assert.Equal(t, 2, summaries[0].TotalDataPoints)
		assert.Equal(t, 122.0, *summaries[0].Daily.HeartRate.Avg)
		assert.Equal(t, "2025-03-09T07:00:00Z", summaries[0].FirstTimestamp)
		assert.Len(t, summaries[0].Hourly, 24)
	})
}
