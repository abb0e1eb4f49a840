package vitals

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tallinn, _ = time.LoadLocation("Europe/Tallinn")

func setupFileSource(t *testing.T, caching bool) (*FileSource, Paths) {
	dir := t.TempDir()
	paths := NewPaths(dir, "owlet_latest.json", "owlet_history.json", "owlet_vitals.json", "owlet_daily_summaries", "owlet_todays_hourly.json")
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, tallinn)}
	return NewFileSource(paths, tallinn, clock, caching), paths
}

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileSource_Latest(t *testing.T) {

	t.Run("should report missing latest file", func(t *testing.T) {
		source, _ := setupFileSource(t, false)

		_, err := source.Latest()

		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("should report invalid latest file", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.Latest, "{not json")

		_, err := source.Latest()

		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("should decode nullable fields and flags", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.Latest, `{"timestamp":"2025-03-10T10:00:00Z","heart_rate":132,"oxygen_saturation":null,"sleep_state":2,"sock_connected":false,"low_battery":1}`)

		reading, err := source.Latest()

		require.NoError(t, err)
		assert.Equal(t, "2025-03-10T10:00:00Z", reading.Timestamp)
		require.NotNil(t, reading.HeartRate)
		assert.Equal(t, 132.0, *reading.HeartRate)
		assert.Nil(t, reading.OxygenSaturation)
		asleep, known := reading.Asleep()
		assert.True(t, asleep)
		assert.True(t, known)
		assert.True(t, reading.SockConnected.IsFalse())
		assert.False(t, reading.LowBattery.IsTrue())
		assert.False(t, reading.LowBattery.Valid)
	})

	t.Run("should serve cached value until invalidated", func(t *testing.T) {
		source, paths := setupFileSource(t, true)
		writeFile(t, paths.Latest, `{"timestamp":"2025-03-10T10:00:00Z"}`)
		_, err := source.Latest()
		require.NoError(t, err)

		writeFile(t, paths.Latest, `{"timestamp":"2025-03-10T10:01:00Z"}`)
		cached, err := source.Latest()
		require.NoError(t, err)
		source.Invalidate(paths.Latest)
		fresh, err := source.Latest()
		require.NoError(t, err)

		assert.Equal(t, "2025-03-10T10:00:00Z", cached.Timestamp)
		assert.Equal(t, "2025-03-10T10:01:00Z", fresh.Timestamp)
	})
}

func TestFileSource_History(t *testing.T) {

	t.Run("should report not found when neither file exists", func(t *testing.T) {
		source, _ := setupFileSource(t, false)

		history, found, err := source.History()

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, history)
	})

	t.Run("should fall back to legacy vitals file", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.Legacy, `[{"timestamp":"2025-03-10T10:00:00Z"}]`)

		history, found, err := source.History()

		require.NoError(t, err)
		assert.True(t, found)
		require.Len(t, history, 1)
	})

	t.Run("should prefer history file", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.Legacy, `[{"timestamp":"2025-03-10T10:00:00Z"}]`)
		writeFile(t, paths.History, `[{"timestamp":"2025-03-10T11:00:00Z"},{"timestamp":"2025-03-10T10:59:00Z"}]`)

		history, _, err := source.History()

		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "2025-03-10T11:00:00Z", history[0].Timestamp)
	})

	t.Run("should treat invalid history as empty", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.History, "garbage")

		history, found, err := source.History()

		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, history)
	})
}

func TestFileSource_Summaries(t *testing.T) {

	t.Run("should return empty list when directory is missing", func(t *testing.T) {
		source, _ := setupFileSource(t, false)

		summaries, err := source.Summaries(0)

		require.NoError(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("should list newest first, skip invalid and undated files, honour limit", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, filepath.Join(paths.SummariesDir, "owlet_summary_2025-03-07.json"), `{"date":"2025-03-07","hourly":[]}`)
		writeFile(t, filepath.Join(paths.SummariesDir, "owlet_summary_2025-03-08.json"), `{"date":"2025-03-08","hourly":[]}`)
		writeFile(t, filepath.Join(paths.SummariesDir, "owlet_summary_2025-03-09.json"), `{"hourly":[]}`)
		writeFile(t, filepath.Join(paths.SummariesDir, "owlet_summary_2025-03-06.json"), `{"date":"2025-03-06","hourly":[]}`)
		writeFile(t, filepath.Join(paths.SummariesDir, "broken.json"), `{`)
		writeFile(t, filepath.Join(paths.SummariesDir, "notes.txt"), `{"date":"2025-03-10"}`)

		summaries, err := source.Summaries(2)

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "2025-03-08", summaries[0].Date)
		assert.Equal(t, "2025-03-07", summaries[1].Date)
	})

	t.Run("should prepend today's hourly when it has data", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, filepath.Join(paths.SummariesDir, "owlet_summary_2025-03-09.json"), `{"date":"2025-03-09","last_timestamp":"2025-03-09T21:59:00Z","hourly":[]}`)
		writeFile(t, paths.TodaysHourly, `{"date":"2025-03-10","hourly":[{"hour":0,"data_points":3}],"total_hours":1,"last_update":"2025-03-10T09:00:00Z"}`)

		summaries, err := source.Summaries(30)

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "2025-03-10", summaries[0].Date)
		require.NotNil(t, summaries[0].UpdatedAt())
		assert.Equal(t, "2025-03-10T09:00:00Z", *summaries[0].UpdatedAt())
		assert.Equal(t, "2025-03-09T21:59:00Z", *summaries[1].UpdatedAt())
	})

	t.Run("should not prepend today's hourly without hours", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.TodaysHourly, `{"date":"2025-03-10","hourly":[]}`)
		require.NoError(t, os.MkdirAll(paths.SummariesDir, 0o755))

		summaries, err := source.Summaries(30)

		require.NoError(t, err)
		assert.Empty(t, summaries)
	})
}

func TestFileSource_TodaysHourly(t *testing.T) {

	t.Run("should return empty day when file is missing", func(t *testing.T) {
		source, _ := setupFileSource(t, false)

		today, err := source.TodaysHourly()

		require.NoError(t, err)
		assert.Equal(t, TodaysHourly{Date: "2025-03-10", Hourly: []HourlyMetrics{}}, today)
	})

	t.Run("should return stored rollup", func(t *testing.T) {
		source, paths := setupFileSource(t, false)
		writeFile(t, paths.TodaysHourly, `{"date":"2025-03-10","hourly":[{"hour":8,"data_points":60,"heart_rate":{"avg":130.5,"min":120,"max":140}}],"total_hours":1}`)

		today, err := source.TodaysHourly()

		require.NoError(t, err)
		require.Len(t, today.Hourly, 1)
		assert.Equal(t, 8, today.Hourly[0].Hour)
		assert.Equal(t, 60, today.Hourly[0].DataPoints)
		require.NotNil(t, today.Hourly[0].HeartRate)
		assert.Equal(t, 130.5, *today.Hourly[0].HeartRate.Avg)
		assert.Equal(t, 1, today.TotalHours)
	})
}
