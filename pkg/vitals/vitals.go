package vitals

import (
	"bytes"
	"errors"
	"path/filepath"
	"time"
)

var (
	ErrNoData      = errors.New("no vitals data available")
	ErrInvalidData = errors.New("invalid vitals data")
)

// SleepStateAsleep is the monitor's sleep_state value for deep sleep.
const SleepStateAsleep = 2

// Reading is one sensor snapshot as written by the sync agent. Every sensor
// field is nullable; the sock omits values it could not measure.
type Reading struct {
	Timestamp         string   `json:"timestamp"`
	HeartRate         *float64 `json:"heart_rate"`
	OxygenSaturation  *float64 `json:"oxygen_saturation"`
	Oxygen10Avg       *float64 `json:"oxygen_10_av"`
	Movement          *float64 `json:"movement"`
	BatteryPercentage *float64 `json:"battery_percentage"`
	BatteryMinutes    *float64 `json:"battery_minutes"`
	SignalStrength    *float64 `json:"signal_strength"`
	SkinTemperature   *float64 `json:"skin_temperature"`
	SleepState        *int     `json:"sleep_state"`
	SockConnected     Flag     `json:"sock_connected"`
	SockOn            Flag     `json:"sock_on"`
	LowBattery        Flag     `json:"low_battery"`
	HighHeartRate     Flag     `json:"high_heart_rate"`
	LowOxygen         Flag     `json:"low_oxygen"`
}

// Time parses the reading timestamp. A trailing Z and numeric offsets are
// both accepted.
func (r Reading) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.Timestamp)
}

// Asleep reports whether the reading carries the deep sleep state. The second
// result is false when the reading has no sleep state at all.
func (r Reading) Asleep() (asleep bool, known bool) {
	if r.SleepState == nil {
		return false, false
	}
	return *r.SleepState == SleepStateAsleep, true
}

// Flag is a tri-state boolean. Only JSON true and false set it; null, absent
// and non-boolean values leave it unknown.
type Flag struct {
	Value bool
	Valid bool
}

func (f Flag) IsTrue() bool  { return f.Valid && f.Value }
func (f Flag) IsFalse() bool { return f.Valid && !f.Value }

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	if f.Value {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*f = Flag{Value: true, Valid: true}
	case "false":
		*f = Flag{Value: false, Valid: true}
	default:
		*f = Flag{}
	}
	return nil
}

// Stat holds the avg/min/max of one metric. All three are null when the
// bucket had readings but none carried the metric.
type Stat struct {
	Avg *float64 `json:"avg"`
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Metrics aggregates a set of readings. Empty buckets carry only the count.
type Metrics struct {
	DataPoints       int   `json:"data_points"`
	HeartRate        *Stat `json:"heart_rate,omitempty"`
	OxygenSaturation *Stat `json:"oxygen_saturation,omitempty"`
	SkinTemperature  *Stat `json:"skin_temperature,omitempty"`
}

type HourlyMetrics struct {
	Metrics
	Hour int `json:"hour"`
}

// Summary is either a daily summary file or today's hourly rollup; the
// summaries listing mixes both shapes.
type Summary struct {
	Date            string          `json:"date"`
	TotalDataPoints int             `json:"total_data_points,omitempty"`
	FirstTimestamp  string          `json:"first_timestamp,omitempty"`
	LastTimestamp   string          `json:"last_timestamp,omitempty"`
	LastUpdate      *string         `json:"last_update,omitempty"`
	TotalHours      *int            `json:"total_hours,omitempty"`
	Daily           *Metrics        `json:"daily,omitempty"`
	Hourly          []HourlyMetrics `json:"hourly"`
}

// UpdatedAt is last_update, falling back to last_timestamp.
func (s Summary) UpdatedAt() *string {
	if s.LastUpdate != nil {
		return s.LastUpdate
	}
	if s.LastTimestamp != "" {
		ts := s.LastTimestamp
		return &ts
	}
	return nil
}

// TodaysHourly is the rolling rollup of the current day.
type TodaysHourly struct {
	Date       string          `json:"date"`
	Hourly     []HourlyMetrics `json:"hourly"`
	TotalHours int             `json:"total_hours"`
	LastUpdate *string         `json:"last_update"`
}

func (t TodaysHourly) ToSummary() Summary {
	hours := t.TotalHours
	return Summary{
		Date:       t.Date,
		LastUpdate: t.LastUpdate,
		TotalHours: &hours,
		Hourly:     t.Hourly,
	}
}

// Paths locates the files produced by the sync agent.
type Paths struct {
	Latest       string
	History      string
	Legacy       string
	SummariesDir string
	TodaysHourly string
}

func NewPaths(dir, latest, history, legacy, summariesDir, todaysHourly string) Paths {
	return Paths{
		Latest:       filepath.Join(dir, latest),
		History:      filepath.Join(dir, history),
		Legacy:       filepath.Join(dir, legacy),
		SummariesDir: filepath.Join(dir, summariesDir),
		TodaysHourly: filepath.Join(dir, todaysHourly),
	}
}

// SummaryFile is the daily summary path for the given calendar date.
func (p Paths) SummaryFile(date time.Time) string {
	return filepath.Join(p.SummariesDir, "owlet_summary_"+date.Format(time.DateOnly)+".json")
}
