package vitals

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
)

// AggregateDay folds readings (newest first, as in the history file) into a
// daily summary with 24 local-hour buckets. It reports false for no readings.
func AggregateDay(readings []Reading, loc *time.Location) (Summary, bool) {
	if len(readings) == 0 {
		return Summary{}, false
	}

	var buckets [24][]Reading
	for _, r := range readings {
		t, err := r.Time()
		if err != nil {
			log.Warnf("could not parse vital timestamp %q: %v", r.Timestamp, err)
			continue
		}
		hour := t.In(loc).Hour()
		buckets[hour] = append(buckets[hour], r)
	}

	hourly := make([]HourlyMetrics, 0, 24)
	for hour, bucket := range buckets {
		if len(bucket) == 0 {
			hourly = append(hourly, HourlyMetrics{Hour: hour})
			continue
		}
		hourly = append(hourly, HourlyMetrics{Metrics: aggregateMetrics(bucket), Hour: hour})
	}

	newest := readings[0]
	date := newest.Timestamp
	if t, err := newest.Time(); err == nil {
		date = t.In(loc).Format(time.DateOnly)
	} else if len(date) >= 10 {
		date = date[:10]
	}

	daily := aggregateMetrics(readings)
	return Summary{
		Date:            date,
		TotalDataPoints: len(readings),
		FirstTimestamp:  readings[len(readings)-1].Timestamp,
		LastTimestamp:   newest.Timestamp,
		Daily:           &daily,
		Hourly:          hourly,
	}, true
}

// ReadingsOfDay keeps the readings whose local date is day, preserving order.
func ReadingsOfDay(readings []Reading, day time.Time, loc *time.Location) []Reading {
	want := day.In(loc).Format(time.DateOnly)
	result := make([]Reading, 0)
	for _, r := range readings {
		t, err := r.Time()
		if err != nil {
			continue
		}
		if t.In(loc).Format(time.DateOnly) == want {
			result = append(result, r)
		}
	}
	return result
}

func aggregateMetrics(readings []Reading) Metrics {
	var heartRates, oxygen, temperatures []float64
	for _, r := range readings {
		if r.HeartRate != nil {
			heartRates = append(heartRates, *r.HeartRate)
		}
		if r.OxygenSaturation != nil {
			oxygen = append(oxygen, *r.OxygenSaturation)
		}
		if r.SkinTemperature != nil {
			temperatures = append(temperatures, *r.SkinTemperature)
		}
	}

	temperature := stat(temperatures, 2)
	if temperature.Min != nil {
		temperature.Min = ptr(round(*temperature.Min, 2))
		temperature.Max = ptr(round(*temperature.Max, 2))
	}
	return Metrics{
		DataPoints:       len(readings),
		HeartRate:        ptr(stat(heartRates, 1)),
		OxygenSaturation: ptr(stat(oxygen, 1)),
		SkinTemperature:  &temperature,
	}
}

// stat computes avg (rounded to decimals), min and max of values.
func stat(values []float64, decimals int) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	sum, lo, hi := 0.0, values[0], values[0]
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Stat{
		Avg: ptr(round(sum/float64(len(values)), decimals)),
		Min: ptr(lo),
		Max: ptr(hi),
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func ptr[T any](v T) *T {
	return &v
}
