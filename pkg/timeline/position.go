package timeline

import "time"

const secondsPerDay = 24 * 60 * 60

// DayBounds returns the first and last millisecond of the local calendar day
// that date falls on in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// DayPercentage maps the wall-clock time of t in loc onto [0, 100).
func DayPercentage(t time.Time, loc *time.Location) float64 {
	lt := t.In(loc)
	millis := lt.Nanosecond() / int(time.Millisecond)
	seconds := float64(lt.Hour()*3600+lt.Minute()*60+lt.Second()) + float64(millis)/1000
	return seconds / secondsPerDay * 100
}
