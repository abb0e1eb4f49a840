package event

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidTime    = errors.New("invalid event time")
	ErrEmptyType      = errors.New("event type is empty")
	ErrStoreCorrupted = errors.New("event store is corrupted")
)

// Record is an event exactly as it is kept in the store. Time stays in its
// original ISO-8601 text so that rewriting the store never alters it.
type Record struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// Event is a Record whose time has been parsed.
type Event struct {
	ID    int64
	Type  string
	Icon  string
	Time  time.Time
	Notes string
}

// Validate reports the first required field that is absent.
func (r Record) Validate() error {
	switch {
	case r.ID == 0:
		return &FieldError{Field: "id"}
	case strings.TrimSpace(r.Type) == "":
		return &FieldError{Field: "type"}
	case r.Icon == "":
		return &FieldError{Field: "icon"}
	case r.Time == "":
		return &FieldError{Field: "time"}
	}
	return nil
}

// Parse converts the record into an Event. Times without an explicit offset
// are read in loc.
func (r Record) Parse(loc *time.Location) (Event, error) {
	if strings.TrimSpace(r.Type) == "" {
		return Event{}, ErrEmptyType
	}
	t, err := ParseTime(r.Time, loc)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:    r.ID,
		Type:  r.Type,
		Icon:  r.Icon,
		Time:  t,
		Notes: r.Notes,
	}, nil
}

func (e Event) ToRecord() Record {
	return Record{
		ID:    e.ID,
		Type:  e.Type,
		Icon:  e.Icon,
		Time:  FormatTime(e.Time),
		Notes: e.Notes,
	}
}

type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return ErrMissingField.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime accepts RFC 3339 timestamps as produced by Date.toISOString and
// the offset-less datetime-local forms.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// FormatTime renders t the way browsers serialise dates: UTC with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
