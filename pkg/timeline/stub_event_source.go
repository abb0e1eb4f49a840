package timeline

import (
	"context"
	"time"

	"github.com/babylog/babylog/pkg/event"
)

// StubEventSource serves a fixed event list, honouring the requested range.
type StubEventSource struct {
	Events []event.Event
	Err    error
}

func (s *StubEventSource) EventsBetween(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]event.Event, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Time.Before(from) || e.Time.After(to) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
