package timeline

import (
	"slices"
	"strings"

	"github.com/babylog/babylog/pkg/event"
)

// Build pairs the events of one day into timeline entries.
//
// Events are visited in ascending time order. A "<X> Start" is matched with
// the first later, still unused "<X> End" whose time is strictly after it;
// unmatched starts and stray ends become instants. Every input event ends up
// in exactly one entry. The result is ordered by entry time.
func Build(events []event.Event) []Entry {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b event.Event) int {
		return a.Time.Compare(b.Time)
	})

	used := make([]bool, len(sorted))
	entries := make([]Entry, 0, len(sorted))

	for i, ev := range sorted {
		if used[i] {
			continue
		}
		used[i] = true

		switch {
		case strings.HasSuffix(ev.Type, startSuffix):
			base := strings.TrimSuffix(ev.Type, startSuffix)
			if j := findEnd(sorted, used, i, base+endSuffix); j >= 0 {
				used[j] = true
				entries = append(entries, newDuration(base, ev, sorted[j]))
			} else {
				entries = append(entries, newInstant(ev, strings.ToLower(base)))
			}
		case strings.HasSuffix(ev.Type, endSuffix):
			entries = append(entries, newInstant(ev, strings.ToLower(strings.TrimSuffix(ev.Type, endSuffix))))
		default:
			entries = append(entries, newInstant(ev, Category(ev.Type)))
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Time().Compare(b.Time())
	})
	return entries
}

func findEnd(sorted []event.Event, used []bool, startIdx int, endType string) int {
	start := sorted[startIdx]
	for j := startIdx + 1; j < len(sorted); j++ {
		if used[j] || sorted[j].Type != endType {
			continue
		}
		if sorted[j].Time.After(start.Time) {
			return j
		}
	}
	return -1
}

func newDuration(base string, start, end event.Event) Entry {
	notes := start.Notes
	if notes == "" {
		notes = end.Notes
	}
	return Entry{
		Kind:     KindDuration,
		Category: strings.ToLower(base),
		Start:    start.Time,
		End:      end.Time,
		Icon:     start.Icon,
		Title:    base,
		Notes:    notes,
		EventIDs: []int64{start.ID, end.ID},
	}
}

func newInstant(ev event.Event, category string) Entry {
	return Entry{
		Kind:     KindInstant,
		Category: category,
		Start:    ev.Time,
		Icon:     ev.Icon,
		Title:    ev.Type,
		Notes:    ev.Notes,
		EventIDs: []int64{ev.ID},
	}
}
