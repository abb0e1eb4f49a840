package timeline

import (
	"net/http"
	"time"

	"github.com/babylog/babylog/internal/rest"
	"github.com/babylog/babylog/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Kind            Kind     `json:"kind"`
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Icon            string   `json:"icon"`
	Notes           string   `json:"notes,omitempty"`
	Time            string   `json:"time"`
	EndTime         string   `json:"endTime,omitempty"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	StartPercent    float64  `json:"startPercent"`
	EndPercent      *float64 `json:"endPercent,omitempty"`
	WidthPercent    *float64 `json:"widthPercent,omitempty"`
	EventIDs        []int64  `json:"eventIds"`
}

type StatsDTO struct {
	TotalSleepMinutes int    `json:"totalSleepMinutes"`
	TotalSleep        string `json:"totalSleep"`
	TotalFeedMinutes  int    `json:"totalFeedMinutes"`
	TotalFeed         string `json:"totalFeed"`
	DiaperCount       int    `json:"diaperCount"`
	TotalEventCount   int    `json:"totalEventCount"`
}

type DayEventDTO struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	Icon          string `json:"icon"`
	Time          string `json:"time"`
	Notes         string `json:"notes,omitempty"`
	FeedDuration  string `json:"feedDuration,omitempty"`
	SinceLastFeed string `json:"sinceLastFeed,omitempty"`
}

type DayTimelineDTO struct {
	Date    string        `json:"date"`
	Entries []EntryDTO    `json:"entries"`
	Stats   StatsDTO      `json:"stats"`
	Events  []DayEventDTO `json:"events"`
}

type TimelineHandler struct {
	timelineService TimelineService
}

func NewTimelineHandler(timelineService TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService}
}

// GetDay godoc
// @Summary Get the timeline of one day
// @Param date query string false "Day in YYYY-MM-DD, defaults to today"
// @Success 200 {object} DayTimelineDTO
// @Router /api/timeline [get]
func (h *TimelineHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	date := h.timelineService.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := utils.ParseDate(raw, h.timelineService.Location())
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}
	log.Tracef("Building timeline for %s", date.Format(time.DateOnly))

	day, err := h.timelineService.GetDay(r.Context(), date)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to build timeline", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, DayToDTO(day, h.timelineService.Location()))
}

func DayToDTO(day DayTimeline, loc *time.Location) DayTimelineDTO {
	entries := make([]EntryDTO, 0, len(day.Entries))
	for _, e := range day.Entries {
		entries = append(entries, entryToDTO(e, loc))
	}

	events := make([]DayEventDTO, 0, len(day.Events))
	for _, ev := range day.Events {
		dto := DayEventDTO{
			ID:    ev.ID,
			Type:  ev.Type,
			Icon:  ev.Icon,
			Time:  ev.Time.In(loc).Format(time.RFC3339),
			Notes: ev.Notes,
		}
		if d, ok := day.FeedIntervals.Durations[ev.ID]; ok && ev.Type == typeFeedEnd {
			dto.FeedDuration = FormatMinutes(FlooredMinutes(d))
		}
		if gap, ok := day.FeedIntervals.Gaps[ev.ID]; ok && ev.Type == typeFeedStart {
			dto.SinceLastFeed = FormatMinutes(FlooredMinutes(gap))
		}
		events = append(events, dto)
	}

	return DayTimelineDTO{
		Date:    day.Date.Format(time.DateOnly),
		Entries: entries,
		Stats:   statsToDTO(day.Stats),
		Events:  events,
	}
}

func entryToDTO(e Entry, loc *time.Location) EntryDTO {
	dto := EntryDTO{
		Kind:         e.Kind,
		Category:     e.Category,
		Title:        e.Title,
		Icon:         e.Icon,
		Notes:        e.Notes,
		Time:         e.Start.In(loc).Format(time.RFC3339),
		StartPercent: DayPercentage(e.Start, loc),
		EventIDs:     e.EventIDs,
	}
	if e.IsDuration() {
		end := DayPercentage(e.End, loc)
		width := end - dto.StartPercent
		dto.EndTime = e.End.In(loc).Format(time.RFC3339)
		dto.DurationMinutes = RoundedMinutes(e.Duration())
		dto.EndPercent = &end
		dto.WidthPercent = &width
	}
	return dto
}

func statsToDTO(s DailyAggregate) StatsDTO {
	return StatsDTO{
		TotalSleepMinutes: s.TotalSleepMinutes,
		TotalSleep:        FormatMinutes(s.TotalSleepMinutes),
		TotalFeedMinutes:  s.TotalFeedMinutes,
		TotalFeed:         FormatMinutes(s.TotalFeedMinutes),
		DiaperCount:       s.DiaperCount,
		TotalEventCount:   s.TotalEventCount,
	}
}
