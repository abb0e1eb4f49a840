package stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/babylog/babylog/internal/rest"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/timeline"
)

const defaultRangeDays = 7

type DailyStatsDTO struct {
	Date   string            `json:"date"`
	Totals timeline.StatsDTO `json:"totals"`
}

type AveragesDTO struct {
	SleepMinutes float64 `json:"sleepMinutes"`
	FeedMinutes  float64 `json:"feedMinutes"`
	Diapers      float64 `json:"diapers"`
	Events       float64 `json:"events"`
}

type StatsSummaryDTO struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Days      []DailyStatsDTO   `json:"days"`
	Total     timeline.StatsDTO `json:"total"`
	Average   AveragesDTO       `json:"average"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
	location         *time.Location
	clock            utils.Clock
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer, location *time.Location, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer, location, clock}
}

// GetDailyStats godoc
// @Summary Daily totals over a date range
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Produce json,text/csv
// @Router /api/stats/daily [get]
func (handler *StatsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	toDate := utils.StartOfDay(handler.clock.Now(), handler.location)
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := utils.ParseDate(raw, handler.location)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to date format", "to must be in YYYY-MM-DD format")
			return
		}
		toDate = parsed
	}
	fromDate := toDate.AddDate(0, 0, -(defaultRangeDays - 1))
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := utils.ParseDate(raw, handler.location)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from date format", "from must be in YYYY-MM-DD format")
			return
		}
		fromDate = parsed
	}

	stats, err := handler.statsService.GetDailyStats(r.Context(), fromDate, toDate)
	if err != nil {
		if errors.Is(err, ErrRangeTooLarge) || errors.Is(err, ErrInvalidRange) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(stats)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(&stats))
}

func convertToJsonResponse(stats *StatsSummary) *StatsSummaryDTO {
	days := make([]DailyStatsDTO, 0, len(stats.Days))
	for _, day := range stats.Days {
		days = append(days, DailyStatsDTO{
			Date:   day.Date.Format(time.DateOnly),
			Totals: aggregateToDTO(day.Aggregate),
		})
	}
	return &StatsSummaryDTO{
		StartDate: stats.StartDate.Format(time.DateOnly),
		EndDate:   stats.EndDate.Format(time.DateOnly),
		Days:      days,
		Total:     aggregateToDTO(stats.Total),
		Average: AveragesDTO{
			SleepMinutes: stats.Average.SleepMinutes,
			FeedMinutes:  stats.Average.FeedMinutes,
			Diapers:      stats.Average.Diapers,
			Events:       stats.Average.Events,
		},
	}
}

func aggregateToDTO(a timeline.DailyAggregate) timeline.StatsDTO {
	return timeline.StatsDTO{
		TotalSleepMinutes: a.TotalSleepMinutes,
		TotalSleep:        timeline.FormatMinutes(a.TotalSleepMinutes),
		TotalFeedMinutes:  a.TotalFeedMinutes,
		TotalFeed:         timeline.FormatMinutes(a.TotalFeedMinutes),
		DiaperCount:       a.DiaperCount,
		TotalEventCount:   a.TotalEventCount,
	}
}
