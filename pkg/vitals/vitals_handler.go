package vitals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/babylog/babylog/internal/rest"
	log "github.com/sirupsen/logrus"
)

const (
	SessionHeader    = "X-Session-Id"
	defaultSessionID = "default"
)

type LatestResponse struct {
	Reading Reading       `json:"reading"`
	Status  ReadingStatus `json:"status"`
	Alerts  []Alert       `json:"alerts"`
}

type HistoryResponse struct {
	Vitals        []Reading `json:"vitals"`
	LastUpdate    *string   `json:"last_update"`
	LatestReading *Reading  `json:"latest_reading"`
}

type emptyHistoryResponse struct {
	Vitals     []Reading `json:"vitals"`
	LastUpdate *string   `json:"last_update"`
}

type SummariesResponse struct {
	Summaries  []Summary `json:"summaries"`
	TotalDays  int       `json:"total_days"`
	LastUpdate *string   `json:"last_update"`
}

type AlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

type VitalsHandler struct {
	source         Source
	sessions       *AlertSessions
	historyLimit   int
	summariesLimit int
}

func NewVitalsHandler(source Source, sessions *AlertSessions, historyLimit, summariesLimit int) *VitalsHandler {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if summariesLimit <= 0 {
		summariesLimit = DefaultSummariesLimit
	}
	return &VitalsHandler{source, sessions, historyLimit, summariesLimit}
}

func (h *VitalsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	reading, err := h.source.Latest()
	if err != nil {
		switch {
		case errors.Is(err, ErrNoData):
			rest.WriteError(w, http.StatusNotFound, "No real-time data available", "")
		case errors.Is(err, ErrInvalidData):
			rest.WriteError(w, http.StatusNotFound, "Invalid real-time data", "")
		default:
			log.Errorf("failed to read latest vitals: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, "Failed to read latest data", "")
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, LatestResponse{
		Reading: reading,
		Status:  StatusOf(reading),
		Alerts:  ActiveAlerts(reading),
	})
}

func (h *VitalsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, found, err := h.source.History()
	if err != nil {
		log.Errorf("failed to read vitals history: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read vitals file", "")
		return
	}
	if !found {
		rest.WriteJSON(w, http.StatusOK, emptyHistoryResponse{Vitals: []Reading{}})
		return
	}

	var latest *Reading
	if reading, err := h.source.Latest(); err == nil {
		latest = &reading
		if len(history) == 0 {
			history = []Reading{reading}
		}
	}

	limit := queryLimit(r, h.historyLimit)
	if len(history) > limit {
		history = history[:limit]
	}

	response := HistoryResponse{Vitals: history, LatestReading: latest}
	if len(history) > 0 {
		response.LastUpdate = &history[0].Timestamp
		if latest == nil {
			response.LatestReading = &history[0]
		}
	}
	rest.WriteJSON(w, http.StatusOK, response)
}

func (h *VitalsHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.source.Summaries(queryLimit(r, h.summariesLimit))
	if err != nil {
		log.Errorf("failed to read vitals summaries: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read summaries", "")
		return
	}
	response := SummariesResponse{Summaries: summaries, TotalDays: len(summaries)}
	if len(summaries) > 0 {
		response.LastUpdate = summaries[0].UpdatedAt()
	}
	rest.WriteJSON(w, http.StatusOK, response)
}

func (h *VitalsHandler) GetTodaysHourly(w http.ResponseWriter, r *http.Request) {
	today, err := h.source.TodaysHourly()
	if err != nil {
		log.Errorf("failed to read today's hourly vitals: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read today's hourly data", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, today)
}

// GetAlerts returns the alerts of the latest reading that are due for the
// caller's session, honouring per-alert cooldowns.
func (h *VitalsHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	reading, err := h.source.Latest()
	if err != nil {
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrInvalidData) {
			rest.WriteJSON(w, http.StatusOK, AlertsResponse{Alerts: []Alert{}})
			return
		}
		log.Errorf("failed to read latest vitals: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read latest data", "")
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	rest.WriteJSON(w, http.StatusOK, AlertsResponse{Alerts: h.sessions.Due(sessionID, reading)})
}

func queryLimit(r *http.Request, fallback int) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return fallback
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
