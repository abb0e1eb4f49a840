package calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/babylog/babylog/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	calendar *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

// GetCalendar serves the feed; ?days=N selects how many days back to include.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	days := DefaultDays
	if value := r.URL.Query().Get("days"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid days parameter", "'days' must be a number")
			return
		}
		days = parsed
	}

	body, err := h.calendar.Export(r.Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidDays) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid days parameter", err.Error())
			return
		}
		log.Errorf("failed to export calendar: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to export calendar", "")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="babylog.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar: %v", err)
	}
}
