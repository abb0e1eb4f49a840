package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/babylog/babylog/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type saveEventRequest struct {
	ID    *int64  `json:"id"`
	Type  *string `json:"type"`
	Icon  *string `json:"icon"`
	Time  *string `json:"time"`
	Notes *string `json:"notes"`
}

type deleteEventRequest struct {
	ID *int64 `json:"id"`
}

type EventDTO struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Time  string `json:"time"`
	Notes string `json:"notes,omitempty"`
}

type EventHandler struct {
	eventService EventService
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService}
}

// GetEvents returns the whole store, most recent first.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	records, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read events", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, records)
}

// SaveEvent creates the event or replaces the stored one with the same id.
func (h *EventHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	var req saveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("invalid event payload: %v", err)
		rest.WriteError(w, http.StatusBadRequest, "Invalid JSON data", "")
		return
	}
	for _, field := range []struct {
		name    string
		present bool
	}{
		{"id", req.ID != nil},
		{"type", req.Type != nil},
		{"icon", req.Icon != nil},
		{"time", req.Time != nil},
	} {
		if !field.present {
			rest.WriteError(w, http.StatusBadRequest, "Missing required field: "+field.name, "")
			return
		}
	}

	record := Record{ID: *req.ID, Type: *req.Type, Icon: *req.Icon, Time: *req.Time}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if _, err := h.eventService.SaveEvent(r.Context(), record); err != nil {
		var fieldErr *FieldError
		switch {
		case errors.As(err, &fieldErr):
			rest.WriteError(w, http.StatusBadRequest, "Missing required field: "+fieldErr.Field, "")
		case errors.Is(err, ErrInvalidTime):
			rest.WriteError(w, http.StatusBadRequest, "Invalid event time", "time must be an ISO-8601 timestamp")
		default:
			rest.WriteError(w, http.StatusInternalServerError, "Failed to save event", err.Error())
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.SuccessResponse{Success: true, Message: "Event saved successfully"})
}

// DeleteEvent removes the event whose id is given in the JSON body.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var req deleteEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == nil {
		rest.WriteError(w, http.StatusBadRequest, "Missing event id", "")
		return
	}
	h.deleteEvent(w, r, *req.ID)
}

// DeleteEventById removes the event addressed by the {id} path segment.
func (h *EventHandler) DeleteEventById(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Missing event id", "id must be an integer")
		return
	}
	h.deleteEvent(w, r, id)
}

func (h *EventHandler) deleteEvent(w http.ResponseWriter, r *http.Request, id int64) {
	err := h.eventService.DeleteEvent(r.Context(), id)
	if errors.Is(err, ErrEventNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
		return
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to save events file", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.SuccessResponse{Success: true, Message: "Event deleted"})
}

func (h *EventHandler) GetMilestones(w http.ResponseWriter, r *http.Request) {
	limit := DefaultMilestonesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	milestones, err := h.eventService.Milestones(r.Context(), limit)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read events", err.Error())
		return
	}
	result := make([]EventDTO, 0, len(milestones))
	for _, m := range milestones {
		result = append(result, eventToDTO(m))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func (h *EventHandler) GetIcons(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"icons":   Icons,
		"default": DefaultIcon,
	})
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		ID:    e.ID,
		Type:  e.Type,
		Icon:  e.Icon,
		Time:  e.Time.Format(time.RFC3339),
		Notes: e.Notes,
	}
}
