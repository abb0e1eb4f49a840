package app

import (
	"github.com/babylog/babylog/internal/config"
	"github.com/babylog/babylog/internal/rest"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.PathPrefix("/").HandlerFunc(preflight).Methods("OPTIONS")

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.SaveEvent).Methods("POST")
	r.HandleFunc("/api/events", deps.EventHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/events/milestones", deps.EventHandler.GetMilestones).Methods("GET")
	r.HandleFunc("/api/events/{id:[0-9]+}", deps.EventHandler.DeleteEventById).Methods("DELETE")
	r.HandleFunc("/api/icons", deps.EventHandler.GetIcons).Methods("GET")

	// Timeline and stats
	r.HandleFunc("/api/timeline", deps.TimelineHandler.GetDay).Methods("GET")
	r.HandleFunc("/api/stats/daily", deps.StatsHandler.GetDailyStats).Methods("GET")

	// Vitals
	r.HandleFunc("/api/vitals", deps.VitalsHandler.GetHistory).Methods("GET")
	r.HandleFunc("/api/vitals/latest", deps.VitalsHandler.GetLatest).Methods("GET")
	r.HandleFunc("/api/vitals/summaries", deps.VitalsHandler.GetSummaries).Methods("GET")
	r.HandleFunc("/api/vitals/hourly", deps.VitalsHandler.GetTodaysHourly).Methods("GET")
	r.HandleFunc("/api/vitals/alerts", deps.VitalsHandler.GetAlerts).Methods("GET")

	// Calendar feed
	r.HandleFunc("/api/calendar.ics", deps.CalendarHandler.GetCalendar).Methods("GET")

	// Query flag routes kept for clients of the single-script API
	legacy := "/api/events.php"
	r.HandleFunc(legacy, deps.VitalsHandler.GetLatest).Queries("latest", "true").Methods("GET")
	r.HandleFunc(legacy, deps.VitalsHandler.GetHistory).Queries("vitals", "true").Methods("GET")
	r.HandleFunc(legacy, deps.VitalsHandler.GetSummaries).Queries("summaries", "true").Methods("GET")
	r.HandleFunc(legacy, deps.VitalsHandler.GetTodaysHourly).Queries("todays_hourly", "true").Methods("GET")
	r.HandleFunc(legacy, deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc(legacy, deps.EventHandler.SaveEvent).Methods("POST")
	r.HandleFunc(legacy, deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Frontend
	if cfg.Frontend.Enabled {
		r.PathPrefix("/").Handler(rest.NewFrontendHandler(cfg.Frontend.Dir, "index.html"))
	}
}
