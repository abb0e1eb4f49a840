package app

import (
	"time"

	"github.com/babylog/babylog/internal/config"
	"github.com/babylog/babylog/internal/event_bus"
	"github.com/babylog/babylog/internal/utils"
	"github.com/babylog/babylog/pkg/calendar"
	"github.com/babylog/babylog/pkg/event"
	"github.com/babylog/babylog/pkg/sleep_detector"
	"github.com/babylog/babylog/pkg/stats"
	"github.com/babylog/babylog/pkg/timeline"
	"github.com/babylog/babylog/pkg/vitals"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	Location *time.Location
	EventBus *event_bus.EventBus

	EventRepo    event.EventRepository
	EventService *event.EventServiceImpl
	EventHandler *event.EventHandler

	TimelineService *timeline.TimelineServiceImpl
	TimelineHandler *timeline.TimelineHandler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	VitalsPaths   vitals.Paths
	VitalsSource  *vitals.FileSource
	AlertSessions *vitals.AlertSessions
	VitalsHandler *vitals.VitalsHandler
	Summarizer    *vitals.Summarizer

	SleepDetector *sleep_detector.Detector

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, clock utils.Clock) (*Dependencies, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Clock:    clock,
		Location: location,
		EventBus: event_bus.NewEventBus(),
	}

	deps.EventRepo = event.NewFileEventRepository(cfg.Storage.EventsFile)
	deps.EventService = event.NewEventService(deps.EventRepo, deps.EventBus, location)
	deps.EventHandler = event.NewEventHandler(deps.EventService)

	deps.TimelineService = timeline.NewTimelineService(deps.EventService, location, clock)
	deps.TimelineHandler = timeline.NewTimelineHandler(deps.TimelineService)

	deps.StatsService = stats.NewStatsServiceImpl(deps.EventService, location)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer, location, clock)

	v := cfg.Vitals
	deps.VitalsPaths = vitals.NewPaths(v.Dir, v.LatestFile, v.HistoryFile, v.LegacyFile, v.SummariesDir, v.TodaysHourlyFile)
	deps.VitalsSource = vitals.NewFileSource(deps.VitalsPaths, location, clock, v.Watch)
	deps.AlertSessions = vitals.NewAlertSessions(clock)
	deps.VitalsHandler = vitals.NewVitalsHandler(deps.VitalsSource, deps.AlertSessions, v.HistoryLimit, v.SummariesLimit)
	deps.Summarizer = vitals.NewSummarizer(deps.VitalsSource, deps.VitalsPaths, location, clock)

	deps.SleepDetector = sleep_detector.NewDetector(deps.EventService, clock, location)

	deps.CalendarService = calendar.NewService(deps.TimelineService, clock)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	return deps, nil
}
