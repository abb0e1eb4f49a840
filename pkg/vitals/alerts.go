package vitals

import (
	"sync"
	"time"

	"github.com/babylog/babylog/internal/utils"
)

type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
)

const (
	AlertLowOxygen        = "low_oxygen"
	AlertHighHeartRate    = "high_hr"
	AlertLowBattery       = "low_battery"
	AlertSockDisconnected = "sock_disconnected"
)

// sessionIdleTimeout bounds how long an unused session keeps its cooldowns.
const sessionIdleTimeout = time.Hour

type Alert struct {
	Key      string        `json:"key"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Sound    bool          `json:"sound"`
	Cooldown time.Duration `json:"-"`
}

type alertRule struct {
	alert     Alert
	triggered func(Reading) bool
}

var alertRules = []alertRule{
	{
		alert:     Alert{Key: AlertLowOxygen, Message: "⚠️ Low Oxygen Alert!", Severity: SeverityDanger, Sound: true, Cooldown: 30 * time.Second},
		triggered: func(r Reading) bool { return r.LowOxygen.IsTrue() },
	},
	{
		alert:     Alert{Key: AlertHighHeartRate, Message: "⚠️ High Heart Rate Alert!", Severity: SeverityDanger, Sound: true, Cooldown: 30 * time.Second},
		triggered: func(r Reading) bool { return r.HighHeartRate.IsTrue() },
	},
	{
		alert:     Alert{Key: AlertLowBattery, Message: "🔋 Low Battery on Sock", Severity: SeverityWarning, Cooldown: 60 * time.Second},
		triggered: func(r Reading) bool { return r.LowBattery.IsTrue() },
	},
	{
		alert:     Alert{Key: AlertSockDisconnected, Message: "❌ Sock Disconnected!", Severity: SeverityDanger, Cooldown: 60 * time.Second},
		triggered: func(r Reading) bool { return r.SockConnected.IsFalse() },
	},
}

// ActiveAlerts lists every alert condition raised by the reading, ignoring
// cooldowns.
func ActiveAlerts(r Reading) []Alert {
	alerts := make([]Alert, 0, len(alertRules))
	for _, rule := range alertRules {
		if rule.triggered(r) {
			alerts = append(alerts, rule.alert)
		}
	}
	return alerts
}

// AlertTracker remembers when each alert was last raised for one viewer so
// that a repeated condition is reported again only after its cooldown.
type AlertTracker struct {
	lastFired map[string]time.Time
}

func NewAlertTracker() *AlertTracker {
	return &AlertTracker{lastFired: make(map[string]time.Time)}
}

// Due returns the active alerts whose cooldown has strictly elapsed at now and
// marks them as fired.
func (t *AlertTracker) Due(r Reading, now time.Time) []Alert {
	due := make([]Alert, 0)
	for _, alert := range ActiveAlerts(r) {
		last, seen := t.lastFired[alert.Key]
		if seen && now.Sub(last) <= alert.Cooldown {
			continue
		}
		t.lastFired[alert.Key] = now
		due = append(due, alert)
	}
	return due
}

type session struct {
	tracker  *AlertTracker
	lastSeen time.Time
}

// AlertSessions keys trackers by viewer session id.
type AlertSessions struct {
	mu       sync.Mutex
	clock    utils.Clock
	sessions map[string]*session
}

func NewAlertSessions(clock utils.Clock) *AlertSessions {
	return &AlertSessions{
		clock:    clock,
		sessions: make(map[string]*session),
	}
}

func (s *AlertSessions) Due(sessionID string, r Reading) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionIdleTimeout {
			delete(s.sessions, id)
		}
	}

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{tracker: NewAlertTracker()}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return sess.tracker.Due(r, now)
}

func (s *AlertSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
