package event

const DefaultIcon = "📝"

const (
	TypeMilestone  = "Milestone"
	TypeSleepStart = "Sleep Start"
	TypeSleepEnd   = "Sleep End"
)

// Icons maps the event types offered by the client to their glyphs. The set of
// types is open; anything else falls back to DefaultIcon.
var Icons = map[string]string{
	"Feed":        "🍼",
	"Sleep":       "😴",
	"Diaper":      "🩱",
	"Medicine":    "💊",
	"Bath":        "🛁",
	"Doctor":      "👨‍⚕️",
	"Milestone":   "⭐",
	"Other":       "📝",
	"Feed Start":  "🍼",
	"Feed End":    "🍼",
	"Sleep Start": "😴",
	"Sleep End":   "😴",
}

func IconFor(eventType string) string {
	if icon, ok := Icons[eventType]; ok {
		return icon
	}
	return DefaultIcon
}
