package event_bus

const (
	EventSaved           EventType = "event.saved"
	EventDeleted         EventType = "event.deleted"
	LatestReadingUpdated EventType = "vitals.latest_updated"
)

// EventSavedPayload carries the stored record after an upsert.
type EventSavedPayload struct {
	ID      int64
	Type    string
	Icon    string
	Time    string
	Notes   string
	Created bool
}

type EventDeletedPayload struct {
	ID int64
}

// LatestReadingPayload is published when the latest vitals snapshot changed on disk.
// SleepState is nil when the snapshot did not carry one.
type LatestReadingPayload struct {
	Timestamp  string
	SleepState *int
}
