package vitals

type Status string

const (
	StatusGreen Status = "green"
	StatusRed   Status = "red"
	StatusGray  Status = "gray"
)

const (
	HeartRateLow  = 60.0
	HeartRateHigh = 160.0
	OxygenLow     = 95.0
	OxygenHigh    = 100.0
)

// Classify marks a value inside [low, high] green and outside red. Missing
// values are gray.
func Classify(value *float64, low, high float64) Status {
	if value == nil {
		return StatusGray
	}
	if *value < low || *value > high {
		return StatusRed
	}
	return StatusGreen
}

type ReadingStatus struct {
	HeartRate        Status `json:"heart_rate"`
	OxygenSaturation Status `json:"oxygen_saturation"`
	SleepState       string `json:"sleep_state"`
}

func StatusOf(r Reading) ReadingStatus {
	return ReadingStatus{
		HeartRate:        Classify(r.HeartRate, HeartRateLow, HeartRateHigh),
		OxygenSaturation: Classify(r.OxygenSaturation, OxygenLow, OxygenHigh),
		SleepState:       SleepStateLabel(r.SleepState),
	}
}

func SleepStateLabel(state *int) string {
	if state == nil {
		return "Unknown"
	}
	switch *state {
	case 2:
		return "Asleep"
	case 8:
		return "Light Sleep"
	case 1:
		return "Awake"
	case 0:
		return "Detecting..."
	default:
		return "Unknown"
	}
}
