package types

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind enumerates the alert conditions the classifier can produce.
type AlertKind string

const (
	AlertStorm       AlertKind = "storm"
	AlertFlood       AlertKind = "flood"
	AlertExtremeTemp AlertKind = "extreme_temperature"
	AlertFog         AlertKind = "fog"
	// AlertGoodWeather is the fallback sentinel emitted when no danger rule
	// fired, so a classified location never has an empty alert set.
	AlertGoodWeather AlertKind = "good_weather"
)

// AlertSeverity is the three-step severity scale.
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// Alert is one derived alert record. The whole set for a location is
// replaced atomically on every classification.
type Alert struct {
	ID             uuid.UUID     `json:"id"`
	LocationID     uuid.UUID     `json:"-"`
	Location       *Location     `json:"location,omitempty"`
	Kind           AlertKind     `json:"alert_type"`
	Message        string        `json:"message"`
	Severity       AlertSeverity `json:"severity"`
	Recommendation string        `json:"recommendation"`
	IssuedAt       time.Time     `json:"issued_at"`
}
