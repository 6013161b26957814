package event

import (
	"time"

	"github.com/google/uuid"
)

const AlertQueueName = "poultry_alert_events"

// ScanAlertEvent is published when a completed scan detects disease at high
// or critical risk. Downstream consumers fan it out as farmer notifications.
type ScanAlertEvent struct {
	ScanID     uuid.UUID  `json:"scan_id"`
	UserID     uuid.UUID  `json:"user_id"`
	FarmID     *uuid.UUID `json:"farm_id,omitempty"`
	Prediction string     `json:"prediction"`
	RiskLevel  string     `json:"risk_level"`
	Confidence float64    `json:"confidence"`
	OccurredAt time.Time  `json:"occurred_at"`
}
