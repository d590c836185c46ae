package charging_station

import "time"

// Charger statuses.
const (
	StatusIdle      = "IDLE"
	StatusCharging  = "CHARGING"
	StatusSucceeded = "SUCCEEDED"
	StatusCancelled = "CANCELLED"
)

// Event types stored in the charge log.
const (
	EventGoalAccepted    = "GOAL_ACCEPTED"
	EventGoalRejected    = "GOAL_REJECTED"
	EventChargeComplete  = "CHARGE_COMPLETE"
	EventChargeCancelled = "CHARGE_CANCELLED"
)

// ChargeState is the current snapshot of the charging station.
type ChargeState struct {
	ID           int       `json:"id"`
	Status       string    `json:"status"`                 // IDLE | CHARGING | SUCCEEDED | CANCELLED
	CurrentLevel float64   `json:"current_level"`          // percent [0, 100]
	TargetLevel  float64   `json:"target_level,omitempty"` // percent, set while a goal is active
	Rate         float64   `json:"rate"`                   // percent per second
	GoalID       string    `json:"goal_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChargeGoal is an accepted charging request.
type ChargeGoal struct {
	ID          string    `json:"id"`
	TargetLevel float64   `json:"target_level"` // percent [0, 100]
	SubmittedAt time.Time `json:"submitted_at"`
}

// ChargeFeedback is one progress update emitted while a goal executes.
type ChargeFeedback struct {
	GoalID       string  `json:"goal_id"`
	CurrentLevel int     `json:"current_level"` // percent, truncated
	EtaSeconds   float64 `json:"eta_seconds"`
	Rate         float64 `json:"rate"`
}

// ChargeResult is the terminal outcome of a goal, produced exactly once.
type ChargeResult struct {
	GoalID         string  `json:"goal_id"`
	Success        bool    `json:"success"`
	FinalLevel     int     `json:"final_level"` // percent, truncated
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ChargeEvent is a single log entry.
type ChargeEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // GOAL_ACCEPTED | GOAL_REJECTED | CHARGE_COMPLETE | CHARGE_CANCELLED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
