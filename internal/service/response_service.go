package service

import "time"

// GoalParams is the charging request as received from the transport layer.
type GoalParams struct {
	TargetLevel float64 // percent [0, 100]
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "GOAL_ACCEPTED", "GOAL_REJECTED", "CHARGE_COMPLETE", "CHARGE_CANCELLED"
}
