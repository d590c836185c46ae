package service

import (
	"context"
	"time"

	"charging_station"
	"charging_station/internal/logger"
	"charging_station/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Charger exposes the goal lifecycle: submission, cancellation and the last
// terminal result. Execution runs on its own goroutine per accepted goal.
type Charger interface {
	SubmitGoal(ctx context.Context, p GoalParams) (charging_station.ChargeGoal, error)
	Cancel(ctx context.Context) error
	LastResult() (charging_station.ChargeResult, bool)
	Reset(ctx context.Context) error
}

// Monitoring exposes read-only state (level, status, active goal).
type Monitoring interface {
	GetState(ctx context.Context) (charging_station.ChargeState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]charging_station.ChargeEvent, error)
}

// Feed exposes the live progress stream consumed by websocket clients.
type Feed interface {
	Subscribe() (<-chan FeedUpdate, func())
}

// Config carries the charger's fixed runtime configuration.
type Config struct {
	Rate         float64       // percent per second; must be > 0
	InitialLevel float64       // percent the station boots at
	Tick         time.Duration // progress loop interval; DefaultTick when zero
	SigningKey   string        // JWT signing key
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Charger
	Monitoring
	EventLog
	Feed
	Authorization
}

// NewService wires the repository layer into concrete services. The context
// bounds the lifetime of goal execution goroutines (graceful shutdown).
func NewService(ctx context.Context, repos *repository.Repository, log *logger.Logger, cfg Config) *Service {
	feed := NewFeedHub()
	return &Service{
		Charger:       NewChargerService(ctx, repos.StateRepo, repos.EventRepo, feed, log, cfg),
		Monitoring:    NewMonitoringService(repos.StateRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Feed:          feed,
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey),
	}
}
