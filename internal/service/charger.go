package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"charging_station"
	"charging_station/internal/logger"
	"charging_station/internal/repository"

	"github.com/google/uuid"
)

// DefaultTick is the fixed interval between progress steps. Config may
// override it (tests use millisecond ticks); it is never per-goal.
const DefaultTick = 500 * time.Millisecond

// Level bounds for a charge target, in percent.
const (
	MinTargetLevel = 0.0
	MaxTargetLevel = 100.0
)

// Admission and cancellation errors.
var (
	ErrInvalidTarget    = errors.New("invalid target: level must be within [0, 100]")
	ErrAlreadySatisfied = errors.New("already satisfied: current level meets or exceeds target")
	ErrGoalInProgress   = errors.New("a charging goal is already executing")
	ErrNoActiveGoal     = errors.New("no active charging goal")
)

// ChargerService owns the charge level and drives accepted goals to a
// terminal result. At most one goal executes at a time; the execution
// goroutine is the only writer of the level while a goal is active.
type ChargerService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	feed      *FeedHub
	log       *logger.Logger

	baseCtx context.Context // bounds execution goroutines; cancelled on shutdown
	rate    float64
	tick    time.Duration

	mu         sync.Mutex
	level      float64
	status     string
	goal       *charging_station.ChargeGoal
	lastResult *charging_station.ChargeResult

	cancelRequested atomic.Bool
}

func NewChargerService(ctx context.Context, stateRepo repository.StateRepo, eventRepo repository.EventRepo, feed *FeedHub, log *logger.Logger, cfg Config) *ChargerService {
	tick := cfg.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	return &ChargerService{
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		feed:      feed,
		log:       log,
		baseCtx:   ctx,
		rate:      cfg.Rate,
		tick:      tick,
		level:     cfg.InitialLevel,
		status:    charging_station.StatusIdle,
	}
}

// Reset reinitializes the persisted snapshot from configuration. Called once
// at startup: the charge level never survives a restart.
func (s *ChargerService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = charging_station.StatusIdle
	s.goal = nil
	return s.stateRepo.Save(ctx, s.snapshotLocked())
}

// SubmitGoal validates a charging request and, when accepted, starts the
// execution goroutine. Rejections leave the charge level untouched.
func (s *ChargerService) SubmitGoal(ctx context.Context, p GoalParams) (charging_station.ChargeGoal, error) {
	now := time.Now().UTC()

	if p.TargetLevel < MinTargetLevel || p.TargetLevel > MaxTargetLevel {
		s.logw("goal_rejected", "target", p.TargetLevel, "reason", "invalid target")
		s.appendEvent(ctx, charging_station.EventGoalRejected, "Goal rejected: target out of range", map[string]any{
			"target": p.TargetLevel,
			"reason": "invalid_target",
		})
		return charging_station.ChargeGoal{}, ErrInvalidTarget
	}

	s.mu.Lock()
	if s.status == charging_station.StatusCharging {
		s.mu.Unlock()
		return charging_station.ChargeGoal{}, ErrGoalInProgress
	}
	if s.level >= p.TargetLevel {
		level := s.level
		s.mu.Unlock()
		s.logw("goal_rejected", "target", p.TargetLevel, "level", level, "reason", "already satisfied")
		s.appendEvent(ctx, charging_station.EventGoalRejected, "Goal rejected: level already meets target", map[string]any{
			"target": p.TargetLevel,
			"level":  level,
			"reason": "already_satisfied",
		})
		return charging_station.ChargeGoal{}, ErrAlreadySatisfied
	}

	goal := charging_station.ChargeGoal{
		ID:          uuid.NewString(),
		TargetLevel: p.TargetLevel,
		SubmittedAt: now,
	}
	s.status = charging_station.StatusCharging
	s.goal = &goal
	s.cancelRequested.Store(false)
	_ = s.stateRepo.Save(ctx, s.snapshotLocked())
	s.mu.Unlock()

	s.appendEvent(ctx, charging_station.EventGoalAccepted, "Goal accepted", map[string]any{
		"goal_id": goal.ID,
		"target":  goal.TargetLevel,
	})
	if s.log != nil {
		s.log.Infow("charging_started", "goal_id", goal.ID, "target", goal.TargetLevel)
	}

	go s.runGoal(goal)

	return goal, nil
}

// Cancel requests cancellation of the active goal. The flag is observed at
// the top of the next loop iteration, never mid-increment.
func (s *ChargerService) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != charging_station.StatusCharging || s.goal == nil {
		return ErrNoActiveGoal
	}
	s.cancelRequested.Store(true)
	if s.log != nil {
		s.log.Infow("cancel_requested", "goal_id", s.goal.ID)
	}
	return nil
}

// LastResult returns the most recent terminal result, if any goal has
// finished since startup.
func (s *ChargerService) LastResult() (charging_station.ChargeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return charging_station.ChargeResult{}, false
	}
	return *s.lastResult, true
}

// runGoal is the execution loop for one accepted goal. It increments the
// level once per tick, emits feedback after every increment, and exits with
// exactly one terminal result. The tick wait is the sole suspension point.
func (s *ChargerService) runGoal(goal charging_station.ChargeGoal) {
	start := time.Now()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		s.mu.Lock()
		level := s.level
		s.mu.Unlock()
		if level >= goal.TargetLevel {
			s.finish(goal, start, true)
			return
		}

		if s.cancelRequested.Load() {
			s.finish(goal, start, false)
			return
		}

		s.mu.Lock()
		increment := s.rate * s.tick.Seconds()
		s.level = minFloat(s.level+increment, goal.TargetLevel)
		level = s.level
		_ = s.stateRepo.Save(s.baseCtx, s.snapshotLocked())
		s.mu.Unlock()

		remaining := goal.TargetLevel - level
		fb := charging_station.ChargeFeedback{
			GoalID:       goal.ID,
			CurrentLevel: int(level),
			EtaSeconds:   remaining / s.rate,
			Rate:         s.rate,
		}
		s.feed.publish(FeedUpdate{Feedback: &fb})
		if s.log != nil {
			s.log.Infow("charging", "goal_id", goal.ID, "level", fb.CurrentLevel, "eta_s", fb.EtaSeconds)
		}

		select {
		case <-s.baseCtx.Done():
			// Shutdown behaves like a cancellation: partial progress preserved.
			s.finish(goal, start, false)
			return
		case <-ticker.C:
		}
	}
}

// finish produces the goal's single terminal result and returns the
// controller to an admissible state.
func (s *ChargerService) finish(goal charging_station.ChargeGoal, start time.Time, success bool) {
	s.mu.Lock()
	res := charging_station.ChargeResult{
		GoalID:         goal.ID,
		Success:        success,
		FinalLevel:     int(s.level),
		ElapsedSeconds: time.Since(start).Seconds(),
	}
	if success {
		s.status = charging_station.StatusSucceeded
	} else {
		s.status = charging_station.StatusCancelled
	}
	s.goal = nil
	s.lastResult = &res
	_ = s.stateRepo.Save(s.baseCtx, s.snapshotLocked())
	s.mu.Unlock()

	eventType := charging_station.EventChargeComplete
	desc := "Charging complete"
	if !success {
		eventType = charging_station.EventChargeCancelled
		desc = "Charging cancelled"
	}
	s.appendEvent(s.baseCtx, eventType, desc, map[string]any{
		"goal_id":     res.GoalID,
		"final_level": res.FinalLevel,
		"elapsed_s":   res.ElapsedSeconds,
	})
	if s.log != nil {
		s.log.Infow("charging_finished", "goal_id", res.GoalID, "success", res.Success,
			"final_level", res.FinalLevel, "elapsed_s", res.ElapsedSeconds)
	}

	s.feed.publish(FeedUpdate{Result: &res})
}

// snapshotLocked builds the persisted state view. Caller holds s.mu.
func (s *ChargerService) snapshotLocked() charging_station.ChargeState {
	st := charging_station.ChargeState{
		ID:           1,
		Status:       s.status,
		CurrentLevel: s.level,
		Rate:         s.rate,
		UpdatedAt:    time.Now().UTC(),
	}
	if s.goal != nil {
		st.TargetLevel = s.goal.TargetLevel
		st.GoalID = s.goal.ID
	}
	return st
}

func (s *ChargerService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.eventRepo.Append(ctx, charging_station.ChargeEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("event_append_failed", "type", typ, "err", err)
	}
}

func (s *ChargerService) logw(msg string, kv ...any) {
	if s.log != nil {
		s.log.Warnw(msg, kv...)
	}
}

func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
