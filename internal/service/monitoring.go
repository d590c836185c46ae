package service

import (
	"context"
	"time"

	"charging_station"
	"charging_station/internal/repository"
)

const defaultBaselineLevel = 20.0

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted charge state.
// If no state is persisted yet, returns a baseline idle snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (charging_station.ChargeState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return charging_station.ChargeState{}, err
	}
	if state.ID == 0 {
		return s.baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// baselineState returns a sensible default snapshot for an uninitialized DB.
func (s *MonitoringService) baselineState() charging_station.ChargeState {
	return charging_station.ChargeState{
		ID:           1, // DB schema enforces single-row state with id=1
		Status:       charging_station.StatusIdle,
		CurrentLevel: defaultBaselineLevel,
		UpdatedAt:    time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
