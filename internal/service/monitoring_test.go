package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"charging_station"
)

func TestMonitoringService_GetState_BaselineWhenEmpty(t *testing.T) {
	srepo := &fakeStateRepo{loadResp: charging_station.ChargeState{}}
	ms := NewMonitoringService(srepo)

	t0 := time.Now().UTC()
	st, err := ms.GetState(context.Background())
	t1 := time.Now().UTC()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ID != 1 || st.Status != charging_station.StatusIdle {
		t.Fatalf("baseline snapshot: %+v", st)
	}
	if st.CurrentLevel != defaultBaselineLevel {
		t.Fatalf("expected baseline level %v, got %v", defaultBaselineLevel, st.CurrentLevel)
	}
	if st.UpdatedAt.Before(t0) || st.UpdatedAt.After(t1) {
		t.Fatalf("baseline UpdatedAt %v outside [%v, %v]", st.UpdatedAt, t0, t1)
	}
}

func TestMonitoringService_GetState_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	srepo := &fakeStateRepo{loadResp: charging_station.ChargeState{
		ID:           1,
		Status:       charging_station.StatusCharging,
		CurrentLevel: 42.5,
		UpdatedAt:    time.Date(2026, 8, 30, 12, 0, 0, 0, loc),
	}}
	ms := NewMonitoringService(srepo)

	st, err := ms.GetState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC time, got %v", st.UpdatedAt.Location())
	}
	if st.CurrentLevel != 42.5 || st.Status != charging_station.StatusCharging {
		t.Fatalf("state not passed through: %+v", st)
	}
}

func TestMonitoringService_GetState_PropagatesError(t *testing.T) {
	srepo := &fakeStateRepo{loadErr: errors.New("db down")}
	ms := NewMonitoringService(srepo)

	if _, err := ms.GetState(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
