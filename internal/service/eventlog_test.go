package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"charging_station"
)

// listEventRepoStub captures the filter arguments forwarded by the service.
type listEventRepoStub struct {
	resp     []charging_station.ChargeEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (s *listEventRepoStub) Append(ctx context.Context, e charging_station.ChargeEvent) error {
	return nil
}
func (s *listEventRepoStub) List(ctx context.Context, from, to time.Time, typ string) ([]charging_station.ChargeEvent, error) {
	s.lastFrom = from
	s.lastTo = to
	s.lastType = typ
	return s.resp, s.err
}

func TestEventLogService_List_RejectsInvertedRange(t *testing.T) {
	svc := NewEventLogService(&listEventRepoStub{})

	now := time.Now()
	_, err := svc.List(context.Background(), LogFilter{From: now, To: now.Add(-time.Hour)})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange, got %v", err)
	}
}

func TestEventLogService_List_NormalizesFilter(t *testing.T) {
	stub := &listEventRepoStub{resp: []charging_station.ChargeEvent{{EventID: "e1"}}}
	svc := NewEventLogService(stub)

	loc := time.FixedZone("UTC-3", -3*3600)
	from := time.Date(2026, 8, 1, 10, 0, 0, 0, loc)
	to := time.Date(2026, 8, 31, 10, 0, 0, 0, loc)

	events, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: "  charge_complete "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].EventID != "e1" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if stub.lastFrom.Location() != time.UTC || stub.lastTo.Location() != time.UTC {
		t.Fatalf("expected UTC bounds, got %v / %v", stub.lastFrom.Location(), stub.lastTo.Location())
	}
	if !stub.lastFrom.Equal(from) || !stub.lastTo.Equal(to) {
		t.Fatalf("bounds changed: %v / %v", stub.lastFrom, stub.lastTo)
	}
	if stub.lastType != "CHARGE_COMPLETE" {
		t.Fatalf("expected normalized type, got %q", stub.lastType)
	}
}

func TestEventLogService_List_ZeroBoundsPassThrough(t *testing.T) {
	stub := &listEventRepoStub{}
	svc := NewEventLogService(stub)

	if _, err := svc.List(context.Background(), LogFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stub.lastFrom.IsZero() || !stub.lastTo.IsZero() || stub.lastType != "" {
		t.Fatalf("zero filter must pass through unchanged: %v %v %q", stub.lastFrom, stub.lastTo, stub.lastType)
	}
}
