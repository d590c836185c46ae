package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"charging_station"
	"charging_station/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}

func TestStateSQLite_Save_SetsUTCNow_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	// Zero UpdatedAt should be replaced by time.Now().UTC().
	state := charging_station.ChargeState{
		Status:       charging_station.StatusCharging,
		CurrentLevel: 42.5,
		TargetLevel:  80,
		Rate:         5,
		GoalID:       "goal-1",
		// UpdatedAt is zero
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok {
			return false
		}
		if tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	// We don't have direct access to the private SQL constant, so match by fragment.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO charge_state")).
		WithArgs(
			1, // id constant
			state.Status,
			state.CurrentLevel,
			state.TargetLevel,
			state.Rate,
			state.GoalID,
			isUTCRecent, // UpdatedAt written as UTC "now"
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_PreservesGivenTimeButConvertsToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	loc := time.FixedZone("UTC+9", 9*3600)
	original := time.Date(2026, 8, 5, 12, 34, 56, 0, loc) // non-UTC
	expectedUTC := original.UTC()

	state := charging_station.ChargeState{
		Status:       charging_station.StatusIdle,
		CurrentLevel: 20,
		Rate:         5,
		UpdatedAt:    original,
	}

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok {
			return false
		}
		return tm.Equal(expectedUTC) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO charge_state")).
		WithArgs(
			1,
			state.Status,
			state.CurrentLevel,
			state.TargetLevel,
			state.Rate,
			state.GoalID,
			isExactUTC,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_ReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	updated := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "status", "level", "target", "rate", "goal_id", "updated_at"}).
		AddRow(1, charging_station.StatusCharging, 35.0, 100.0, 5.0, "goal-1", updated)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, status, level, target, rate, goal_id, updated_at")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 1 || got.Status != charging_station.StatusCharging || got.CurrentLevel != 35 {
		t.Fatalf("unexpected state: %+v", got)
	}
	if got.TargetLevel != 100 || got.Rate != 5 || got.GoalID != "goal-1" {
		t.Fatalf("unexpected state: %+v", got)
	}
	if !got.UpdatedAt.Equal(updated) || got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("unexpected UpdatedAt: %v", got.UpdatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_NoRowsReturnsZeroState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, status, level, target, rate, goal_id, updated_at")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 0 {
		t.Fatalf("expected zero state, got %+v", got)
	}
}

func TestStateSQLite_Load_PropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, status, level, target, rate, goal_id, updated_at")).
		WithArgs(1).
		WillReturnError(errors.New("db down"))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
