package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"charging_station"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

// constants and helpers for clarity and reuse
const (
	chargeStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO charge_state (id, status, level, target, rate, goal_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			level=excluded.level,
			target=excluded.target,
			rate=excluded.rate,
			goal_id=excluded.goal_id,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, status, level, target, rate, goal_id, updated_at
		FROM charge_state WHERE id=?
	`
)

// Save updates or inserts the charge_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state charging_station.ChargeState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		chargeStateRowID,
		state.Status,
		state.CurrentLevel,
		state.TargetLevel,
		state.Rate,
		state.GoalID,
		tsUTC,
	)
	return err
}

// Load fetches the single charge_state row (id=1).
func (r *StateSQLite) Load(ctx context.Context) (charging_station.ChargeState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, chargeStateRowID)

	var s charging_station.ChargeState
	if err := row.Scan(
		&s.ID,
		&s.Status,
		&s.CurrentLevel,
		&s.TargetLevel,
		&s.Rate,
		&s.GoalID,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return charging_station.ChargeState{}, nil // no state yet
		}
		return charging_station.ChargeState{}, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
