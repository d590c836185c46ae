package repository

import (
	"context"
	"database/sql"
	"time"

	"charging_station"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*charging_station.User, error)
}

type StateRepo interface {
	Save(ctx context.Context, s charging_station.ChargeState) error
	Load(ctx context.Context) (charging_station.ChargeState, error)
}

type EventRepo interface {
	Append(ctx context.Context, e charging_station.ChargeEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]charging_station.ChargeEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
