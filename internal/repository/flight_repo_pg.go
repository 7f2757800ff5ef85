package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	// Create stores the flight, reusing the route between the two airports
	// when one already exists.
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	route := &flight.Route
	err = tx.QueryRow(ctx, `SELECT id FROM routes WHERE from_airport_id=$1 AND to_airport_id=$2 ORDER BY id LIMIT 1`,
		route.From.ID, route.To.ID).Scan(&route.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `INSERT INTO routes (from_airport_id, to_airport_id) VALUES ($1, $2) RETURNING id`,
			route.From.ID, route.To.ID).Scan(&route.ID)
	}
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `INSERT INTO flights (flight_code, route_id) VALUES ($1, $2) RETURNING id`, flight.Code, route.ID).
		Scan(&flight.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("flight %s: %w", flight.Code, domain.ErrDuplicateCode)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT f.id, f.flight_code, r.id,
		fa.id, fa.code, fa.name, fa.city, fa.country,
		ta.id, ta.code, ta.name, ta.city, ta.country
		FROM flights f
		JOIN routes r ON r.id = f.route_id
		JOIN airports fa ON fa.id = r.from_airport_id
		JOIN airports ta ON ta.id = r.to_airport_id
		ORDER BY f.flight_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		from, to := &f.Route.From, &f.Route.To
		if err := rows.Scan(&f.ID, &f.Code, &f.Route.ID,
			&from.ID, &from.Code, &from.Name, &from.City, &from.Country,
			&to.ID, &to.Code, &to.Name, &to.City, &to.Country); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
