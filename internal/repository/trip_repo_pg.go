package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TripFilter narrows trip searches by airport codes. Empty fields match everything.
type TripFilter struct {
	From string
	To   string
}

type TripRepository interface {
	Search(ctx context.Context, filter TripFilter) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	ExistsFrom(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, trip *domain.Trip) error
	Duplicate(ctx context.Context, ids []int64, shift time.Duration) (int, error)
	ApplyDelay(ctx context.Context, ids []int64, minutes int, note string) (int, error)
	Metrics(ctx context.Context, now time.Time, next int) (*domain.OpsMetrics, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

const tripSelect = `SELECT t.id, t.depart_at, t.arrive_at, t.delay_minutes, t.delay_note, t.created_at,
	f.id, f.flight_code, r.id,
	fa.id, fa.code, fa.name, fa.city, fa.country,
	ta.id, ta.code, ta.name, ta.city, ta.country
	FROM trips t
	JOIN flights f ON f.id = t.flight_id
	JOIN routes r ON r.id = f.route_id
	JOIN airports fa ON fa.id = r.from_airport_id
	JOIN airports ta ON ta.id = r.to_airport_id`

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var t domain.Trip
	from, to := &t.Flight.Route.From, &t.Flight.Route.To
	err := row.Scan(&t.ID, &t.DepartAt, &t.ArriveAt, &t.DelayMinutes, &t.DelayNote, &t.CreatedAt,
		&t.Flight.ID, &t.Flight.Code, &t.Flight.Route.ID,
		&from.ID, &from.Code, &from.Name, &from.City, &from.Country,
		&to.ID, &to.Code, &to.Name, &to.City, &to.Country)
	return t, err
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) Search(ctx context.Context, filter TripFilter) ([]domain.Trip, error) {
	var (
		where []string
		args  []any
	)
	if filter.From != "" {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("fa.code = $%d", len(args)))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("ta.code = $%d", len(args)))
	}

	query := tripSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.depart_at, t.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTrips(rows)
}

func (r *PGTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	t, err := scanTrip(r.db.QueryRow(ctx, tripSelect+" WHERE t.id = $1", id))
	if err != nil {
		return nil, notFound(err, domain.ErrTripNotFound)
	}
	return &t, nil
}

func (r *PGTripRepository) ExistsFrom(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM trips t
		JOIN flights f ON f.id = t.flight_id
		JOIN routes r ON r.id = f.route_id
		JOIN airports fa ON fa.id = r.from_airport_id
		WHERE fa.code = $1)`, code).Scan(&exists)
	return exists, err
}

// Create inserts a trip for trip.Flight.ID and reloads it with its flight and route.
func (r *PGTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO trips (flight_id, depart_at, arrive_at, delay_minutes, delay_note)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		trip.Flight.ID, trip.DepartAt, trip.ArriveAt, trip.DelayMinutes, trip.DelayNote).Scan(&id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("flight %d: %w", trip.Flight.ID, domain.ErrFlightNotFound)
	}
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*trip = *created
	return nil
}

// Duplicate copies each trip with both timestamps moved by shift. Delay
// fields are not copied.
func (r *PGTripRepository) Duplicate(ctx context.Context, ids []int64, shift time.Duration) (int, error) {
	res, err := r.db.Exec(ctx, `INSERT INTO trips (flight_id, depart_at, arrive_at)
		SELECT flight_id, depart_at + make_interval(secs => $2), arrive_at + make_interval(secs => $2)
		FROM trips WHERE id = ANY($1)`, ids, shift.Seconds())
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}

func (r *PGTripRepository) ApplyDelay(ctx context.Context, ids []int64, minutes int, note string) (int, error) {
	res, err := r.db.Exec(ctx, `UPDATE trips SET delay_minutes = $2, delay_note = $3 WHERE id = ANY($1)`, ids, minutes, note)
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}

func (r *PGTripRepository) Metrics(ctx context.Context, now time.Time, next int) (*domain.OpsMetrics, error) {
	var m domain.OpsMetrics
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM airports),
		(SELECT count(*) FROM routes),
		(SELECT count(*) FROM flights),
		(SELECT count(*) FROM trips WHERE depart_at >= $1),
		(SELECT count(*) FROM support_tickets WHERE status = $2)`, now, string(domain.TicketStatusOpen)).
		Scan(&m.Airports, &m.Routes, &m.Flights, &m.UpcomingTrips, &m.OpenTickets)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, tripSelect+" WHERE t.depart_at >= $1 ORDER BY t.depart_at LIMIT $2", now, next)
	if err != nil {
		return nil, err
	}
	if m.NextDepartures, err = collectTrips(rows); err != nil {
		return nil, err
	}
	return &m, nil
}

var _ TripRepository = (*PGTripRepository)(nil)
