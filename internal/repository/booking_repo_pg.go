package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create returns domain.ErrDuplicateReference when the reference is taken.
	Create(ctx context.Context, booking *domain.Booking) error
	// FindConfirmed looks up a confirmed booking holding reference on the trip.
	FindConfirmed(ctx context.Context, tripID int64, reference string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error)
	Cancel(ctx context.Context, reference string) (*domain.Booking, error)
	// ListConfirmedWithPhone returns the confirmed bookings on the given trips
	// that carry a contact phone.
	ListConfirmedWithPhone(ctx context.Context, tripIDs []int64) ([]domain.BookingWithTrip, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.trip_id, b.reference, b.passenger_name, b.passenger_email, b.passenger_phone, b.seats, b.status, b.user_id, b.created_at`

func scanBooking(row pgx.Row, extra ...any) (domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	dest := append([]any{&b.ID, &b.TripID, &b.Reference, &b.PassengerName, &b.PassengerEmail,
		&b.PassengerPhone, &b.Seats, &status, &b.UserID, &b.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return b, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.Status == "" {
		booking.Status = domain.BookingStatusConfirmed
	}
	err := r.db.QueryRow(ctx, `INSERT INTO bookings
		(trip_id, reference, passenger_name, passenger_email, passenger_phone, seats, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		booking.TripID, booking.Reference, booking.PassengerName, booking.PassengerEmail,
		booking.PassengerPhone, booking.Seats, string(booking.Status), booking.UserID).
		Scan(&booking.ID, &booking.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("reference %s: %w", booking.Reference, domain.ErrDuplicateReference)
	}
	return err
}

func (r *PGBookingRepository) FindConfirmed(ctx context.Context, tripID int64, reference string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b
		WHERE b.trip_id = $1 AND b.reference = $2 AND b.status = $3`,
		tripID, reference, string(domain.BookingStatusConfirmed)))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.reference = $1`, reference))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return &b, nil
}

const bookingTripSelect = `SELECT ` + bookingColumns + `,
	t.id, t.depart_at, t.arrive_at, t.delay_minutes, t.delay_note, t.created_at,
	f.id, f.flight_code, r.id,
	fa.id, fa.code, fa.name, fa.city, fa.country,
	ta.id, ta.code, ta.name, ta.city, ta.country
	FROM bookings b
	JOIN trips t ON t.id = b.trip_id
	JOIN flights f ON f.id = t.flight_id
	JOIN routes r ON r.id = f.route_id
	JOIN airports fa ON fa.id = r.from_airport_id
	JOIN airports ta ON ta.id = r.to_airport_id`

func (r *PGBookingRepository) queryWithTrips(ctx context.Context, query string, args ...any) ([]domain.BookingWithTrip, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BookingWithTrip, 0)
	for rows.Next() {
		var bt domain.BookingWithTrip
		t := &bt.Trip
		from, to := &t.Flight.Route.From, &t.Flight.Route.To
		b, err := scanBooking(rows,
			&t.ID, &t.DepartAt, &t.ArriveAt, &t.DelayMinutes, &t.DelayNote, &t.CreatedAt,
			&t.Flight.ID, &t.Flight.Code, &t.Flight.Route.ID,
			&from.ID, &from.Code, &from.Name, &from.City, &from.Country,
			&to.ID, &to.Code, &to.Name, &to.City, &to.Country)
		if err != nil {
			return nil, err
		}
		bt.Booking = b
		out = append(out, bt)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error) {
	return r.queryWithTrips(ctx, bookingTripSelect+` WHERE b.user_id = $1 AND b.status = $2 ORDER BY t.depart_at, b.id`,
		userID, string(domain.BookingStatusConfirmed))
}

func (r *PGBookingRepository) Cancel(ctx context.Context, reference string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings b SET status = $1 WHERE b.reference = $2
		RETURNING `+bookingColumns, string(domain.BookingStatusCancelled), reference))
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return &b, nil
}

func (r *PGBookingRepository) ListConfirmedWithPhone(ctx context.Context, tripIDs []int64) ([]domain.BookingWithTrip, error) {
	return r.queryWithTrips(ctx, bookingTripSelect+` WHERE b.trip_id = ANY($1) AND b.status = $2 AND b.passenger_phone <> ''
		ORDER BY t.id, b.id`, tripIDs, string(domain.BookingStatusConfirmed))
}

var _ BookingRepository = (*PGBookingRepository)(nil)
