package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

const (
	ReferenceLength = 8
	MinSeats        = 1
	MaxSeats        = 9
)

type Booking struct {
	ID             int64
	TripID         int64
	Reference      string
	PassengerName  string
	PassengerEmail string
	PassengerPhone string
	Seats          int
	Status         BookingStatus
	UserID         *int64
	CreatedAt      time.Time
}

// BookingWithTrip is a booking joined with the trip it holds a claim on.
type BookingWithTrip struct {
	Booking
	Trip Trip
}
