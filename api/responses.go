package api

import (
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/tracking"
)

type airportResponse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type tripResponse struct {
	ID                int64           `json:"id"`
	FlightID          int64           `json:"flight_id"`
	FlightCode        string          `json:"flight_code"`
	From              airportResponse `json:"from"`
	To                airportResponse `json:"to"`
	DepartAt          time.Time       `json:"depart_at"`
	ArriveAt          time.Time       `json:"arrive_at"`
	ScheduledDepartAt time.Time       `json:"scheduled_depart_at"`
	ScheduledArriveAt time.Time       `json:"scheduled_arrive_at"`
	DelayMinutes      int             `json:"delay_minutes"`
	DelayNote         string          `json:"delay_note"`
	DurationMinutes   int             `json:"duration_minutes"`
	DistanceKm        float64         `json:"distance_km"`
	Status            tracking.Status `json:"status"`
}

type bookingResponse struct {
	Reference      string    `json:"reference"`
	TripID         int64     `json:"trip_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
	PassengerPhone string    `json:"passenger_phone"`
	Seats          int       `json:"seats"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type flightResponse struct {
	ID   int64           `json:"id"`
	Code string          `json:"flight_code"`
	From airportResponse `json:"from"`
	To   airportResponse `json:"to"`
}

type ticketResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	SourcePage string    `json:"source_page"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAirport(a domain.Airport) airportResponse {
	return airportResponse{ID: a.ID, Code: a.Code, Name: a.Name, City: a.City, Country: a.Country}
}

func toAirports(list []domain.Airport) []airportResponse {
	out := make([]airportResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAirport(a))
	}
	return out
}

func toTrip(t *domain.Trip, now time.Time) tripResponse {
	return toTripWithStatus(t, tracking.StatusForTrip(t, now))
}

func toTripWithStatus(t *domain.Trip, status tracking.Status) tripResponse {
	sched := tracking.EffectiveSchedule(t)
	return tripResponse{
		ID:                t.ID,
		FlightID:          t.Flight.ID,
		FlightCode:        t.Flight.Code,
		From:              toAirport(t.Flight.Route.From),
		To:                toAirport(t.Flight.Route.To),
		DepartAt:          sched.DepartAt,
		ArriveAt:          sched.ArriveAt,
		ScheduledDepartAt: sched.ScheduledDepartAt,
		ScheduledArriveAt: sched.ScheduledArriveAt,
		DelayMinutes:      sched.DelayMinutes,
		DelayNote:         t.DelayNote,
		DurationMinutes:   sched.DurationMinutes(),
		DistanceKm:        tracking.DistanceKm(t.FromCode(), t.ToCode()),
		Status:            status,
	}
}

func toTrips(list []domain.Trip, now time.Time) []tripResponse {
	out := make([]tripResponse, 0, len(list))
	for i := range list {
		out = append(out, toTrip(&list[i], now))
	}
	return out
}

func toBooking(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Reference:      b.Reference,
		TripID:         b.TripID,
		PassengerName:  b.PassengerName,
		PassengerEmail: b.PassengerEmail,
		PassengerPhone: b.PassengerPhone,
		Seats:          b.Seats,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
}

func toFlight(f *domain.Flight) flightResponse {
	return flightResponse{ID: f.ID, Code: f.Code, From: toAirport(f.Route.From), To: toAirport(f.Route.To)}
}

func toTicket(t domain.SupportTicket) ticketResponse {
	return ticketResponse{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		Message:    t.Message,
		SourcePage: t.SourcePage,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt,
	}
}
