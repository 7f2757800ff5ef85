package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventTicketEscalated  = "ticket_escalated"
	EventTripDelayed      = "trip_delayed"
	EventDelaySMS         = "delay_sms"
)

// Event is the envelope written to both the events and notifications
// topics. Fields not relevant to Type are left empty.
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	TripID     int64      `json:"trip_id,omitempty"`
	FlightCode string     `json:"flight_code,omitempty"`
	Reference  string     `json:"reference,omitempty"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Seats      int        `json:"seats,omitempty"`
	Body       string     `json:"body,omitempty"`
	TicketID   int64      `json:"ticket_id,omitempty"`
	DelayMin   int        `json:"delay_minutes,omitempty"`
	DepartAt   *time.Time `json:"depart_at,omitempty"`
}

func NewEvent(eventType string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}
