package domain

import (
	"time"
	"unicode/utf8"
)

// MaxDelayNote is the longest delay note, in characters.
const MaxDelayNote = 200

type Airport struct {
	ID      int64
	Code    string
	Name    string
	City    string
	Country string
}

type Route struct {
	ID   int64
	From Airport
	To   Airport
}

type Flight struct {
	ID    int64
	Code  string
	Route Route
}

// Trip is a scheduled instance of a Flight. DepartAt and ArriveAt are the
// published times; DelayMinutes shifts both of them.
type Trip struct {
	ID           int64
	Flight       Flight
	DepartAt     time.Time
	ArriveAt     time.Time
	DelayMinutes int
	DelayNote    string
	CreatedAt    time.Time
}

func (t *Trip) FromCode() string { return t.Flight.Route.From.Code }
func (t *Trip) ToCode() string   { return t.Flight.Route.To.Code }

func (t *Trip) Validate() error {
	if !t.ArriveAt.After(t.DepartAt) {
		return ValidationError("arrive_at must be after depart_at")
	}
	if t.DelayMinutes < 0 {
		return ValidationError("delay_minutes must not be negative")
	}
	if utf8.RuneCountInString(t.DelayNote) > MaxDelayNote {
		return ValidationError("delay_note must be at most 200 characters")
	}
	return nil
}
