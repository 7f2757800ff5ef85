package tracking

import (
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusDelayed   Status = "Delayed"
	StatusBoarding  Status = "Boarding"
	StatusInAir     Status = "In Air"
	StatusArrived   Status = "Arrived"
)

// StatusForTrip classifies now against the trip's effective schedule. The
// first matching rule wins; Delayed only covers the gap between the
// published and the adjusted departure.
func StatusForTrip(trip *domain.Trip, now time.Time) Status {
	s := EffectiveSchedule(trip)
	switch {
	case s.DelayMinutes > 0 && !now.Before(s.ScheduledDepartAt) && now.Before(s.DepartAt):
		return StatusDelayed
	case now.Before(s.BoardingOpensAt()):
		return StatusScheduled
	case now.Before(s.DepartAt):
		return StatusBoarding
	case now.Before(s.ArriveAt):
		return StatusInAir
	default:
		return StatusArrived
	}
}

// LiveFilter names the admin list filters over live status.
type LiveFilter string

const (
	FilterScheduled LiveFilter = "scheduled"
	FilterBoarding  LiveFilter = "boarding"
	FilterInAir     LiveFilter = "in_air"
	FilterArrived   LiveFilter = "arrived"
)

func (f LiveFilter) Valid() bool {
	switch f {
	case FilterScheduled, FilterBoarding, FilterInAir, FilterArrived:
		return true
	}
	return false
}

// Matches reports whether the trip's status falls under the filter. A
// delayed trip is listed with the boarding group.
func (f LiveFilter) Matches(trip *domain.Trip, now time.Time) bool {
	switch StatusForTrip(trip, now) {
	case StatusScheduled:
		return f == FilterScheduled
	case StatusBoarding, StatusDelayed:
		return f == FilterBoarding
	case StatusInAir:
		return f == FilterInAir
	default:
		return f == FilterArrived
	}
}
