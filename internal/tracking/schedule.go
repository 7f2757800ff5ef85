// Package tracking derives live status, progress, simulated position and
// operational risk for a trip from its static schedule. Every function here
// is a pure function of the trip and the supplied instant.
package tracking

import (
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
)

const (
	BoardingWindow = 45 * time.Minute
	// UnlockWindow is how long before effective departure booking holders
	// may open the live status, insight and position feeds.
	UnlockWindow = 45 * time.Minute
)

type Schedule struct {
	ScheduledDepartAt time.Time
	ScheduledArriveAt time.Time
	DepartAt          time.Time
	ArriveAt          time.Time
	DelayMinutes      int
}

func EffectiveSchedule(trip *domain.Trip) Schedule {
	delay := trip.DelayMinutes
	if delay < 0 {
		delay = 0
	}
	shift := time.Duration(delay) * time.Minute
	return Schedule{
		ScheduledDepartAt: trip.DepartAt,
		ScheduledArriveAt: trip.ArriveAt,
		DepartAt:          trip.DepartAt.Add(shift),
		ArriveAt:          trip.ArriveAt.Add(shift),
		DelayMinutes:      delay,
	}
}

func (s Schedule) Duration() time.Duration {
	return s.ArriveAt.Sub(s.DepartAt)
}

// DurationMinutes is the whole-minute trip duration, never negative.
func (s Schedule) DurationMinutes() int {
	m := int(s.Duration() / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

func (s Schedule) BoardingOpensAt() time.Time {
	return s.DepartAt.Add(-BoardingWindow)
}

func TrackingOpensAt(trip *domain.Trip, unlock time.Duration) time.Time {
	return EffectiveSchedule(trip).DepartAt.Add(-unlock)
}

func IsTrackingOpen(trip *domain.Trip, now time.Time, unlock time.Duration) bool {
	return !now.Before(TrackingOpensAt(trip, unlock))
}
