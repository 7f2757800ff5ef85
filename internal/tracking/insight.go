package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

const (
	baseRisk          = 10
	longHaulMinutes   = 210
	longHaulRisk      = 15
	rushHourRisk      = 20
	imminentWindow    = 2 * time.Hour
	imminentRisk      = 15
	maxDelayRisk      = 25
	highRiskThreshold = 55
	medRiskThreshold  = 35
)

var rushHours = map[int]bool{6: true, 7: true, 8: true, 17: true, 18: true, 19: true, 20: true}

var recommendations = map[RiskLevel]string{
	RiskHigh:   "Send proactive SMS update and offer self-service rebooking options.",
	RiskMedium: "Auto-alert gate changes and push check-in reminder now.",
	RiskLow:    "No intervention needed. Keep live tracking enabled.",
}

type Insight struct {
	DurationMinutes int       `json:"duration_minutes"`
	Status          Status    `json:"status"`
	RiskScore       int       `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Recommendation  string    `json:"recommendation"`
}

// Insights scores operational risk with a fixed decision table. Departure
// hour is read in UTC.
func Insights(trip *domain.Trip, now time.Time) Insight {
	s := EffectiveSchedule(trip)
	duration := s.DurationMinutes()

	score := baseRisk
	if duration > longHaulMinutes {
		score += longHaulRisk
	}
	if rushHours[s.DepartAt.UTC().Hour()] {
		score += rushHourRisk
	}
	if s.DepartAt.Sub(now) < imminentWindow {
		score += imminentRisk
	}
	if s.DelayMinutes > 0 {
		score += min(maxDelayRisk, s.DelayMinutes/3)
	}

	level := RiskLow
	switch {
	case score >= highRiskThreshold:
		level = RiskHigh
	case score >= medRiskThreshold:
		level = RiskMedium
	}

	return Insight{
		DurationMinutes: duration,
		Status:          StatusForTrip(trip, now),
		RiskScore:       score,
		RiskLevel:       level,
		Recommendation:  recommendations[level],
	}
}

// Summary renders the insight as one operator-facing paragraph. It is the
// text served whenever no generation backend answers.
func Summary(trip *domain.Trip, now time.Time) string {
	in := Insights(trip, now)
	text := fmt.Sprintf(
		"Flight %s on %s->%s is currently %s. Risk is %s (%d/100). Recommended action: %s.",
		trip.Flight.Code, trip.FromCode(), trip.ToCode(),
		in.Status, in.RiskLevel, in.RiskScore, strings.TrimSuffix(in.Recommendation, "."),
	)
	if trip.DelayMinutes > 0 {
		text += fmt.Sprintf(" Flight is delayed by %d minutes.", trip.DelayMinutes)
	}
	return text
}

// Recommend picks the operationally preferred trip: shortest effective
// duration, then earliest published departure. It returns nil for no trips.
func Recommend(trips []domain.Trip) *domain.Trip {
	var best *domain.Trip
	for i := range trips {
		t := &trips[i]
		if best == nil {
			best = t
			continue
		}
		d, bd := EffectiveSchedule(t).DurationMinutes(), EffectiveSchedule(best).DurationMinutes()
		if d < bd || (d == bd && t.DepartAt.Before(best.DepartAt)) {
			best = t
		}
	}
	return best
}
