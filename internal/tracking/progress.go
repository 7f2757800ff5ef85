package tracking

import (
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
)

func ProgressPercent(trip *domain.Trip, now time.Time) int {
	s := EffectiveSchedule(trip)
	if !now.After(s.DepartAt) {
		return 0
	}
	if !now.Before(s.ArriveAt) {
		return 100
	}
	total := s.Duration()
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(s.DepartAt)
	return int(int64(elapsed) * 100 / int64(total))
}
