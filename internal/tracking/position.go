package tracking

import (
	"math"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
)

const (
	ModeSimulated = "simulated_live"

	cruiseAltitudeFt = 38000
	baseSpeedKts     = 460
	speedSwingKts    = 40
	arcDegrees       = 1.5
)

type Position struct {
	TripID            int64     `json:"trip_id"`
	FlightCode        string    `json:"flight_code"`
	Status            Status    `json:"status"`
	FromCode          string    `json:"from_code"`
	ToCode            string    `json:"to_code"`
	FromName          string    `json:"from_name"`
	ToName            string    `json:"to_name"`
	FromCity          string    `json:"from_city"`
	FromCountry       string    `json:"from_country"`
	ToCity            string    `json:"to_city"`
	ToCountry         string    `json:"to_country"`
	StartLatitude     float64   `json:"start_latitude"`
	StartLongitude    float64   `json:"start_longitude"`
	EndLatitude       float64   `json:"end_latitude"`
	EndLongitude      float64   `json:"end_longitude"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	DistanceKm        float64   `json:"distance_km"`
	DepartAt          time.Time `json:"depart_at"`
	ArriveAt          time.Time `json:"arrive_at"`
	ScheduledDepartAt time.Time `json:"scheduled_depart_at"`
	ScheduledArriveAt time.Time `json:"scheduled_arrive_at"`
	DelayMinutes      int       `json:"delay_minutes"`
	DelayNote         string    `json:"delay_note"`
	AltitudeFt        int       `json:"altitude_ft"`
	GroundSpeedKts    int       `json:"ground_speed_kts"`
	ProgressPercent   int       `json:"progress_percent"`
	Mode              string    `json:"mode"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LivePosition synthesizes where the aircraft would be at now. The output
// is simulated from the schedule and never comes from a telemetry feed.
func LivePosition(trip *domain.Trip, now time.Time) Position {
	route := trip.Flight.Route
	start := AirportCoord(route.From.Code)
	end := AirportCoord(route.To.Code)
	sched := EffectiveSchedule(trip)

	percent := ProgressPercent(trip, now)
	progress := float64(percent) / 100.0
	status := StatusForTrip(trip, now)

	lat := start.Lat + (end.Lat-start.Lat)*progress
	lon := start.Lon + (end.Lon-start.Lon)*progress

	var altitude, speed int
	if status == StatusInAir {
		arc := math.Sin(progress * math.Pi)
		lat += arc * arcDegrees
		altitude = int(cruiseAltitudeFt * arc)
		speed = baseSpeedKts + int(speedSwingKts*arc)
	}

	return Position{
		TripID:            trip.ID,
		FlightCode:        trip.Flight.Code,
		Status:            status,
		FromCode:          route.From.Code,
		ToCode:            route.To.Code,
		FromName:          route.From.Name,
		ToName:            route.To.Name,
		FromCity:          route.From.City,
		FromCountry:       route.From.Country,
		ToCity:            route.To.City,
		ToCountry:         route.To.Country,
		StartLatitude:     round5(start.Lat),
		StartLongitude:    round5(start.Lon),
		EndLatitude:       round5(end.Lat),
		EndLongitude:      round5(end.Lon),
		Latitude:          round5(lat),
		Longitude:         round5(lon),
		DistanceKm:        math.Round(DistanceKm(route.From.Code, route.To.Code)),
		DepartAt:          sched.DepartAt,
		ArriveAt:          sched.ArriveAt,
		ScheduledDepartAt: sched.ScheduledDepartAt,
		ScheduledArriveAt: sched.ScheduledArriveAt,
		DelayMinutes:      trip.DelayMinutes,
		DelayNote:         trip.DelayNote,
		AltitudeFt:        altitude,
		GroundSpeedKts:    speed,
		ProgressPercent:   percent,
		Mode:              ModeSimulated,
		UpdatedAt:         now,
	}
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
