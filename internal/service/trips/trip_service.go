package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/tracking"
)

type TripUseCase interface {
	Search(ctx context.Context, from, to string) (*SearchResult, error)
	Airports(ctx context.Context) ([]domain.Airport, error)
	Detail(ctx context.Context, id int64, ref string) (*TripDetail, error)
	Status(ctx context.Context, id int64, ref string) (*StatusReport, error)
	Advice(ctx context.Context, id int64, ref string) (*Advice, error)
	Position(ctx context.Context, id int64, ref string) (*tracking.Position, error)
	LiveNetwork(ctx context.Context, from string) (*Network, error)
}

type Cache interface {
	GetTrips(ctx context.Context, from, to string) ([]domain.Trip, error)
	SetTrips(ctx context.Context, from, to string, trips []domain.Trip) error
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
}

type Advisor interface {
	Message(ctx context.Context, trip *domain.Trip, now time.Time) (string, string)
}

// TrackingClosedError reports when a trip's tracking window opens.
type TrackingClosedError struct {
	OpensAt       time.Time
	UnlockMinutes int
}

func (e *TrackingClosedError) Error() string {
	return fmt.Sprintf("tracking opens %d minutes before departure", e.UnlockMinutes)
}

func (e *TrackingClosedError) Unwrap() error { return domain.ErrTrackingNotOpen }

type TripService struct {
	trips    repository.TripRepository
	airports repository.AirportRepository
	bookings repository.BookingRepository
	cache    Cache
	advisor  Advisor
	hub      string
	unlock   time.Duration
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*TripService)

func WithHub(code string) Option {
	return func(s *TripService) {
		if code != "" {
			s.hub = strings.ToUpper(code)
		}
	}
}

func WithUnlockWindow(d time.Duration) Option {
	return func(s *TripService) {
		if d > 0 {
			s.unlock = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TripService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TripService) { s.log = l }
}

func NewTripService(
	trips repository.TripRepository,
	airports repository.AirportRepository,
	bookings repository.BookingRepository,
	cache Cache,
	advisor Advisor,
	opts ...Option,
) *TripService {
	s := &TripService{
		trips:    trips,
		airports: airports,
		bookings: bookings,
		cache:    cache,
		advisor:  advisor,
		hub:      "DOH",
		unlock:   tracking.UnlockWindow,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SearchResult struct {
	From        string
	To          string
	HubCode     string
	Trips       []domain.Trip
	Recommended *domain.Trip
	// AsOf is the clock reading trip statuses are computed against.
	AsOf time.Time
}

// Search lists trips by airport codes ordered by departure. With neither code
// given it falls back to the hub, if the hub has any departures.
func (s *TripService) Search(ctx context.Context, from, to string) (*SearchResult, error) {
	from, to = normalizeCode(from), normalizeCode(to)
	if from == "" && to == "" {
		hasHub, err := s.trips.ExistsFrom(ctx, s.hub)
		if err != nil {
			return nil, err
		}
		if hasHub {
			from = s.hub
		}
	}

	list, err := s.list(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		From:        from,
		To:          to,
		HubCode:     s.hub,
		Trips:       list,
		Recommended: tracking.Recommend(list),
		AsOf:        s.now(),
	}, nil
}

func (s *TripService) list(ctx context.Context, from, to string) ([]domain.Trip, error) {
	if s.cache != nil {
		cached, err := s.cache.GetTrips(ctx, from, to)
		if err != nil {
			s.log.Warn("trip cache read failed", slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	list, err := s.trips.Search(ctx, repository.TripFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTrips(ctx, from, to, list); err != nil {
			s.log.Warn("trip cache write failed", slog.Any("error", err))
		}
	}
	return list, nil
}

func (s *TripService) Airports(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirports(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	airports, err := s.airports.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

type TripDetail struct {
	Trip            *domain.Trip
	Status          tracking.Status
	Insight         tracking.Insight
	DepartAt        time.Time
	ArriveAt        time.Time
	Booking         *domain.Booking
	BookingRef      string
	TrackingOpen    bool
	TrackingOpensAt time.Time
	UnlockMinutes   int
	CanTrack        bool
}

// Detail never fails on a bad reference; the booking is simply left out.
func (s *TripService) Detail(ctx context.Context, id int64, ref string) (*TripDetail, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ref = normalizeRef(ref)
	booking, err := s.findBooking(ctx, trip.ID, ref)
	if err != nil && !errors.Is(err, domain.ErrBookingRequired) {
		return nil, err
	}

	sched := tracking.EffectiveSchedule(trip)
	open := tracking.IsTrackingOpen(trip, now, s.unlock)
	return &TripDetail{
		Trip:            trip,
		Status:          tracking.StatusForTrip(trip, now),
		Insight:         tracking.Insights(trip, now),
		DepartAt:        sched.DepartAt,
		ArriveAt:        sched.ArriveAt,
		Booking:         booking,
		BookingRef:      ref,
		TrackingOpen:    open,
		TrackingOpensAt: tracking.TrackingOpensAt(trip, s.unlock),
		UnlockMinutes:   s.unlockMinutes(),
		CanTrack:        booking != nil && open,
	}, nil
}

type StatusReport struct {
	TripID          int64           `json:"trip_id"`
	FlightCode      string          `json:"flight_code"`
	Status          tracking.Status `json:"status"`
	ProgressPercent int             `json:"progress_percent"`
	FromCode        string          `json:"from_code"`
	ToCode          string          `json:"to_code"`
	FromName        string          `json:"from_name"`
	ToName          string          `json:"to_name"`
	DelayMinutes    int             `json:"delay_minutes"`
	DelayNote       string          `json:"delay_note"`
	DepartAt        time.Time       `json:"depart_at"`
	ArriveAt        time.Time       `json:"arrive_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (s *TripService) Status(ctx context.Context, id int64, ref string) (*StatusReport, error) {
	trip, now, err := s.authorize(ctx, id, ref)
	if err != nil {
		return nil, err
	}

	sched := tracking.EffectiveSchedule(trip)
	return &StatusReport{
		TripID:          trip.ID,
		FlightCode:      trip.Flight.Code,
		Status:          tracking.StatusForTrip(trip, now),
		ProgressPercent: tracking.ProgressPercent(trip, now),
		FromCode:        trip.FromCode(),
		ToCode:          trip.ToCode(),
		FromName:        trip.Flight.Route.From.Name,
		ToName:          trip.Flight.Route.To.Name,
		DelayMinutes:    trip.DelayMinutes,
		DelayNote:       trip.DelayNote,
		DepartAt:        sched.DepartAt,
		ArriveAt:        sched.ArriveAt,
		UpdatedAt:       now,
	}, nil
}

type Advice struct {
	TripID  int64  `json:"trip_id"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (s *TripService) Advice(ctx context.Context, id int64, ref string) (*Advice, error) {
	trip, now, err := s.authorize(ctx, id, ref)
	if err != nil {
		return nil, err
	}

	message, source := s.advisor.Message(ctx, trip, now)
	return &Advice{TripID: trip.ID, Source: source, Message: message}, nil
}

func (s *TripService) Position(ctx context.Context, id int64, ref string) (*tracking.Position, error) {
	trip, now, err := s.authorize(ctx, id, ref)
	if err != nil {
		return nil, err
	}

	pos := tracking.LivePosition(trip, now)
	return &pos, nil
}

type Network struct {
	HubCode   string              `json:"hub_code"`
	UpdatedAt time.Time           `json:"updated_at"`
	Flights   []tracking.Position `json:"flights"`
}

// LiveNetwork is public: positions are simulated and carry no passenger data.
func (s *TripService) LiveNetwork(ctx context.Context, from string) (*Network, error) {
	from = normalizeCode(from)
	if from == "" {
		from = s.hub
	}

	list, err := s.list(ctx, from, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	flights := make([]tracking.Position, 0, len(list))
	for i := range list {
		flights = append(flights, tracking.LivePosition(&list[i], now))
	}
	return &Network{HubCode: from, UpdatedAt: now, Flights: flights}, nil
}

// authorize loads the trip and checks, in order, the booking reference and
// the tracking window.
func (s *TripService) authorize(ctx context.Context, id int64, ref string) (*domain.Trip, time.Time, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}

	if _, err := s.findBooking(ctx, trip.ID, normalizeRef(ref)); err != nil {
		return nil, time.Time{}, err
	}

	now := s.now()
	if !tracking.IsTrackingOpen(trip, now, s.unlock) {
		return nil, time.Time{}, &TrackingClosedError{
			OpensAt:       tracking.TrackingOpensAt(trip, s.unlock),
			UnlockMinutes: s.unlockMinutes(),
		}
	}
	return trip, now, nil
}

func (s *TripService) findBooking(ctx context.Context, tripID int64, ref string) (*domain.Booking, error) {
	if ref == "" {
		return nil, domain.ErrBookingRequired
	}
	booking, err := s.bookings.FindConfirmed(ctx, tripID, ref)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, domain.ErrBookingRequired
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *TripService) unlockMinutes() int {
	return int(s.unlock / time.Minute)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

var _ TripUseCase = (*TripService)(nil)
