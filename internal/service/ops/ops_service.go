package ops

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/tracking"
	"github.com/Domenick1991/airtrack/internal/validate"
)

const (
	nextDepartures  = 5
	duplicateShift  = 24 * time.Hour
	publishAttempts = 3
	defaultCountry  = "USA"
)

// OpsUseCase backs the staff console: catalogue management, bulk trip
// actions and the support ticket queue.
type OpsUseCase interface {
	Metrics(ctx context.Context) (*domain.OpsMetrics, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateAirport(ctx context.Context, input AirportInput) (*domain.Airport, error)
	ListFlights(ctx context.Context) ([]domain.Flight, error)
	CreateFlight(ctx context.Context, input FlightInput) (*domain.Flight, error)
	ListTrips(ctx context.Context, filter tracking.LiveFilter) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, input TripInput) (*domain.Trip, error)
	DuplicateTrips(ctx context.Context, ids []int64) (int, error)
	DelayTrips(ctx context.Context, ids []int64, minutes int, note string) (int, error)
	NotifyPassengers(ctx context.Context, ids []int64) (*NotifyResult, error)
	ListTickets(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error)
	SetTicketStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error)
}

type Cache interface {
	InvalidateTrips(ctx context.Context) error
	InvalidateAirports(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, event kafka.Event) error
	PublishWithRetry(ctx context.Context, topic, key string, event kafka.Event, maxRetries int) error
}

type AirportInput struct {
	Code    string `validate:"required,len=3,alphanum" field:"code"`
	Name    string `validate:"required,max=120" field:"name"`
	City    string `validate:"required,max=80" field:"city"`
	Country string `validate:"max=80" field:"country"`
}

type FlightInput struct {
	Code     string `validate:"required,max=12,alphanum" field:"flight_code"`
	FromCode string `validate:"required,len=3" field:"from_code"`
	ToCode   string `validate:"required,len=3" field:"to_code"`
}

type TripInput struct {
	FlightID     int64
	DepartAt     time.Time
	ArriveAt     time.Time
	DelayMinutes int
	DelayNote    string
}

type NotifyResult struct {
	Queued int
	Failed int
}

type OpsService struct {
	airports           repository.AirportRepository
	flights            repository.FlightRepository
	trips              repository.TripRepository
	bookings           repository.BookingRepository
	tickets            repository.TicketRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	now                func() time.Time
	log                *slog.Logger
}

type Option func(*OpsService)

func WithTopics(events, notifications string) Option {
	return func(s *OpsService) {
		s.eventsTopic = events
		s.notificationsTopic = notifications
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *OpsService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *OpsService) { s.log = l }
}

func NewOpsService(
	airports repository.AirportRepository,
	flights repository.FlightRepository,
	trips repository.TripRepository,
	bookings repository.BookingRepository,
	tickets repository.TicketRepository,
	cache Cache,
	producer Producer,
	opts ...Option,
) *OpsService {
	s := &OpsService{
		airports: airports,
		flights:  flights,
		trips:    trips,
		bookings: bookings,
		tickets:  tickets,
		cache:    cache,
		producer: producer,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OpsService) Metrics(ctx context.Context) (*domain.OpsMetrics, error) {
	return s.trips.Metrics(ctx, s.now(), nextDepartures)
}

func (s *OpsService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.List(ctx)
}

func (s *OpsService) CreateAirport(ctx context.Context, input AirportInput) (*domain.Airport, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.Name = strings.TrimSpace(input.Name)
	input.City = strings.TrimSpace(input.City)
	input.Country = strings.TrimSpace(input.Country)
	if input.Country == "" {
		input.Country = defaultCountry
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	airport := &domain.Airport{Code: input.Code, Name: input.Name, City: input.City, Country: input.Country}
	if err := s.airports.Create(ctx, airport); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAirports(ctx); err != nil {
			s.log.Warn("airport cache invalidation failed", slog.Any("error", err))
		}
	}
	return airport, nil
}

func (s *OpsService) ListFlights(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

// CreateFlight resolves both airports by code; the route between them is
// created on first use.
func (s *OpsService) CreateFlight(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.FromCode = strings.ToUpper(strings.TrimSpace(input.FromCode))
	input.ToCode = strings.ToUpper(strings.TrimSpace(input.ToCode))
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.FromCode == input.ToCode {
		return nil, domain.ValidationError("from_code and to_code must differ")
	}

	from, err := s.airports.GetByCode(ctx, input.FromCode)
	if err != nil {
		return nil, fmt.Errorf("origin %s: %w", input.FromCode, err)
	}
	to, err := s.airports.GetByCode(ctx, input.ToCode)
	if err != nil {
		return nil, fmt.Errorf("destination %s: %w", input.ToCode, err)
	}

	flight := &domain.Flight{Code: input.Code, Route: domain.Route{From: *from, To: *to}}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}
	return flight, nil
}

// ListTrips lists every trip by departure; a non-empty filter keeps only the
// trips in that live status group right now.
func (s *OpsService) ListTrips(ctx context.Context, filter tracking.LiveFilter) ([]domain.Trip, error) {
	if filter != "" && !filter.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown live status filter %q", filter))
	}

	all, err := s.trips.Search(ctx, repository.TripFilter{})
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return all, nil
	}

	now := s.now()
	out := make([]domain.Trip, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i], now) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *OpsService) CreateTrip(ctx context.Context, input TripInput) (*domain.Trip, error) {
	if input.FlightID <= 0 {
		return nil, domain.ValidationError("flight_id is required")
	}
	trip := &domain.Trip{
		Flight:       domain.Flight{ID: input.FlightID},
		DepartAt:     input.DepartAt,
		ArriveAt:     input.ArriveAt,
		DelayMinutes: input.DelayMinutes,
		DelayNote:    strings.TrimSpace(input.DelayNote),
	}
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}
	s.invalidateTrips(ctx)
	return trip, nil
}

// DuplicateTrips copies the selected trips one day later.
func (s *OpsService) DuplicateTrips(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ValidationError("select at least one trip")
	}
	n, err := s.trips.Duplicate(ctx, ids, duplicateShift)
	if err != nil {
		return 0, err
	}
	s.invalidateTrips(ctx)
	return n, nil
}

// DelayTrips overwrites the delay of the selected trips. Zero minutes clears it.
func (s *OpsService) DelayTrips(ctx context.Context, ids []int64, minutes int, note string) (int, error) {
	note = strings.TrimSpace(note)
	switch {
	case len(ids) == 0:
		return 0, domain.ValidationError("select at least one trip")
	case minutes < 0:
		return 0, domain.ValidationError("delay_minutes must not be negative")
	case utf8.RuneCountInString(note) > domain.MaxDelayNote:
		return 0, domain.ValidationError("delay_note must be at most 200 characters")
	}

	n, err := s.trips.ApplyDelay(ctx, ids, minutes, note)
	if err != nil {
		return 0, err
	}
	s.invalidateTrips(ctx)

	for _, id := range ids {
		trip, err := s.trips.GetByID(ctx, id)
		if err != nil {
			s.log.Warn("delayed trip reload failed", slog.Int64("trip_id", id), slog.Any("error", err))
			continue
		}
		s.publishDelay(ctx, trip)
	}
	return n, nil
}

// NotifyPassengers queues one SMS per confirmed booking with a phone on the
// selected trips. Delivery happens in the worker.
func (s *OpsService) NotifyPassengers(ctx context.Context, ids []int64) (*NotifyResult, error) {
	if len(ids) == 0 {
		return nil, domain.ValidationError("select at least one trip")
	}

	bookings, err := s.bookings.ListConfirmedWithPhone(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{}
	for i := range bookings {
		b := &bookings[i]
		event := kafka.NewEvent(kafka.EventDelaySMS)
		event.TripID = b.TripID
		event.FlightCode = b.Trip.Flight.Code
		event.Reference = b.Reference
		event.Name = b.PassengerName
		event.Phone = b.PassengerPhone
		event.DelayMin = b.Trip.DelayMinutes
		event.Body = SMSBody(&b.Trip, b.Reference)

		if s.producer == nil {
			result.Failed++
			continue
		}
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, b.Reference, event, publishAttempts); err != nil {
			s.log.Error("failed to queue passenger sms", slog.String("reference", b.Reference), slog.Any("error", err))
			result.Failed++
			continue
		}
		result.Queued++
	}
	return result, nil
}

func (s *OpsService) ListTickets(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ValidationError(fmt.Sprintf("unknown ticket status %q", status))
	}
	return s.tickets.List(ctx, status)
}

func (s *OpsService) SetTicketStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ValidationError("select at least one ticket")
	}
	if !status.Valid() {
		return 0, domain.ValidationError(fmt.Sprintf("unknown ticket status %q", status))
	}
	return s.tickets.UpdateStatus(ctx, ids, status)
}

// SMSBody is the passenger text for a trip: the new departure when delayed,
// the on-time departure otherwise.
func SMSBody(trip *domain.Trip, reference string) string {
	sched := tracking.EffectiveSchedule(trip)
	route := trip.FromCode() + "->" + trip.ToCode()
	depart := sched.DepartAt.UTC().Format("Jan 2 15:04 MST")
	if sched.DelayMinutes > 0 {
		return fmt.Sprintf("AirTrack: flight %s %s is delayed by %d min. New departure %s. Ref %s.",
			trip.Flight.Code, route, sched.DelayMinutes, depart, reference)
	}
	return fmt.Sprintf("AirTrack: flight %s %s departs on time at %s. Ref %s.",
		trip.Flight.Code, route, depart, reference)
}

func (s *OpsService) publishDelay(ctx context.Context, trip *domain.Trip) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewEvent(kafka.EventTripDelayed)
	event.TripID = trip.ID
	event.FlightCode = trip.Flight.Code
	event.DelayMin = trip.DelayMinutes
	event.Body = trip.DelayNote
	departAt := tracking.EffectiveSchedule(trip).DepartAt
	event.DepartAt = &departAt

	if err := s.producer.Publish(ctx, s.eventsTopic, trip.Flight.Code, event); err != nil {
		s.log.Warn("failed to publish delay event", slog.Int64("trip_id", trip.ID), slog.Any("error", err))
	}
}

func (s *OpsService) invalidateTrips(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTrips(ctx); err != nil {
		s.log.Warn("trip cache invalidation failed", slog.Any("error", err))
	}
}

var _ OpsUseCase = (*OpsService)(nil)
