package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/validate"
)

const (
	referenceAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxReferenceAttempts = 10
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error)
	Cancel(ctx context.Context, userID int64, reference string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, event kafka.Event) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	trips              repository.TripRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	newReference       func() (string, error)
	log                *slog.Logger
}

// BookInput is a passenger's request. AccountEmail fills in a blank Email.
type BookInput struct {
	TripID       int64
	UserID       int64
	AccountEmail string
	Name         string
	Email        string
	Phone        string
	Seats        int
}

type bookingForm struct {
	Name  string `validate:"required,max=120" field:"passenger_name"`
	Email string `validate:"required,email,max=254" field:"passenger_email"`
	Phone string `validate:"max=24" field:"passenger_phone"`
	Seats int    `validate:"min=1,max=9" field:"seats"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithReferenceGenerator(gen func() (string, error)) BookingServiceOption {
	return func(s *BookingService) {
		s.newReference = gen
	}
}

func WithLogger(l *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = l
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	trips repository.TripRepository,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		trips:        trips,
		producer:     producer,
		eventsTopic:  eventsTopic,
		newReference: NewReference,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	trip, err := s.trips.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	form := bookingForm{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Phone: strings.TrimSpace(input.Phone),
		Seats: input.Seats,
	}
	if form.Email == "" {
		form.Email = strings.TrimSpace(input.AccountEmail)
	}
	if form.Seats == 0 {
		form.Seats = domain.MinSeats
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		TripID:         trip.ID,
		PassengerName:  form.Name,
		PassengerEmail: form.Email,
		PassengerPhone: form.Phone,
		Seats:          form.Seats,
		Status:         domain.BookingStatusConfirmed,
	}
	if input.UserID != 0 {
		uid := input.UserID
		booking.UserID = &uid
	}

	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := s.newReference()
		if err != nil {
			return nil, fmt.Errorf("generate reference: %w", err)
		}
		booking.Reference = ref

		err = s.bookings.Create(ctx, booking)
		if err == nil {
			s.publishConfirmed(ctx, booking, trip)
			return booking, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return nil, err
		}
		s.log.Debug("booking reference collision", slog.String("reference", ref), slog.Int("attempt", attempt+1))
	}
	return nil, domain.ErrReferenceExhausted
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Cancel is limited to the account that made the booking. Cancelling twice
// is a no-op.
func (s *BookingService) Cancel(ctx context.Context, userID int64, reference string) (*domain.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if current.UserID == nil || *current.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	updated, err := s.bookings.Cancel(ctx, reference)
	if err != nil {
		return nil, err
	}

	event := bookingEvent(kafka.EventBookingCancelled, updated)
	s.publish(ctx, s.eventsTopic, updated.Reference, event)
	return updated, nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, booking *domain.Booking, trip *domain.Trip) {
	event := bookingEvent(kafka.EventBookingConfirmed, booking)
	event.FlightCode = trip.Flight.Code
	departAt := trip.DepartAt
	event.DepartAt = &departAt

	s.publish(ctx, s.eventsTopic, booking.Reference, event)
	s.publish(ctx, s.notificationsTopic, booking.Reference, event)
}

func (s *BookingService) publish(ctx context.Context, topic, key string, event kafka.Event) {
	if s.producer == nil || topic == "" {
		return
	}
	if err := s.producer.Publish(ctx, topic, key, event); err != nil {
		s.log.Warn("failed to publish booking event",
			slog.String("type", event.Type),
			slog.String("reference", key),
			slog.Any("error", err))
	}
}

func bookingEvent(eventType string, b *domain.Booking) kafka.Event {
	event := kafka.NewEvent(eventType)
	event.TripID = b.TripID
	event.Reference = b.Reference
	event.Name = b.PassengerName
	event.Email = b.PassengerEmail
	event.Phone = b.PassengerPhone
	event.Seats = b.Seats
	return event
}

// NewReference returns a random booking reference of domain.ReferenceLength
// characters from [A-Z0-9].
func NewReference() (string, error) {
	const limit = 256 - 256%len(referenceAlphabet)

	out := make([]byte, 0, domain.ReferenceLength)
	buf := make([]byte, domain.ReferenceLength*2)
	for len(out) < domain.ReferenceLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, referenceAlphabet[int(b)%len(referenceAlphabet)])
			if len(out) == domain.ReferenceLength {
				break
			}
		}
	}
	return string(out), nil
}

var _ BookingUseCase = (*BookingService)(nil)
