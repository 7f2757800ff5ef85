package ops

import (
	"context"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAirportRepository struct {
	mock.Mock
}

func (m *MockAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	return m.Called(ctx, airport).Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return m.Called(ctx, flight).Error(0)
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Search(ctx context.Context, filter repository.TripFilter) ([]domain.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) ExistsFrom(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *MockTripRepository) Duplicate(ctx context.Context, ids []int64, shift time.Duration) (int, error) {
	args := m.Called(ctx, ids, shift)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) ApplyDelay(ctx context.Context, ids []int64, minutes int, note string) (int, error) {
	args := m.Called(ctx, ids, minutes, note)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) Metrics(ctx context.Context, now time.Time, next int) (*domain.OpsMetrics, error) {
	args := m.Called(ctx, now, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpsMetrics), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) FindConfirmed(ctx context.Context, tripID int64, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, tripID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BookingWithTrip), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListConfirmedWithPhone(ctx context.Context, tripIDs []int64) ([]domain.BookingWithTrip, error) {
	args := m.Called(ctx, tripIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithTrip), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	return m.Called(ctx, ticket).Error(0)
}

func (m *MockTicketRepository) List(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error) {
	args := m.Called(ctx, ids, status)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateTrips(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCache) InvalidateAirports(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, event kafka.Event) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, event kafka.Event, maxRetries int) error {
	return m.Called(ctx, topic, key, event, maxRetries).Error(0)
}
