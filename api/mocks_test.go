package api

import (
	"context"
	"errors"

	"github.com/Domenick1991/airtrack/internal/auth"
	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/service/booking"
	"github.com/Domenick1991/airtrack/internal/service/ops"
	"github.com/Domenick1991/airtrack/internal/service/support"
	"github.com/Domenick1991/airtrack/internal/service/trips"
	"github.com/Domenick1991/airtrack/internal/service/users"
	"github.com/Domenick1991/airtrack/internal/tracking"
	"github.com/stretchr/testify/mock"
)

type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) Search(ctx context.Context, from, to string) (*trips.SearchResult, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.SearchResult), args.Error(1)
}

func (m *MockTripUseCase) Airports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockTripUseCase) Detail(ctx context.Context, id int64, ref string) (*trips.TripDetail, error) {
	args := m.Called(ctx, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.TripDetail), args.Error(1)
}

func (m *MockTripUseCase) Status(ctx context.Context, id int64, ref string) (*trips.StatusReport, error) {
	args := m.Called(ctx, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.StatusReport), args.Error(1)
}

func (m *MockTripUseCase) Advice(ctx context.Context, id int64, ref string) (*trips.Advice, error) {
	args := m.Called(ctx, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.Advice), args.Error(1)
}

func (m *MockTripUseCase) Position(ctx context.Context, id int64, ref string) (*tracking.Position, error) {
	args := m.Called(ctx, id, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Position), args.Error(1)
}

func (m *MockTripUseCase) LiveNetwork(ctx context.Context, from string) (*trips.Network, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.Network), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, input booking.BookInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListForUser(ctx context.Context, userID int64) ([]domain.BookingWithTrip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithTrip), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, userID int64, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockSupportUseCase struct {
	mock.Mock
}

func (m *MockSupportUseCase) Contact(ctx context.Context, input support.ContactInput) (*support.ContactResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.ContactResult), args.Error(1)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Signup(ctx context.Context, input users.SignupInput) (*users.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.Session), args.Error(1)
}

func (m *MockUserUseCase) Signin(ctx context.Context, identifier, password string) (*users.Session, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.Session), args.Error(1)
}

type MockOpsUseCase struct {
	mock.Mock
}

func (m *MockOpsUseCase) Metrics(ctx context.Context) (*domain.OpsMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpsMetrics), args.Error(1)
}

func (m *MockOpsUseCase) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockOpsUseCase) CreateAirport(ctx context.Context, input ops.AirportInput) (*domain.Airport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockOpsUseCase) ListFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockOpsUseCase) CreateFlight(ctx context.Context, input ops.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockOpsUseCase) ListTrips(ctx context.Context, filter tracking.LiveFilter) ([]domain.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockOpsUseCase) CreateTrip(ctx context.Context, input ops.TripInput) (*domain.Trip, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockOpsUseCase) DuplicateTrips(ctx context.Context, ids []int64) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockOpsUseCase) DelayTrips(ctx context.Context, ids []int64, minutes int, note string) (int, error) {
	args := m.Called(ctx, ids, minutes, note)
	return args.Int(0), args.Error(1)
}

func (m *MockOpsUseCase) NotifyPassengers(ctx context.Context, ids []int64) (*ops.NotifyResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.NotifyResult), args.Error(1)
}

func (m *MockOpsUseCase) ListTickets(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupportTicket), args.Error(1)
}

func (m *MockOpsUseCase) SetTicketStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error) {
	args := m.Called(ctx, ids, status)
	return args.Int(0), args.Error(1)
}

// stubTokens accepts "passenger" and "staff" as tokens.
type stubTokens struct{}

func (stubTokens) Parse(token string) (*auth.Claims, error) {
	switch token {
	case "passenger":
		return &auth.Claims{UserID: 7, Username: "jane", Email: "jane@example.com"}, nil
	case "staff":
		return &auth.Claims{UserID: 1, Username: "ops", Email: "ops@example.com", IsStaff: true}, nil
	}
	return nil, errors.New("bad token")
}
