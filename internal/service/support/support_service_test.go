package support

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/logger"
	"github.com/Domenick1991/airtrack/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	args := m.Called(ctx, ticket)
	if args.Error(0) == nil {
		ticket.ID = 42
	}
	return args.Error(0)
}

func (m *MockTicketRepository) List(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error) {
	args := m.Called(ctx, ids, status)
	return args.Int(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyTicketEscalated(ctx context.Context, ticket *domain.SupportTicket) {
	m.Called(ctx, ticket)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, event kafka.Event) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

type fixture struct {
	tickets  *MockTicketRepository
	notifier *MockNotifier
	producer *MockProducer
	service  *SupportService
}

func newFixture() *fixture {
	f := &fixture{tickets: &MockTicketRepository{}, notifier: &MockNotifier{}, producer: &MockProducer{}}
	f.service = NewSupportService(f.tickets, f.notifier, f.producer, "events", logger.Discard())
	return f
}

func TestSupportService_EmptyMessage(t *testing.T) {
	f := newFixture()

	_, err := f.service.Contact(context.Background(), ContactInput{Message: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSupportService_EasyTopicAnswered(t *testing.T) {
	f := newFixture()

	result, err := f.service.Contact(context.Background(), ContactInput{Message: "How much baggage can I bring?"})

	require.NoError(t, err)
	assert.False(t, result.Escalated)
	assert.Equal(t, triage.HandledByAI, result.HandledBy)
	assert.NotEmpty(t, result.Reply)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupportService_EscalationNeedsEmail(t *testing.T) {
	f := newFixture()

	result, err := f.service.Contact(context.Background(), ContactInput{Message: "I need a representative"})

	require.NoError(t, err)
	assert.False(t, result.Escalated)
	assert.Equal(t, ReplyMissingEmail, result.Reply)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupportService_EscalationInvalidEmail(t *testing.T) {
	f := newFixture()

	result, err := f.service.Contact(context.Background(), ContactInput{Message: "I need a representative", Email: "not-an-email"})

	require.NoError(t, err)
	assert.False(t, result.Escalated)
	assert.Equal(t, ReplyInvalidEmail, result.Reply)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupportService_EscalationCreatesTicket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := strings.Repeat("p", 250)

	f.tickets.On("Create", ctx, mock.MatchedBy(func(tk *domain.SupportTicket) bool {
		return tk.Name == "Guest" && tk.Email == "a@b.co" && len(tk.SourcePage) == 200 && tk.Status == domain.TicketStatusOpen
	})).Return(nil).Once()
	f.notifier.On("NotifyTicketEscalated", ctx, mock.AnythingOfType("*domain.SupportTicket")).Once()
	f.producer.On("Publish", ctx, "events", mock.Anything, mock.MatchedBy(func(e kafka.Event) bool {
		return e.Type == kafka.EventTicketEscalated && e.TicketID == 42
	})).Return(nil).Once()

	result, err := f.service.Contact(ctx, ContactInput{
		Email:      " a@b.co ",
		Message:    "I want to speak to a representative about a chargeback",
		SourcePage: source,
	})

	require.NoError(t, err)
	assert.True(t, result.Escalated)
	assert.Equal(t, ReplyEscalated, result.Reply)
	assert.Equal(t, int64(42), result.TicketID)
	f.tickets.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestSupportService_LongMessageEscalates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.notifier.On("NotifyTicketEscalated", ctx, mock.Anything).Once()
	f.producer.On("Publish", ctx, "events", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := f.service.Contact(ctx, ContactInput{Name: "Mona", Email: "m@example.com", Message: strings.Repeat("x", 221)})

	require.NoError(t, err)
	assert.True(t, result.Escalated)
}

func TestSupportService_TicketStoreFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tickets.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := f.service.Contact(ctx, ContactInput{Email: "m@example.com", Message: "this is a complaint"})

	assert.Error(t, err)
	f.notifier.AssertNotCalled(t, "NotifyTicketEscalated", mock.Anything, mock.Anything)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éé", truncate("ééé", 2))
}
