package support

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/triage"
	"github.com/Domenick1991/airtrack/internal/validate"
)

const (
	maxSourcePage = 200
	guestName     = "Guest"
)

const (
	ReplyEscalated    = "Thanks. A representative will get back to you soon. Your request has been forwarded to our support desk."
	ReplyMissingEmail = "This looks like a complex request. Please add your email and send again so a representative can contact you soon."
	ReplyInvalidEmail = "This needs a representative. Please share a valid email so our team can follow up with you soon."
)

type SupportUseCase interface {
	Contact(ctx context.Context, input ContactInput) (*ContactResult, error)
}

type Notifier interface {
	NotifyTicketEscalated(ctx context.Context, ticket *domain.SupportTicket)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, event kafka.Event) error
}

type ContactInput struct {
	Name       string
	Email      string
	Message    string
	SourcePage string
}

type ContactResult struct {
	HandledBy string
	Escalated bool
	Reply     string
	TicketID  int64
}

type SupportService struct {
	tickets     repository.TicketRepository
	notifier    Notifier
	producer    Producer
	eventsTopic string
	log         *slog.Logger
}

func NewSupportService(tickets repository.TicketRepository, notifier Notifier, producer Producer, eventsTopic string, log *slog.Logger) *SupportService {
	if log == nil {
		log = slog.Default()
	}
	return &SupportService{
		tickets:     tickets,
		notifier:    notifier,
		producer:    producer,
		eventsTopic: eventsTopic,
		log:         log,
	}
}

// Contact triages a message. A ticket is stored only when triage escalates and
// the sender left a valid email; every other outcome is a reply.
func (s *SupportService) Contact(ctx context.Context, input ContactInput) (*ContactResult, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domain.ValidationError("Please enter your message.")
	}

	result := triage.Classify(message)
	if !result.Escalate {
		s.log.Debug("support message answered", slog.String("topic", triage.Topic(message)))
		return &ContactResult{HandledBy: result.HandledBy, Reply: result.Reply}, nil
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return &ContactResult{HandledBy: triage.HandledByAI, Reply: ReplyMissingEmail}, nil
	}
	if !validate.Email(email) {
		return &ContactResult{HandledBy: triage.HandledByAI, Reply: ReplyInvalidEmail}, nil
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = guestName
	}
	ticket := &domain.SupportTicket{
		Name:       name,
		Email:      email,
		Message:    message,
		SourcePage: truncate(strings.TrimSpace(input.SourcePage), maxSourcePage),
		Status:     domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info("support ticket escalated", slog.Int64("ticket_id", ticket.ID), slog.Int("length", utf8.RuneCountInString(message)))
	if s.notifier != nil {
		s.notifier.NotifyTicketEscalated(ctx, ticket)
	}
	s.publish(ctx, ticket)

	return &ContactResult{
		HandledBy: triage.HandledByAI,
		Escalated: true,
		Reply:     ReplyEscalated,
		TicketID:  ticket.ID,
	}, nil
}

func (s *SupportService) publish(ctx context.Context, ticket *domain.SupportTicket) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewEvent(kafka.EventTicketEscalated)
	event.TicketID = ticket.ID
	event.Name = ticket.Name
	event.Email = ticket.Email
	event.Body = ticket.Message
	if err := s.producer.Publish(ctx, s.eventsTopic, event.ID, event); err != nil {
		s.log.Warn("failed to publish ticket event", slog.Int64("ticket_id", ticket.ID), slog.Any("error", err))
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

var _ SupportUseCase = (*SupportService)(nil)
