package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/wneessen/go-mail"
)

type relay interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender mails booking notices through the configured SMTP relay. With no
// relay configured it logs the message instead.
type Sender struct {
	relay     relay
	fromEmail string
	fromName  string
	log       *slog.Logger
}

func NewSender(cfg config.EmailConfig, log *slog.Logger) (*Sender, error) {
	s := &Sender{fromEmail: cfg.FromEmail, fromName: cfg.FromName, log: log}
	if !cfg.Enabled() {
		log.Warn("smtp host is empty, booking emails are logged only")
		return s, nil
	}

	policy := mail.NoTLS
	if cfg.StartTLS {
		policy = mail.TLSMandatory
	}
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(cfg.Timeout()),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	s.relay = client
	return s, nil
}

func (s *Sender) Send(ctx context.Context, event kafka.Event) error {
	if event.Email == "" {
		return nil
	}

	if s.relay == nil {
		s.log.InfoContext(ctx, "send email",
			slog.String("to", event.Email),
			slog.String("subject", Subject(event)),
			slog.String("event_id", event.ID),
		)
		return nil
	}

	msg, err := s.message(event)
	if err != nil {
		return err
	}
	if err := s.relay.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	s.log.InfoContext(ctx, "email sent", slog.String("event_id", event.ID), slog.String("reference", event.Reference))
	return nil
}

func (s *Sender) message(event kafka.Event) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("from address %q: %w", s.fromEmail, err)
	}
	if err := msg.To(event.Email); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", event.Email, err)
	}
	msg.Subject(Subject(event))
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, Body(event))
	return msg, nil
}

func Subject(event kafka.Event) string {
	switch event.Type {
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Booking %s confirmed: flight %s, %d seat(s)", event.Reference, event.FlightCode, event.Seats)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled", event.Reference)
	default:
		return fmt.Sprintf("Update on flight %s", event.FlightCode)
	}
}

func Body(event kafka.Event) string {
	var b strings.Builder
	name := event.Name
	if name == "" {
		name = "traveller"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)

	switch event.Type {
	case kafka.EventBookingConfirmed:
		fmt.Fprintf(&b, "Your booking %s on flight %s is confirmed for %d seat(s).\n", event.Reference, event.FlightCode, event.Seats)
		if event.DepartAt != nil {
			fmt.Fprintf(&b, "Departure: %s UTC\n", event.DepartAt.UTC().Format(time.DateTime))
		}
		b.WriteString("\nKeep the booking reference: you need it to track the flight.\n")
	case kafka.EventBookingCancelled:
		fmt.Fprintf(&b, "Your booking %s has been cancelled.\n", event.Reference)
	default:
		fmt.Fprintf(&b, "There is an update on flight %s.\n", event.FlightCode)
	}

	b.WriteString("\nAirtrack")
	return b.String()
}
