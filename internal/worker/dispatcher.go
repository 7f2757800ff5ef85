// Package worker delivers notifications read from the notifications topic.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/sms"
	kafkaGo "github.com/segmentio/kafka-go"
)

type EmailSender interface {
	Send(ctx context.Context, event kafka.Event) error
}

type Dispatcher struct {
	email EmailSender
	sms   sms.Sender
	log   *slog.Logger
}

func NewDispatcher(email EmailSender, smsSender sms.Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{email: email, sms: smsSender, log: log}
}

// Handle routes one message to its channel. Undecodable messages and failed
// deliveries are logged and skipped so one bad record cannot stall the
// consumer group.
func (d *Dispatcher) Handle(ctx context.Context, msg kafkaGo.Message) error {
	event, err := kafka.DecodeEvent(msg)
	if err != nil {
		d.log.Warn("skip undecodable notification", slog.Int64("offset", msg.Offset), slog.Any("error", err))
		return nil
	}

	switch event.Type {
	case kafka.EventBookingConfirmed, kafka.EventBookingCancelled:
		if err := d.email.Send(ctx, event); err != nil {
			d.log.Error("email delivery failed", slog.String("event_id", event.ID), slog.Any("error", err))
		}
	case kafka.EventDelaySMS:
		d.sendSMS(ctx, event)
	default:
		d.log.Debug("ignore notification", slog.String("type", event.Type))
	}
	return nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, event kafka.Event) {
	err := d.sms.Send(ctx, event.Phone, event.Body)
	switch {
	case err == nil:
		d.log.Info("sms sent", slog.String("reference", event.Reference), slog.Int64("trip_id", event.TripID))
	case errors.Is(err, sms.ErrNotConfigured):
		d.log.Warn("sms provider not configured, message dropped", slog.String("reference", event.Reference))
	default:
		d.log.Error("sms delivery failed", slog.String("reference", event.Reference), slog.Any("error", err))
	}
}
