// Package advisor turns trip insights into operator-facing text, optionally
// through an external text-generation backend.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/Domenick1991/airtrack/internal/logger"
	"github.com/Domenick1991/airtrack/internal/tracking"
)

const (
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"

	defaultTimeout = 8 * time.Second
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Advisor struct {
	generator Generator
	timeout   time.Duration
	log       *slog.Logger
}

type Option func(*Advisor)

func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) { a.log = l }
}

// New builds an Advisor. A nil generator makes every call return the
// deterministic summary.
func New(generator Generator, opts ...Option) *Advisor {
	a := &Advisor{generator: generator, timeout: defaultTimeout, log: logger.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Message returns the text and which source produced it. Backend failures
// are logged and replaced by the summary; they are never returned.
func (a *Advisor) Message(ctx context.Context, trip *domain.Trip, now time.Time) (string, string) {
	fallback := tracking.Summary(trip, now)
	if a.generator == nil {
		return fallback, SourceFallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.generator.Generate(ctx, prompt(trip, fallback))
	if err != nil {
		a.log.WarnContext(ctx, "text generation failed, using fallback",
			slog.Int64("trip_id", trip.ID),
			slog.String("error", err.Error()),
		)
		return fallback, SourceFallback
	}
	return text, SourceOpenAI
}

func prompt(trip *domain.Trip, heuristic string) string {
	s := tracking.EffectiveSchedule(trip)
	return fmt.Sprintf(
		"You are an airline operations copilot. Keep response under 55 words. "+
			"Flight: %s. Route: %s to %s. Departure: %s. Arrival: %s. Heuristic insight: %s",
		trip.Flight.Code, trip.FromCode(), trip.ToCode(),
		s.DepartAt.Format(time.RFC3339), s.ArriveAt.Format(time.RFC3339), heuristic,
	)
}
