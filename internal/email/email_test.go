package email

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func confirmedEvent() kafka.Event {
	e := kafka.NewEvent(kafka.EventBookingConfirmed)
	e.Reference = "K7Q2ZP4M"
	e.FlightCode = "AT201"
	e.Seats = 2
	e.Name = "Jane"
	e.Email = "jane@example.com"
	depart := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	e.DepartAt = &depart
	return e
}

func TestSubject(t *testing.T) {
	e := confirmedEvent()

	assert.Equal(t, "Booking K7Q2ZP4M confirmed: flight AT201, 2 seat(s)", Subject(e))

	e.Type = kafka.EventBookingCancelled
	assert.Equal(t, "Booking K7Q2ZP4M cancelled", Subject(e))
}

func TestBody(t *testing.T) {
	body := Body(confirmedEvent())

	assert.True(t, strings.HasPrefix(body, "Hello Jane,"))
	assert.Contains(t, body, "booking K7Q2ZP4M on flight AT201 is confirmed for 2 seat(s)")
	assert.Contains(t, body, "Departure: 2026-03-01 08:30:00 UTC")

	assert.Contains(t, Body(kafka.Event{Type: kafka.EventBookingCancelled, Reference: "K7Q2ZP4M"}), "booking K7Q2ZP4M has been cancelled")
}

func TestSender_LogsWithoutRelay(t *testing.T) {
	s, err := NewSender(config.EmailConfig{}, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, s.relay)

	assert.NoError(t, s.Send(context.Background(), kafka.Event{Type: kafka.EventBookingConfirmed}))
	assert.NoError(t, s.Send(context.Background(), confirmedEvent()))
}

func TestSender_SendsThroughRelay(t *testing.T) {
	relay := &MockRelay{}
	s := &Sender{relay: relay, fromEmail: "no-reply@airtrack.test", fromName: "Airtrack", log: logger.Discard()}
	ctx := context.Background()

	relay.On("DialAndSendWithContext", ctx, mock.MatchedBy(func(msgs []*mail.Msg) bool {
		if len(msgs) != 1 {
			return false
		}
		m := msgs[0]
		return assert.ObjectsAreEqual([]string{"<jane@example.com>"}, m.GetToString()) &&
			assert.ObjectsAreEqual([]string{"Booking K7Q2ZP4M confirmed: flight AT201, 2 seat(s)"}, m.GetGenHeader(mail.HeaderSubject))
	})).Return(nil).Once()

	require.NoError(t, s.Send(ctx, confirmedEvent()))
	relay.AssertExpectations(t)
}

func TestSender_RelayErrors(t *testing.T) {
	relay := &MockRelay{}
	s := &Sender{relay: relay, fromEmail: "no-reply@airtrack.test", log: logger.Discard()}
	relay.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(errors.New("dial failed: connection refused")).Once()

	err := s.Send(context.Background(), confirmedEvent())

	assert.ErrorContains(t, err, "connection refused")
}

func TestSender_InvalidRecipientSkipsRelay(t *testing.T) {
	relay := &MockRelay{}
	s := &Sender{relay: relay, fromEmail: "no-reply@airtrack.test", log: logger.Discard()}
	e := confirmedEvent()
	e.Email = "not an address"

	assert.Error(t, s.Send(context.Background(), e))
	relay.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything, mock.Anything)
}

// smtpServer accepts one plain SMTP session and returns the DATA section.
func smtpServer(t *testing.T) (int, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	data := make(chan string, 1)
	var once sync.Once
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		reply := func(line string) { conn.Write([]byte(line + "\r\n")) }
		reply("220 localhost ESMTP")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				reply("250-localhost")
				reply("250 8BITMIME")
			case strings.HasPrefix(cmd, "DATA"):
				reply("354 go ahead")
				var body strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					body.WriteString(l)
				}
				once.Do(func() { data <- body.String() })
				reply("250 queued")
			case strings.HasPrefix(cmd, "QUIT"):
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, data
}

func TestSender_DeliversOverSMTP(t *testing.T) {
	port, data := smtpServer(t)
	s, err := NewSender(config.EmailConfig{
		SMTPHost:       "127.0.0.1",
		SMTPPort:       port,
		FromEmail:      "no-reply@airtrack.test",
		FromName:       "Airtrack",
		TimeoutSeconds: 2,
	}, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), confirmedEvent()))

	select {
	case got := <-data:
		assert.Contains(t, got, "jane@example.com")
		assert.Contains(t, got, "Subject: Booking K7Q2ZP4M confirmed")
		assert.Contains(t, got, "is confirmed for 2 seat(s)")
	case <-time.After(2 * time.Second):
		t.Fatal("no message reached the relay")
	}
}
