// Package sms delivers text messages to passenger phones.
package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/airtrack/config"
	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotConfigured = errors.New("sms provider is not configured")

type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

type TwilioSender struct {
	cfg    config.SMSConfig
	client *twilio.RestClient
}

func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	return newTwilioSender(cfg, &http.Client{Timeout: cfg.Timeout()})
}

func newTwilioSender(cfg config.SMSConfig, httpClient *http.Client) *TwilioSender {
	base := &client.Client{
		Credentials: client.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(cfg.AccountSID)

	return &TwilioSender{
		cfg:    cfg,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

// Send posts one message. The SDK call is bounded by the HTTP client
// timeout; ctx is only checked before dialing.
func (s *TwilioSender) Send(ctx context.Context, phone, body string) error {
	if !s.cfg.Enabled() {
		return ErrNotConfigured
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors.New("phone number is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.cfg.FromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		var restErr *client.TwilioRestError
		if errors.As(err, &restErr) {
			return fmt.Errorf("sms provider: %s (code %d)", restErr.Message, restErr.Code)
		}
		return fmt.Errorf("sending sms: %w", err)
	}
	return nil
}

var _ Sender = (*TwilioSender)(nil)
