package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxPreview     = 300
	defaultTimeout = 8 * time.Second
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts escalated support tickets to the operations chat.
// Alerts are best effort: a missing or unreachable bot never fails the caller.
type TelegramNotifier struct {
	bot     botSender
	chatID  int64
	timeout time.Duration
	logger  *slog.Logger
}

// NewTelegramNotifier returns a disabled notifier when the bot is not
// configured or the Bot API cannot be reached at startup.
func NewTelegramNotifier(cfg config.TelegramConfig, logger *slog.Logger) *TelegramNotifier {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	disabled := &TelegramNotifier{timeout: timeout, logger: logger}

	if cfg.BotToken == "" || cfg.OpsChatID == 0 {
		logger.Warn("telegram bot token or ops chat id is empty, ops alerts disabled")
		return disabled
	}

	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		logger.Warn("telegram bot unavailable, ops alerts disabled", slog.String("error", err.Error()))
		return disabled
	}

	return &TelegramNotifier{bot: bot, chatID: cfg.OpsChatID, timeout: timeout, logger: logger}
}

func (n *TelegramNotifier) NotifyTicketEscalated(ctx context.Context, ticket *domain.SupportTicket) {
	message := ticket.Message
	if r := []rune(message); len(r) > maxPreview {
		message = string(r[:maxPreview]) + "…"
	}
	text := fmt.Sprintf(
		"New support ticket #%d\nFrom: %s <%s>\nPage: %s\n\n%s",
		ticket.ID, ticket.Name, ticket.Email, ticket.SourcePage, message,
	)
	n.send(ctx, text)
}

// send waits for the Bot API at most until ctx is done or the timeout
// passes. A send still in flight is left to the HTTP client timeout.
func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.bot == nil {
		n.logger.Debug("ops alert skipped (bot disabled)", slog.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.logger.Debug("ops alert skipped (context cancelled)", slog.Int64("chat_id", n.chatID))
		return
	}

	done := make(chan error, 1)
	msg := tgbotapi.NewMessage(n.chatID, text)
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			n.logger.Error("failed to send telegram ops alert",
				slog.Int64("chat_id", n.chatID),
				slog.String("error", err.Error()),
			)
		}
	case <-ctx.Done():
		n.logger.Warn("telegram ops alert abandoned", slog.Int64("chat_id", n.chatID), slog.String("reason", ctx.Err().Error()))
	case <-timer.C:
		n.logger.Warn("telegram ops alert timed out", slog.Int64("chat_id", n.chatID), slog.Duration("timeout", n.timeout))
	}
}
