package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// PaymentEvent is what the merchant is told about a settled charge.
type PaymentEvent struct {
	TransactionID string
	Gateway       string
	Status        string
	Amount        string
}

// Notifier posts payment events to a Telegram chat.
type Notifier struct {
	bot    *tele.Bot
	chat   tele.ChatID
	logger *zap.Logger
}

// NewNotifier builds an offline bot (no getMe round trip). apiURL may be empty
// for the public Telegram API.
func NewNotifier(token string, chatID int64, apiURL string, logger *zap.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram notifier needs a bot token and chat id")
	}
	bot, err := tele.NewBot(tele.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	return &Notifier{bot: bot, chat: tele.ChatID(chatID), logger: logger}, nil
}

// NotifyPayment sends an HTML message describing ev.
func (n *Notifier) NotifyPayment(_ context.Context, ev PaymentEvent) error {
	text := fmt.Sprintf(
		"✅ <b>PIX %s</b>\n\nGateway: <code>%s</code>\nTransaction: <code>%s</code>",
		html.EscapeString(ev.Status),
		html.EscapeString(ev.Gateway),
		html.EscapeString(ev.TransactionID),
	)
	if ev.Amount != "" {
		text += fmt.Sprintf("\nAmount: R$ %s", html.EscapeString(ev.Amount))
	}

	if _, err := n.bot.Send(n.chat, text, tele.ModeHTML); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	n.logger.Debug("payment notification sent", zap.String("transaction_id", ev.TransactionID))
	return nil
}
