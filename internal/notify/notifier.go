package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier delivers a text message to a chat. Dispatch is fire-and-forget
// from the evaluator's perspective: failures are logged by the caller, never
// retried.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Telegram sends messages through the Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger zerolog.Logger
}

// NewTelegram wraps an authorised bot client.
func NewTelegram(api *tgbotapi.BotAPI, logger zerolog.Logger) *Telegram {
	return &Telegram{
		api:    api,
		logger: logger.With().Str("component", "telegram_notifier").Logger(),
	}
}

// Send pushes a Markdown message to the chat.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	t.logger.Debug().Int64("chat_id", chatID).Msg("notification sent")
	return nil
}

var _ Notifier = (*Telegram)(nil)
