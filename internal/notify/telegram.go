package notify

import (
	"context"
	"fmt"

	"github.com/leonid6372/stock-ledger/pkg/errs"
	"gopkg.in/telebot.v4"
)

type TelegramSender struct {
	bot *telebot.Bot
}

// NewTelegramSender builds a send-only bot; no updates are polled.
func NewTelegramSender(apiKey string) (*TelegramSender, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("telebot.NewBot: %w", err)
	}

	return &TelegramSender{bot: b}, nil
}

func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.bot.Send(&telebot.User{ID: chatID}, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		return errs.NewStack(err)
	}

	return nil
}
