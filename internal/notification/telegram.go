// Package notification доставляет уведомления во внешние каналы.
package notification

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramPusher отправляет уведомления личным сообщением в Telegram
type TelegramPusher struct {
	bot    *bot.Bot
	logger *zap.Logger
}

// NewTelegramPusher создаёт клиента бота. Бот только отправляет сообщения,
// входящие апдейты не читаются.
func NewTelegramPusher(token string, logger *zap.Logger, opts ...bot.Option) (*TelegramPusher, error) {
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramPusher{
		bot:    b,
		logger: logger,
	}, nil
}

// Push отправляет текст в чат
func (p *TelegramPusher) Push(ctx context.Context, chatID int64, text string) error {
	msg, err := p.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	p.logger.Debug("Notification pushed to Telegram",
		zap.Int64("chat_id", chatID),
		zap.Int("message_id", msg.ID),
	)
	return nil
}
