package notify

import (
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"
)

const (
	telegramBotToken = "TELEGRAM_BOT_TOKEN"
	telegramChatID   = "TELEGRAM_CHAT_ID"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is a notifier that pushes messages to a telegram chat.
// The bot token and the chat id are read from the environment.
type Telegram struct {
	bot    botAPI
	chatID int64
}

// NewTelegram creates a telegram notifier from the environment variables
// TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
func NewTelegram() (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv(telegramBotToken))
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	chatID, err := strconv.ParseInt(os.Getenv(telegramChatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing chat id: %w", err)
	}
	log.Info().Str("user", bot.Self.UserName).Msg("telegram bot authorised")
	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Send implements the Notifier interface.
func (t *Telegram) Send(message string) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, message)); err != nil {
		return fmt.Errorf("could not send message: %w", err)
	}
	return nil
}
