package notification

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramChannel delivers notices as Telegram chat messages. Channel
// addresses are Telegram chat IDs.
type TelegramChannel struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramChannel authenticates against the Bot API with token.
func NewTelegramChannel(token string) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramChannel{bot: bot}, nil
}

func (t *TelegramChannel) Send(_ context.Context, address, text string) error {
	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat id %q: %w", address, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", chatID, err)
	}
	return nil
}

// SetWebhook points the bot at baseURL + "/api/telegram/webhook".
func (t *TelegramChannel) SetWebhook(baseURL string) error {
	wh, err := tgbotapi.NewWebhook(baseURL + "/api/telegram/webhook")
	if err != nil {
		return fmt.Errorf("telegram: webhook url: %w", err)
	}
	if _, err := t.bot.Request(wh); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}
	return nil
}

func (t *TelegramChannel) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return t.bot.GetWebhookInfo()
}

// Username is the bot's @name, used for deep links.
func (t *TelegramChannel) Username() string {
	return t.bot.Self.UserName
}
