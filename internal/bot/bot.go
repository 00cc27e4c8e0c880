package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"
)

// Notifier delivers a text message to the pre-configured recipient.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Bot contains the bot API instance and the chat that receives inventory updates.
type Bot struct {
	bot    API
	log    *slog.Logger
	chatID int64
}

func NewBot(log *slog.Logger, token string, chatID int64, poller time.Duration) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance := &Bot{bot: bot, log: log, chatID: chatID}

	botInstance.registerRoutes()

	return botInstance, nil
}

// Notify sends text to the configured chat.
func (b *Bot) Notify(ctx context.Context, text string) error {
	const opn = "bot.Notify"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	b.log.InfoContext(ctx, "Sending Telegram notification", "op", opn, "chat_id", b.chatID)
	if _, err := b.bot.Send(telebot.ChatID(b.chatID), text); err != nil {
		return fmt.Errorf("%s: failed to send message to chat %d: %w", opn, b.chatID, err)
	}
	b.log.InfoContext(ctx, "Telegram message sent successfully", "op", opn)

	return nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
}
