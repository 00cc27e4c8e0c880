package bot

import (
	"fmt"

	"gopkg.in/telebot.v4"
)

// startHandler process command /start. It replies with the chat id, which is
// what has to be configured as the notification recipient.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username, "chat_id", ctx.Chat().ID)

	msg := fmt.Sprintf("Hello! This chat id is %d.", ctx.Chat().ID)
	if ctx.Chat().ID == b.chatID {
		msg += " Inventory updates are delivered here."
	}

	if err := ctx.Send(msg); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}
