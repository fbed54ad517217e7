package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for delivering messages to a chat via a
// Telegram bot. It decouples the schedulers and services from the specific
// bot library; delivery failures surface as errors and are never retried
// by the caller.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
