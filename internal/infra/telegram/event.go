package telegram

import (
	"gopkg.in/telebot.v3"
)

// Button is one inline-keyboard button: display text plus callback data.
type Button struct {
	Text string
	Data string
}

// Event is the surface the menu handlers render through, independent of
// whether the update arrived as a command message or a callback query.
type Event interface {
	ChatID() int64
	Respond(text string, buttons [][]Button) error
}

// MessageContext answers a command by sending a new message.
type MessageContext struct {
	c telebot.Context
}

func NewMessageContext(c telebot.Context) *MessageContext {
	return &MessageContext{c: c}
}

func (m *MessageContext) ChatID() int64 {
	return m.c.Chat().ID
}

func (m *MessageContext) Respond(text string, buttons [][]Button) error {
	return m.c.Send(text, buildSendOptions(buttons))
}

// CallbackContext answers a callback query by editing the message the
// query came from.
type CallbackContext struct {
	c telebot.Context
}

func NewCallbackContext(c telebot.Context) *CallbackContext {
	return &CallbackContext{c: c}
}

func (cc *CallbackContext) ChatID() int64 {
	return cc.c.Chat().ID
}

func (cc *CallbackContext) Respond(text string, buttons [][]Button) error {
	return cc.c.Edit(text, buildSendOptions(buttons))
}

// buildSendOptions converts button rows into an inline keyboard in one
// place, so handlers only deal with plain text/data pairs.
func buildSendOptions(buttons [][]Button) *telebot.SendOptions {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if len(buttons) == 0 {
		return opts
	}

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(buttons))
	for _, row := range buttons {
		btns := make([]telebot.Btn, 0, len(row))
		for _, b := range row {
			btns = append(btns, markup.Data(b.Text, b.Data))
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Inline(rows...)
	opts.ReplyMarkup = markup
	return opts
}
