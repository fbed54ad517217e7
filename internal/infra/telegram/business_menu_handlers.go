package telegram

import (
	"context"
	"fmt"

	"github.com/chanhengseang3/Telegram-Business/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Callback uniques for the business menu.
const (
	uniqueCurrentShift = "menu_current_shift"
	uniqueOpenShift    = "menu_open_shift"
	uniqueCloseShift   = "menu_close_shift"
	uniqueBackToMenu   = "back_to_menu"
)

const menuText = `🏢 **ផ្ទាំងគ្រប់គ្រងអាជីវកម្ម**

ជ្រើសរើសសកម្មភាពខាងក្រោម:`

func menuButtons() [][]Button {
	return [][]Button{
		{{Text: "📊 វេនបច្ចុប្បន្ន", Data: uniqueCurrentShift}},
		{{Text: "🟢 បើកវេន", Data: uniqueOpenShift}, {Text: "🔒 បិទវេន", Data: uniqueCloseShift}},
	}
}

func backButtons() [][]Button {
	return [][]Button{
		{{Text: "⬅️ ត្រឡប់ទៅម៉ឺនុយ", Data: uniqueBackToMenu}},
	}
}

// RegisterBusinessMenuHandlers wires /menu and its callback buttons. Every
// handler renders through the Event adapter, so the same rendering code
// serves both command messages and callback edits.
func RegisterBusinessMenuHandlers(
	ctx context.Context,
	b *telebot.Bot,
	shiftService app.ShiftService,
	baseLogger *logrus.Entry,
) {
	menuLogger := baseLogger.WithField("handler_group", "business_menu")

	b.Handle("/menu", func(c telebot.Context) error {
		menuLogger.WithField("chat_id", c.Chat().ID).Info("Processing /menu command")
		return NewMessageContext(c).Respond(menuText, menuButtons())
	})

	b.Handle(&telebot.Btn{Unique: uniqueBackToMenu}, func(c telebot.Context) error {
		if err := c.Respond(); err != nil {
			menuLogger.WithError(err).Warn("Failed to ack callback")
		}
		return NewCallbackContext(c).Respond(menuText, menuButtons())
	})

	b.Handle(&telebot.Btn{Unique: uniqueCurrentShift}, func(c telebot.Context) error {
		if err := c.Respond(); err != nil {
			menuLogger.WithError(err).Warn("Failed to ack callback")
		}
		ev := NewCallbackContext(c)
		logCtx := menuLogger.WithFields(logrus.Fields{"action": "current_shift", "chat_id": ev.ChatID()})

		current, err := shiftService.CurrentShift(ctx, ev.ChatID())
		if err != nil {
			if err == app.ErrNoOpenShift {
				return ev.Respond("ℹ️ មិនមានវេនបើកទេ។ ប្រើ 🟢 បើកវេន ដើម្បីចាប់ផ្តើម។", backButtons())
			}
			logCtx.WithError(err).Error("Failed to get current shift")
			return ev.Respond("❌ មានបញ្ហាក្នុងការទាញយកវេនបច្ចុប្បន្ន។ សូមព្យាយាមម្តងទៀត។", backButtons())
		}

		summary, err := shiftService.ShiftIncomeSummary(ctx, current.ID, ev.ChatID())
		if err != nil {
			logCtx.WithError(err).Error("Failed to compute income summary")
			return ev.Respond("❌ មានបញ្ហាក្នុងការគណនាចំណូល។ សូមព្យាយាមម្តងទៀត។", backButtons())
		}

		text := fmt.Sprintf("📊 **វេន #%d (កំពុងបើក)**\n\n%s", current.Number, app.FormatIncomeSummary(summary))
		return ev.Respond(text, backButtons())
	})

	b.Handle(&telebot.Btn{Unique: uniqueOpenShift}, func(c telebot.Context) error {
		if err := c.Respond(); err != nil {
			menuLogger.WithError(err).Warn("Failed to ack callback")
		}
		ev := NewCallbackContext(c)
		logCtx := menuLogger.WithFields(logrus.Fields{"action": "open_shift", "chat_id": ev.ChatID()})

		opened, err := shiftService.OpenShift(ctx, ev.ChatID())
		if err != nil {
			if err == app.ErrOpenShiftExists {
				return ev.Respond("⚠️ មានវេនបើករួចហើយ។ បិទវេនបច្ចុប្បន្នជាមុនសិន។", backButtons())
			}
			logCtx.WithError(err).Error("Failed to open shift")
			return ev.Respond("❌ មានបញ្ហាក្នុងការបើកវេន។ សូមព្យាយាមម្តងទៀត។", backButtons())
		}

		return ev.Respond(fmt.Sprintf("🟢 **វេន #%d បានបើក**", opened.Number), backButtons())
	})

	b.Handle(&telebot.Btn{Unique: uniqueCloseShift}, func(c telebot.Context) error {
		if err := c.Respond(); err != nil {
			menuLogger.WithError(err).Warn("Failed to ack callback")
		}
		ev := NewCallbackContext(c)
		logCtx := menuLogger.WithFields(logrus.Fields{"action": "close_shift", "chat_id": ev.ChatID()})

		closed, summary, err := shiftService.CloseShift(ctx, ev.ChatID())
		if err != nil {
			if err == app.ErrNoOpenShift {
				return ev.Respond("ℹ️ មិនមានវេនបើកដើម្បីបិទទេ។", backButtons())
			}
			logCtx.WithError(err).Error("Failed to close shift")
			return ev.Respond("❌ មានបញ្ហាក្នុងការបិទវេន។ សូមព្យាយាមម្តងទៀត។", backButtons())
		}

		return ev.Respond(app.FormatCloseSummary(closed.Number, summary), backButtons())
	})
}
