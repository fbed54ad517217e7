package telegram

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const welcomeMessage = `🏢 ស្វាគមន៍មកកាន់ Autosum Business!

💼 ជំនួយការហិរញ្ញវត្ថុអាជីវកម្មរបស់អ្នក

បុតនេះផ្តល់នូវមុខងារអាជីវកម្មកម្រិតខ្ពស់:
• 📊 តាមដានចំណូលពេលវេលាពិត
• 📈 ការវិភាគនិងចំណេះដឹងអាជីវកម្ម
• 💰 ការគាំទ្ររូបិយប័ណ្ណច្រើន

វាយ /menu ដើម្បីចាប់ផ្តើមគ្រប់គ្រងហិរញ្ញវត្ថុអាជីវកម្មរបស់អ្នក!`

const helpMessage = `🏢 ជំនួយ Autosum Business Bot

📋 ពាក្យបញ្ជាដែលមាន:
• /start - សារស្វាគមន៍និងការណែនាំ
• /menu - ចូលទៅផ្ទាំងគ្រប់គ្រងអាជីវកម្ម
• /help - បង្ហាញសារជំនួយនេះ
• /support - ទាក់ទងការគាំទ្រអាជីវកម្ម

💼 លក្ខណៈពិសេសអាជីវកម្ម:
• តាមដានចំណូល - ការតាមដានប្រតិបត្តិការដោយស្វ័យប្រវត្តិ
• វេន - បើកនិងបិទវេនដោយស្វ័យប្រវត្តិ
• របាយការណ៍ - សកម្មភាពប្រចាំថ្ងៃ`

const supportMessage = `📞 មជ្ឈមណ្ឌលការគាំទ្រអាជីវកម្ម

🆘 ជំនួយរហ័ស:
• បុតមិនឆ្លើយតប? សាកល្បង /start ដើម្បីផ្ទុកឡើងវិញ
• បាត់ប្រតិបត្តិការ? ពិនិត្យការចុះឈ្មោះជជែក

📧 អ៊ីមែល: business@autosum.com
💬 ឆ្លើយតបសារនេះជាមួយនឹងសំណួររបស់អ្នក ហើយក្រុមយើងនឹងឆ្លើយតបក្នុងរយៈពេល 24 ម៉ោង។`

// RegisterBotCommands registers the plain informational commands.
func RegisterBotCommands(b *telebot.Bot, baseLogger *logrus.Entry) {
	commandsLogger := baseLogger.WithField("handler_group", "commands")

	b.Handle("/start", func(c telebot.Context) error {
		commandsLogger.WithFields(logrus.Fields{
			"command": "/start",
			"chat_id": c.Chat().ID,
		}).Info("Processing /start command")
		return c.Send(welcomeMessage)
	})

	b.Handle("/help", func(c telebot.Context) error {
		commandsLogger.WithFields(logrus.Fields{
			"command": "/help",
			"chat_id": c.Chat().ID,
		}).Info("Processing /help command")
		return c.Send(helpMessage)
	})

	b.Handle("/support", func(c telebot.Context) error {
		commandsLogger.WithFields(logrus.Fields{
			"command": "/support",
			"chat_id": c.Chat().ID,
		}).Info("Processing /support command")
		return c.Send(supportMessage)
	})
}
