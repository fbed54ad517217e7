package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/app"
	"github.com/chanhengseang3/Telegram-Business/internal/infra/config"
	idb "github.com/chanhengseang3/Telegram-Business/internal/infra/database"
	"github.com/chanhengseang3/Telegram-Business/internal/infra/logger"
	"github.com/chanhengseang3/Telegram-Business/internal/infra/scheduler"
	"github.com/chanhengseang3/Telegram-Business/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully")

	// Initialize Repositories
	shiftRepo := idb.NewPostgresShiftRepository(db)
	groupRepo := idb.NewPostgresGroupRepository(db)
	mainLogger.Info("Repositories initialized")

	// Initialize Services
	shiftService := app.NewShiftService(shiftRepo, groupRepo, logger.Get().WithField("component", "shift_service"))
	packageService := app.NewPackageService(groupRepo, logger.Get().WithField("component", "package_service"))
	mainLogger.Info("Services initialized")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	botClient := telegram.NewTelebotAdapter(bot)

	// Initialize Schedulers
	autoCloseScheduler := scheduler.NewAutoCloseScheduler(
		shiftService,
		botClient,
		logger.Get().WithField("component", "auto_close_scheduler"),
		cfg.AutoCloseInterval,
	)
	autoCloseScheduler.Start()

	dailyReportScheduler := scheduler.NewDailyReportScheduler(
		shiftService,
		packageService,
		botClient,
		logger.Get().WithField("component", "daily_report_scheduler"),
		cfg.DailyReportCron,
	)
	dailyReportScheduler.Start()

	// Register Handlers
	handlerCtx := context.Background()
	handlersLogger := logger.Get().WithField("component", "handlers")
	telegram.RegisterBotCommands(bot, handlersLogger)
	telegram.RegisterBusinessMenuHandlers(handlerCtx, bot, shiftService, handlersLogger)
	mainLogger.Info("Command handlers registered")

	mainLogger.Info("Application setup complete. Bot and schedulers are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	autoCloseScheduler.Stop()
	dailyReportScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully")
}
