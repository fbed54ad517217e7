package scheduler

import (
	"context"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/app"
	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"
	domainTelegram "github.com/chanhengseang3/Telegram-Business/internal/domain/telegram"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// DailyReportScheduler sends each subscribed chat its income report for the
// current day, on a cron schedule. Only chats with the
// daily_business_reports feature flag enabled receive reports.
type DailyReportScheduler struct {
	cronEngine     *cron.Cron
	shiftService   app.ShiftService
	packageService *app.PackageService
	client         domainTelegram.Client
	logger         *logrus.Entry
	cronSpec       string
}

func NewDailyReportScheduler(
	shiftService app.ShiftService,
	packageService *app.PackageService,
	client domainTelegram.Client,
	logger *logrus.Entry,
	cronSpec string, // e.g. "0 20 * * *" (8 PM daily)
) *DailyReportScheduler {
	return &DailyReportScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		shiftService:   shiftService,
		packageService: packageService,
		client:         client,
		logger:         logger,
		cronSpec:       cronSpec,
	}
}

func (s *DailyReportScheduler) Start() {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for daily business reports")
		s.runDailyReports()
	})
	if err != nil {
		s.logger.WithError(err).Fatalf("Could not add daily report cron job with spec %q", s.cronSpec)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Daily report scheduler started")
}

// runDailyReports sends one report per subscribed chat. Per-chat failures
// are logged and isolated so one bad chat never blocks the rest.
func (s *DailyReportScheduler) runDailyReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	chatIDs, err := s.packageService.ChatsWithFeature(ctx, group.FlagDailyBusinessReports)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list chats subscribed to daily reports")
		return
	}
	if len(chatIDs) == 0 {
		s.logger.Info("No chats subscribed to daily reports")
		return
	}

	day := time.Now()
	for _, chatID := range chatIDs {
		logCtx := s.logger.WithField("chat_id", chatID)

		summary, err := s.shiftService.DailyIncomeSummary(ctx, chatID, day)
		if err != nil {
			logCtx.WithError(err).Error("Failed to compute daily income summary")
			continue
		}

		text := app.FormatDailyReport(day, summary)
		opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
		if err := s.client.SendMessage(chatID, text, opts); err != nil {
			logCtx.WithError(err).Error("Failed to send daily report")
			continue
		}
		logCtx.Info("Sent daily report")
	}
}

func (s *DailyReportScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Daily report scheduler stopped")
}
