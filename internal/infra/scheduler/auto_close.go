package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/app"
	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"
	domainTelegram "github.com/chanhengseang3/Telegram-Business/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// DefaultCheckInterval is how long the auto-close loop sleeps between cycles.
const DefaultCheckInterval = 60 * time.Second

// AutoCloseScheduler is a long-lived loop that periodically closes shifts
// past their auto-close deadline and sends each originating chat an income
// summary. One failing notification or one failing cycle never stops
// future cycles: errors are logged and the loop retries at the next tick.
type AutoCloseScheduler struct {
	shiftService app.ShiftService
	client       domainTelegram.Client
	logger       *logrus.Entry
	interval     time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewAutoCloseScheduler(
	shiftService app.ShiftService,
	client domainTelegram.Client,
	logger *logrus.Entry,
	interval time.Duration,
) *AutoCloseScheduler {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &AutoCloseScheduler{
		shiftService: shiftService,
		client:       client,
		logger:       logger,
		interval:     interval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the check loop in its own goroutine. The scheduler is
// single-owner: call Start once, then Stop to shut it down.
func (s *AutoCloseScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Auto-close scheduler started")
	go s.run()
}

// Stop signals the loop to exit and waits for the in-flight cycle to
// finish. Must only be called after Start. Safe to call more than once.
func (s *AutoCloseScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	s.logger.Info("Auto-close scheduler stopped")
}

func (s *AutoCloseScheduler) run() {
	defer close(s.done)

	for {
		// Fast-exit check so a pending stop wins over another cycle.
		select {
		case <-s.stop:
			return
		default:
		}

		if err := s.checkAutoCloseShifts(context.Background()); err != nil {
			// The cycle is treated as a no-op; the loop retries after the
			// fixed interval.
			s.logger.WithError(err).Error("Auto-close shift check failed")
		}

		// The timer starts after the cycle finishes, so a slow cycle still
		// gets the full pause before the next one.
		timer := time.NewTimer(s.interval)
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// checkAutoCloseShifts runs one check-and-close cycle: close everything
// overdue, then notify each chat. Per-shift notification errors are logged
// with the shift id and do not abort the remaining shifts.
func (s *AutoCloseScheduler) checkAutoCloseShifts(ctx context.Context) error {
	closed, err := s.shiftService.CheckAndAutoCloseShifts(ctx)
	if err != nil {
		return fmt.Errorf("check and auto-close shifts: %w", err)
	}

	if len(closed) == 0 {
		s.logger.Info("No shifts needed auto-closing")
		return nil
	}

	ids := make([]int64, 0, len(closed))
	for _, c := range closed {
		ids = append(ids, c.ID)
	}
	s.logger.WithFields(logrus.Fields{
		"count":     len(closed),
		"shift_ids": ids,
	}).Info("Auto-closed shifts")

	for _, c := range closed {
		logCtx := s.logger.WithFields(logrus.Fields{
			"shift_id": c.ID,
			"chat_id":  c.ChatID,
		})
		if err := s.sendShiftSummary(ctx, c); err != nil {
			// The closure is already committed; a lost notification is an
			// accepted gap.
			logCtx.WithError(err).Error("Failed to send shift summary")
			continue
		}
		logCtx.Info("Sent shift summary")
	}
	return nil
}

// sendShiftSummary computes the income summary for one closed shift,
// formats it and delivers it to the owning chat.
func (s *AutoCloseScheduler) sendShiftSummary(ctx context.Context, c shift.ClosedShift) error {
	summary, err := s.shiftService.ShiftIncomeSummary(ctx, c.ID, c.ChatID)
	if err != nil {
		return fmt.Errorf("income summary for shift %d: %w", c.ID, err)
	}

	text := app.FormatAutoCloseSummary(c.Number, summary)
	opts := &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}
	if err := s.client.SendMessage(c.ChatID, text, opts); err != nil {
		return fmt.Errorf("send summary for shift %d to chat %d: %w", c.ID, c.ChatID, err)
	}
	return nil
}
