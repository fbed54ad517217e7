package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"
	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"
	idb "github.com/chanhengseang3/Telegram-Business/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for shift operations
var ErrOpenShiftExists = fmt.Errorf("an open shift already exists for this chat")
var ErrNoOpenShift = fmt.Errorf("no open shift for this chat")

// ShiftService defines the shift operations the bot handlers and the
// schedulers consume.
type ShiftService interface {
	OpenShift(ctx context.Context, chatID int64) (*shift.Shift, error)
	CloseShift(ctx context.Context, chatID int64) (*shift.Shift, *shift.IncomeSummary, error)
	CurrentShift(ctx context.Context, chatID int64) (*shift.Shift, error)

	// CheckAndAutoCloseShifts finds and closes all shifts past their
	// auto-close deadline, returning the records actually closed.
	CheckAndAutoCloseShifts(ctx context.Context) ([]shift.ClosedShift, error)
	ShiftIncomeSummary(ctx context.Context, shiftID, chatID int64) (*shift.IncomeSummary, error)
	DailyIncomeSummary(ctx context.Context, chatID int64, day time.Time) (*shift.IncomeSummary, error)
}

// ShiftServiceImpl implements ShiftService on top of the shift and group
// repositories.
type ShiftServiceImpl struct {
	shiftRepo shift.Repository
	groupRepo group.Repository
	logger    *logrus.Entry
}

func NewShiftService(sr shift.Repository, gr group.Repository, logger *logrus.Entry) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		shiftRepo: sr,
		groupRepo: gr,
		logger:    logger,
	}
}

// OpenShift opens a new shift for the chat, assigning the next per-chat
// sequence number. The auto-close deadline is derived from the chat's
// configured shift duration; chats without one get no deadline and are
// only ever closed by explicit user action.
func (s *ShiftServiceImpl) OpenShift(ctx context.Context, chatID int64) (*shift.Shift, error) {
	_, err := s.shiftRepo.GetOpenByChatID(ctx, chatID)
	if err == nil {
		return nil, ErrOpenShiftExists
	}
	if err != idb.ErrShiftNotFound {
		return nil, fmt.Errorf("failed to check for open shift in chat %d: %w", chatID, err)
	}

	lastNumber, err := s.shiftRepo.LastNumber(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last shift number for chat %d: %w", chatID, err)
	}

	newShift := &shift.Shift{
		ChatID: chatID,
		Number: lastNumber + 1,
	}

	if deadline, ok, err := s.autoCloseDeadline(ctx, chatID); err != nil {
		return nil, err
	} else if ok {
		newShift.AutoCloseAt = sql.NullTime{Time: deadline, Valid: true}
	}

	if err := s.shiftRepo.Open(ctx, newShift); err != nil {
		if err == idb.ErrShiftAlreadyOpen { // lost the race to another opener
			return nil, ErrOpenShiftExists
		}
		return nil, fmt.Errorf("failed to open shift for chat %d: %w", chatID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":      chatID,
		"shift_id":     newShift.ID,
		"shift_number": newShift.Number,
	}).Info("Shift opened")
	return newShift, nil
}

func (s *ShiftServiceImpl) autoCloseDeadline(ctx context.Context, chatID int64) (time.Time, bool, error) {
	gp, err := s.groupRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if err == idb.ErrGroupPackageNotFound {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get group package for chat %d: %w", chatID, err)
	}
	if !gp.AutoCloseMinutes.Valid || gp.AutoCloseMinutes.Int64 <= 0 {
		return time.Time{}, false, nil
	}
	return time.Now().Add(time.Duration(gp.AutoCloseMinutes.Int64) * time.Minute), true, nil
}

// CloseShift closes the chat's open shift by user action and returns the
// closed shift together with its income summary.
func (s *ShiftServiceImpl) CloseShift(ctx context.Context, chatID int64) (*shift.Shift, *shift.IncomeSummary, error) {
	openShift, err := s.shiftRepo.GetOpenByChatID(ctx, chatID)
	if err != nil {
		if err == idb.ErrShiftNotFound {
			return nil, nil, ErrNoOpenShift
		}
		return nil, nil, fmt.Errorf("failed to get open shift for chat %d: %w", chatID, err)
	}

	closedShift, err := s.shiftRepo.Close(ctx, openShift.ID, shift.ClosedByUser)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to close shift %d: %w", openShift.ID, err)
	}

	summary, err := s.shiftRepo.IncomeSummary(ctx, closedShift.ID, chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute income summary for shift %d: %w", closedShift.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":      chatID,
		"shift_id":     closedShift.ID,
		"shift_number": closedShift.Number,
	}).Info("Shift closed by user")
	return closedShift, summary, nil
}

func (s *ShiftServiceImpl) CurrentShift(ctx context.Context, chatID int64) (*shift.Shift, error) {
	openShift, err := s.shiftRepo.GetOpenByChatID(ctx, chatID)
	if err != nil {
		if err == idb.ErrShiftNotFound {
			return nil, ErrNoOpenShift
		}
		return nil, fmt.Errorf("failed to get open shift for chat %d: %w", chatID, err)
	}
	return openShift, nil
}

func (s *ShiftServiceImpl) CheckAndAutoCloseShifts(ctx context.Context) ([]shift.ClosedShift, error) {
	closed, err := s.shiftRepo.CheckAndAutoCloseShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-close overdue shifts: %w", err)
	}
	return closed, nil
}

func (s *ShiftServiceImpl) ShiftIncomeSummary(ctx context.Context, shiftID, chatID int64) (*shift.IncomeSummary, error) {
	summary, err := s.shiftRepo.IncomeSummary(ctx, shiftID, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute income summary for shift %d: %w", shiftID, err)
	}
	return summary, nil
}

func (s *ShiftServiceImpl) DailyIncomeSummary(ctx context.Context, chatID int64, day time.Time) (*shift.IncomeSummary, error) {
	summary, err := s.shiftRepo.DailyIncomeSummary(ctx, chatID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily income summary for chat %d: %w", chatID, err)
	}
	return summary, nil
}
