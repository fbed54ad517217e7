package shift

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving shifts
// and the income recorded against them.
type Repository interface {
	Open(ctx context.Context, s *Shift) error
	GetByID(ctx context.Context, id int64) (*Shift, error)
	GetOpenByChatID(ctx context.Context, chatID int64) (*Shift, error)
	LastNumber(ctx context.Context, chatID int64) (int, error)
	Close(ctx context.Context, id int64, closedBy ClosedBy) (*Shift, error)

	// CheckAndAutoCloseShifts atomically finds and closes every open shift
	// whose auto-close deadline has passed, and returns the records actually
	// closed (possibly empty). A shift is never closed twice.
	CheckAndAutoCloseShifts(ctx context.Context) ([]ClosedShift, error)

	IncomeSummary(ctx context.Context, shiftID, chatID int64) (*IncomeSummary, error)
	DailyIncomeSummary(ctx context.Context, chatID int64, day time.Time) (*IncomeSummary, error)
}
