package shift

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a shift.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// ClosedBy records which actor closed a shift.
type ClosedBy string

const (
	ClosedByUser      ClosedBy = "USER"
	ClosedByAutoClose ClosedBy = "AUTO_CLOSE"
)

// Shift represents a bounded work session during which transactions are
// logged against a chat. Corresponds to the 'shifts' table.
type Shift struct {
	ID          int64
	ChatID      int64
	Number      int // per-chat human-facing sequence number
	Status      Status
	OpenedAt    time.Time
	AutoCloseAt sql.NullTime // unset when the chat has no auto-close duration configured
	ClosedAt    sql.NullTime
	ClosedBy    sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClosedShift is the slice of a shift returned by the auto-close operation;
// just enough to drive the per-chat summary notification.
type ClosedShift struct {
	ID     int64
	ChatID int64
	Number int
}

// CurrencyTotal is the income recorded in a single currency.
type CurrencyTotal struct {
	Amount decimal.Decimal
	Count  int
}

// IncomeSummary is the derived, read-only income report for a shift,
// recomputed on demand from the shift's transactions.
type IncomeSummary struct {
	TransactionCount int
	TotalAmount      decimal.Decimal
	Currencies       map[string]CurrencyTotal // keyed by currency symbol, e.g. "$", "៛"
}
