package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"
	"github.com/shopspring/decimal"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrShiftNotFound = fmt.Errorf("shift not found")
var ErrShiftAlreadyOpen = fmt.Errorf("chat already has an open shift")

type PostgresShiftRepository struct {
	db *sql.DB
}

func NewPostgresShiftRepository(db *sql.DB) *PostgresShiftRepository {
	return &PostgresShiftRepository{db: db}
}

func (r *PostgresShiftRepository) Open(ctx context.Context, s *shift.Shift) error {
	query := `INSERT INTO shifts (chat_id, number, status, opened_at, auto_close_at)
               VALUES ($1, $2, $3, NOW(), $4)
               RETURNING id, opened_at, created_at, updated_at`

	s.Status = shift.StatusOpen
	err := r.db.QueryRowContext(ctx, query, s.ChatID, s.Number, s.Status, s.AutoCloseAt).
		Scan(&s.ID, &s.OpenedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		// The partial unique index shifts_one_open_per_chat enforces a single
		// open shift per chat.
		if strings.Contains(err.Error(), "shifts_one_open_per_chat") {
			return ErrShiftAlreadyOpen
		}
		return fmt.Errorf("error opening shift: %w", err)
	}
	return nil
}

func (r *PostgresShiftRepository) GetByID(ctx context.Context, id int64) (*shift.Shift, error) {
	query := `SELECT id, chat_id, number, status, opened_at, auto_close_at, closed_at, closed_by, created_at, updated_at
               FROM shifts WHERE id = $1`
	s := &shift.Shift{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.ChatID, &s.Number, &s.Status, &s.OpenedAt, &s.AutoCloseAt, &s.ClosedAt, &s.ClosedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("error getting shift by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresShiftRepository) GetOpenByChatID(ctx context.Context, chatID int64) (*shift.Shift, error) {
	query := `SELECT id, chat_id, number, status, opened_at, auto_close_at, closed_at, closed_by, created_at, updated_at
               FROM shifts WHERE chat_id = $1 AND status = $2`
	s := &shift.Shift{}
	err := r.db.QueryRowContext(ctx, query, chatID, shift.StatusOpen).
		Scan(&s.ID, &s.ChatID, &s.Number, &s.Status, &s.OpenedAt, &s.AutoCloseAt, &s.ClosedAt, &s.ClosedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("error getting open shift for chat %d: %w", chatID, err)
	}
	return s, nil
}

func (r *PostgresShiftRepository) LastNumber(ctx context.Context, chatID int64) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) FROM shifts WHERE chat_id = $1`
	var number int
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&number); err != nil {
		return 0, fmt.Errorf("error getting last shift number for chat %d: %w", chatID, err)
	}
	return number, nil
}

func (r *PostgresShiftRepository) Close(ctx context.Context, id int64, closedBy shift.ClosedBy) (*shift.Shift, error) {
	query := `UPDATE shifts
               SET status = $1, closed_at = NOW(), closed_by = $2, updated_at = NOW()
               WHERE id = $3 AND status = $4
               RETURNING id, chat_id, number, status, opened_at, auto_close_at, closed_at, closed_by, created_at, updated_at`

	s := &shift.Shift{}
	err := r.db.QueryRowContext(ctx, query, shift.StatusClosed, string(closedBy), id, shift.StatusOpen).
		Scan(&s.ID, &s.ChatID, &s.Number, &s.Status, &s.OpenedAt, &s.AutoCloseAt, &s.ClosedAt, &s.ClosedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows { // no open shift with this id
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("error closing shift %d: %w", id, err)
	}
	return s, nil
}

// CheckAndAutoCloseShifts closes every open shift whose auto-close deadline
// has passed. A single UPDATE ... RETURNING makes the find-and-close step
// atomic, so a shift can never be closed twice.
func (r *PostgresShiftRepository) CheckAndAutoCloseShifts(ctx context.Context) ([]shift.ClosedShift, error) {
	query := `UPDATE shifts
               SET status = $1, closed_at = NOW(), closed_by = $2, updated_at = NOW()
               WHERE status = $3 AND auto_close_at IS NOT NULL AND auto_close_at <= NOW()
               RETURNING id, chat_id, number`

	rows, err := r.db.QueryContext(ctx, query, shift.StatusClosed, string(shift.ClosedByAutoClose), shift.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("error auto-closing overdue shifts: %w", err)
	}
	defer rows.Close()

	closed := make([]shift.ClosedShift, 0)
	for rows.Next() {
		var c shift.ClosedShift
		if err := rows.Scan(&c.ID, &c.ChatID, &c.Number); err != nil {
			return nil, fmt.Errorf("error scanning auto-closed shift: %w", err)
		}
		closed = append(closed, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auto-closed shifts: %w", err)
	}
	return closed, nil
}

func (r *PostgresShiftRepository) IncomeSummary(ctx context.Context, shiftID, chatID int64) (*shift.IncomeSummary, error) {
	query := `SELECT currency, COALESCE(SUM(amount), 0), COUNT(*)
               FROM transactions
               WHERE shift_id = $1 AND chat_id = $2
               GROUP BY currency`

	rows, err := r.db.QueryContext(ctx, query, shiftID, chatID)
	if err != nil {
		return nil, fmt.Errorf("error computing income summary for shift %d: %w", shiftID, err)
	}
	defer rows.Close()

	return scanIncomeSummary(rows)
}

func (r *PostgresShiftRepository) DailyIncomeSummary(ctx context.Context, chatID int64, day time.Time) (*shift.IncomeSummary, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `SELECT currency, COALESCE(SUM(amount), 0), COUNT(*)
               FROM transactions
               WHERE chat_id = $1 AND created_at >= $2 AND created_at < $3
               GROUP BY currency`

	rows, err := r.db.QueryContext(ctx, query, chatID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("error computing daily income summary for chat %d: %w", chatID, err)
	}
	defer rows.Close()

	return scanIncomeSummary(rows)
}

func scanIncomeSummary(rows *sql.Rows) (*shift.IncomeSummary, error) {
	summary := &shift.IncomeSummary{
		TotalAmount: decimal.Zero,
		Currencies:  make(map[string]shift.CurrencyTotal),
	}
	for rows.Next() {
		var currency string
		var amount decimal.Decimal
		var count int
		if err := rows.Scan(&currency, &amount, &count); err != nil {
			return nil, fmt.Errorf("error scanning income summary row: %w", err)
		}
		summary.Currencies[currency] = shift.CurrencyTotal{Amount: amount, Count: count}
		summary.TotalAmount = summary.TotalAmount.Add(amount)
		summary.TransactionCount += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income summary rows: %w", err)
	}
	return summary, nil
}
