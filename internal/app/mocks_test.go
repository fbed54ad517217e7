package app

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"
	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"
	idb "github.com/chanhengseang3/Telegram-Business/internal/infra/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// memShiftRepo is a small in-memory shift.Repository used by unit tests.
type memShiftRepo struct {
	mu        sync.Mutex
	nextID    int64
	store     map[int64]*shift.Shift
	summaries map[int64]*shift.IncomeSummary // canned summaries by shift ID
}

func newMemShiftRepo() *memShiftRepo {
	return &memShiftRepo{
		nextID:    1,
		store:     make(map[int64]*shift.Shift),
		summaries: make(map[int64]*shift.IncomeSummary),
	}
}

func (m *memShiftRepo) Open(ctx context.Context, s *shift.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.ChatID == s.ChatID && existing.Status == shift.StatusOpen {
			return idb.ErrShiftAlreadyOpen
		}
	}
	s.ID = m.nextID
	m.nextID++
	s.Status = shift.StatusOpen
	s.OpenedAt = time.Now()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memShiftRepo) GetByID(ctx context.Context, id int64) (*shift.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, idb.ErrShiftNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memShiftRepo) GetOpenByChatID(ctx context.Context, chatID int64) (*shift.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.ChatID == chatID && s.Status == shift.StatusOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, idb.ErrShiftNotFound
}

func (m *memShiftRepo) LastNumber(ctx context.Context, chatID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last := 0
	for _, s := range m.store {
		if s.ChatID == chatID && s.Number > last {
			last = s.Number
		}
	}
	return last, nil
}

func (m *memShiftRepo) Close(ctx context.Context, id int64, closedBy shift.ClosedBy) (*shift.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok || s.Status != shift.StatusOpen {
		return nil, idb.ErrShiftNotFound
	}
	s.Status = shift.StatusClosed
	s.ClosedAt = sql.NullTime{Time: time.Now(), Valid: true}
	s.ClosedBy = sql.NullString{String: string(closedBy), Valid: true}
	cp := *s
	return &cp, nil
}

func (m *memShiftRepo) CheckAndAutoCloseShifts(ctx context.Context) ([]shift.ClosedShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	closed := make([]shift.ClosedShift, 0)
	for _, s := range m.store {
		if s.Status == shift.StatusOpen && s.AutoCloseAt.Valid && !s.AutoCloseAt.Time.After(now) {
			s.Status = shift.StatusClosed
			s.ClosedAt = sql.NullTime{Time: now, Valid: true}
			s.ClosedBy = sql.NullString{String: string(shift.ClosedByAutoClose), Valid: true}
			closed = append(closed, shift.ClosedShift{ID: s.ID, ChatID: s.ChatID, Number: s.Number})
		}
	}
	return closed, nil
}

func (m *memShiftRepo) IncomeSummary(ctx context.Context, shiftID, chatID int64) (*shift.IncomeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.summaries[shiftID]; ok {
		return s, nil
	}
	return &shift.IncomeSummary{
		TotalAmount: decimal.Zero,
		Currencies:  map[string]shift.CurrencyTotal{},
	}, nil
}

func (m *memShiftRepo) DailyIncomeSummary(ctx context.Context, chatID int64, day time.Time) (*shift.IncomeSummary, error) {
	return &shift.IncomeSummary{
		TotalAmount: decimal.Zero,
		Currencies:  map[string]shift.CurrencyTotal{},
	}, nil
}

// memGroupRepo is a small in-memory group.Repository used by unit tests.
type memGroupRepo struct {
	mu     sync.Mutex
	nextID int64
	store  map[int64]*group.GroupPackage // by chat ID
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{nextID: 1, store: make(map[int64]*group.GroupPackage)}
}

func (m *memGroupRepo) GetByChatID(ctx context.Context, chatID int64) (*group.GroupPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gp, ok := m.store[chatID]
	if !ok {
		return nil, idb.ErrGroupPackageNotFound
	}
	cp := *gp
	cp.FeatureFlags = make(map[string]bool, len(gp.FeatureFlags))
	for k, v := range gp.FeatureFlags {
		cp.FeatureFlags[k] = v
	}
	return &cp, nil
}

func (m *memGroupRepo) Upsert(ctx context.Context, gp *group.GroupPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.store[gp.ChatID]; ok {
		gp.ID = existing.ID
	} else {
		gp.ID = m.nextID
		m.nextID++
	}
	cp := *gp
	cp.FeatureFlags = make(map[string]bool, len(gp.FeatureFlags))
	for k, v := range gp.FeatureFlags {
		cp.FeatureFlags[k] = v
	}
	m.store[gp.ChatID] = &cp
	return nil
}

func (m *memGroupRepo) ListChatIDsWithFlag(ctx context.Context, flag string, defaultEnabled []group.Package) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tierDefault := make(map[group.Package]bool, len(defaultEnabled))
	for _, p := range defaultEnabled {
		tierDefault[p] = true
	}
	chatIDs := make([]int64, 0)
	for chatID, gp := range m.store {
		if enabled, ok := gp.FeatureFlags[flag]; ok {
			if enabled {
				chatIDs = append(chatIDs, chatID)
			}
			continue
		}
		if tierDefault[gp.Package] {
			chatIDs = append(chatIDs, chatID)
		}
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs, nil
}
