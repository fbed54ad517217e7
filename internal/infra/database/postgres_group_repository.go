package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"

	"github.com/lib/pq"
)

// Custom errors specific to the group package repository
var ErrGroupPackageNotFound = fmt.Errorf("group package not found")

type PostgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) GetByChatID(ctx context.Context, chatID int64) (*group.GroupPackage, error) {
	query := `SELECT id, chat_id, package, feature_flags, auto_close_minutes, created_at, updated_at
               FROM group_packages WHERE chat_id = $1`

	gp := &group.GroupPackage{}
	var rawFlags []byte
	err := r.db.QueryRowContext(ctx, query, chatID).
		Scan(&gp.ID, &gp.ChatID, &gp.Package, &rawFlags, &gp.AutoCloseMinutes, &gp.CreatedAt, &gp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGroupPackageNotFound
		}
		return nil, fmt.Errorf("error getting group package for chat %d: %w", chatID, err)
	}

	gp.FeatureFlags = make(map[string]bool)
	if len(rawFlags) > 0 {
		if err := json.Unmarshal(rawFlags, &gp.FeatureFlags); err != nil {
			return nil, fmt.Errorf("error decoding feature flags for chat %d: %w", chatID, err)
		}
	}
	return gp, nil
}

func (r *PostgresGroupRepository) Upsert(ctx context.Context, gp *group.GroupPackage) error {
	flags := gp.FeatureFlags
	if flags == nil {
		flags = map[string]bool{}
	}
	rawFlags, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("error encoding feature flags for chat %d: %w", gp.ChatID, err)
	}

	query := `INSERT INTO group_packages (chat_id, package, feature_flags, auto_close_minutes)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (chat_id) DO UPDATE
               SET package = EXCLUDED.package,
                   feature_flags = EXCLUDED.feature_flags,
                   auto_close_minutes = EXCLUDED.auto_close_minutes,
                   updated_at = NOW()
               RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query, gp.ChatID, gp.Package, rawFlags, gp.AutoCloseMinutes).
		Scan(&gp.ID, &gp.CreatedAt, &gp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting group package for chat %d: %w", gp.ChatID, err)
	}
	return nil
}

func (r *PostgresGroupRepository) ListChatIDsWithFlag(ctx context.Context, flag string, defaultEnabled []group.Package) ([]int64, error) {
	// An explicit override always wins; a tier default only applies when no
	// override is stored for the flag.
	query := `SELECT chat_id FROM group_packages
               WHERE (feature_flags ->> $1)::boolean IS TRUE
                  OR (package = ANY($2) AND feature_flags ->> $1 IS NULL)
               ORDER BY chat_id`

	tiers := make([]string, 0, len(defaultEnabled))
	for _, p := range defaultEnabled {
		tiers = append(tiers, string(p))
	}

	rows, err := r.db.QueryContext(ctx, query, flag, pq.Array(tiers))
	if err != nil {
		return nil, fmt.Errorf("error listing chats with flag %s: %w", flag, err)
	}
	defer rows.Close()

	chatIDs := make([]int64, 0)
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("error scanning chat ID for flag %s: %w", flag, err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats with flag %s: %w", flag, err)
	}
	return chatIDs, nil
}
