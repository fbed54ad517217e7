package group

import (
	"context"
)

// Repository defines the operations for persisting and retrieving the
// package configuration of chats.
type Repository interface {
	GetByChatID(ctx context.Context, chatID int64) (*GroupPackage, error)
	Upsert(ctx context.Context, gp *GroupPackage) error
	// ListChatIDsWithFlag returns the chat IDs for which the feature is
	// effectively enabled: an explicit true override, or membership in one
	// of defaultEnabled tiers with no override stored for the flag.
	ListChatIDsWithFlag(ctx context.Context, flag string, defaultEnabled []Package) ([]int64, error)
}
