package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"
	idb "github.com/chanhengseang3/Telegram-Business/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// PackageService manages per-chat package tiers and feature flags.
type PackageService struct {
	groupRepo group.Repository
	logger    *logrus.Entry
}

func NewPackageService(gr group.Repository, logger *logrus.Entry) *PackageService {
	return &PackageService{
		groupRepo: gr,
		logger:    logger,
	}
}

// getOrInit fetches the chat's package record, creating an in-memory BASIC
// default when none is stored yet. The record is only persisted once a
// mutation happens.
func (s *PackageService) getOrInit(ctx context.Context, chatID int64) (*group.GroupPackage, error) {
	gp, err := s.groupRepo.GetByChatID(ctx, chatID)
	if err == nil {
		return gp, nil
	}
	if err != idb.ErrGroupPackageNotFound {
		return nil, fmt.Errorf("failed to get group package for chat %d: %w", chatID, err)
	}
	return &group.GroupPackage{
		ChatID:       chatID,
		Package:      group.PackageBasic,
		FeatureFlags: map[string]bool{},
	}, nil
}

// SetFeatureFlag sets a single per-chat feature flag.
func (s *PackageService) SetFeatureFlag(ctx context.Context, chatID int64, flag string, enabled bool) error {
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return err
	}
	if gp.FeatureFlags == nil {
		gp.FeatureFlags = map[string]bool{}
	}
	gp.FeatureFlags[flag] = enabled
	if err := s.groupRepo.Upsert(ctx, gp); err != nil {
		return fmt.Errorf("failed to save feature flag %s for chat %d: %w", flag, chatID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"flag":    flag,
		"enabled": enabled,
	}).Info("Feature flag updated")
	return nil
}

// UpdateFeatureFlags applies several flag changes in one write.
func (s *PackageService) UpdateFeatureFlags(ctx context.Context, chatID int64, flags map[string]bool) error {
	if len(flags) == 0 {
		return nil
	}
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return err
	}
	if gp.FeatureFlags == nil {
		gp.FeatureFlags = map[string]bool{}
	}
	for flag, enabled := range flags {
		gp.FeatureFlags[flag] = enabled
	}
	if err := s.groupRepo.Upsert(ctx, gp); err != nil {
		return fmt.Errorf("failed to save feature flags for chat %d: %w", chatID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"count":   len(flags),
	}).Info("Feature flags updated")
	return nil
}

// RemoveFeatureFlag drops the per-chat override for a flag; the chat falls
// back to its tier default.
func (s *PackageService) RemoveFeatureFlag(ctx context.Context, chatID int64, flag string) error {
	gp, err := s.groupRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if err == idb.ErrGroupPackageNotFound {
			return nil // nothing stored, nothing to remove
		}
		return fmt.Errorf("failed to get group package for chat %d: %w", chatID, err)
	}
	if _, ok := gp.FeatureFlags[flag]; !ok {
		return nil
	}
	delete(gp.FeatureFlags, flag)
	if err := s.groupRepo.Upsert(ctx, gp); err != nil {
		return fmt.Errorf("failed to remove feature flag %s for chat %d: %w", flag, chatID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"flag":    flag,
	}).Info("Feature flag removed")
	return nil
}

// FeatureEnabled reports whether a feature is enabled for the chat: an
// explicit per-chat override wins, otherwise the tier default applies.
func (s *PackageService) FeatureEnabled(ctx context.Context, chatID int64, flag string) (bool, error) {
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return false, err
	}
	if enabled, ok := gp.FeatureFlags[flag]; ok {
		return enabled, nil
	}
	return gp.Package.DefaultFlags()[flag], nil
}

// AllFeatureFlags returns the chat's effective flags: tier defaults merged
// with per-chat overrides.
func (s *PackageService) AllFeatureFlags(ctx context.Context, chatID int64) (map[string]bool, error) {
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return nil, err
	}
	effective := gp.Package.DefaultFlags()
	for flag, enabled := range gp.FeatureFlags {
		effective[flag] = enabled
	}
	return effective, nil
}

// SetPackage changes the chat's package tier. Per-chat flag overrides are
// kept as-is.
func (s *PackageService) SetPackage(ctx context.Context, chatID int64, pkg group.Package) error {
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return err
	}
	gp.Package = pkg
	if err := s.groupRepo.Upsert(ctx, gp); err != nil {
		return fmt.Errorf("failed to set package for chat %d: %w", chatID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"package": pkg,
	}).Info("Package tier updated")
	return nil
}

// SetAutoCloseMinutes configures how long the chat's shifts stay open
// before the scheduler closes them. Zero disables auto-close.
func (s *PackageService) SetAutoCloseMinutes(ctx context.Context, chatID int64, minutes int64) error {
	if minutes < 0 {
		return fmt.Errorf("auto-close minutes must not be negative, got %d", minutes)
	}
	gp, err := s.getOrInit(ctx, chatID)
	if err != nil {
		return err
	}
	if minutes == 0 {
		gp.AutoCloseMinutes = sql.NullInt64{}
	} else {
		gp.AutoCloseMinutes = sql.NullInt64{Int64: minutes, Valid: true}
	}
	if err := s.groupRepo.Upsert(ctx, gp); err != nil {
		return fmt.Errorf("failed to set auto-close minutes for chat %d: %w", chatID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"minutes": minutes,
	}).Info("Auto-close duration updated")
	return nil
}

// ChatsWithFeature lists the chats whose effective flags enable the given
// feature, by explicit override or by tier default. Used by the daily
// report job.
func (s *PackageService) ChatsWithFeature(ctx context.Context, flag string) ([]int64, error) {
	chatIDs, err := s.groupRepo.ListChatIDsWithFlag(ctx, flag, group.PackagesWithDefault(flag))
	if err != nil {
		return nil, fmt.Errorf("failed to list chats with flag %s: %w", flag, err)
	}
	return chatIDs, nil
}
