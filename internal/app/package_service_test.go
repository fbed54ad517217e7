package app

import (
	"context"
	"testing"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/group"
)

func TestPackageServiceFeatureFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("set and read back a flag", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		if err := svc.SetFeatureFlag(ctx, 100, group.FlagTransactionAnnotation, true); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		enabled, err := svc.FeatureEnabled(ctx, 100, group.FlagTransactionAnnotation)
		if err != nil {
			t.Fatalf("read flag: %v", err)
		}
		if !enabled {
			t.Error("expected flag to be enabled")
		}
	})

	t.Run("unknown chat falls back to basic tier defaults", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		enabled, err := svc.FeatureEnabled(ctx, 999, group.FlagDailyBusinessReports)
		if err != nil {
			t.Fatalf("read flag: %v", err)
		}
		if enabled {
			t.Error("basic tier must not enable daily reports by default")
		}
	})

	t.Run("tier default applies without an override", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		if err := svc.SetPackage(ctx, 100, group.PackageBusiness); err != nil {
			t.Fatalf("set package: %v", err)
		}
		enabled, err := svc.FeatureEnabled(ctx, 100, group.FlagDailyBusinessReports)
		if err != nil {
			t.Fatalf("read flag: %v", err)
		}
		if !enabled {
			t.Error("business tier should enable daily reports by default")
		}
	})

	t.Run("explicit override wins over tier default", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		if err := svc.SetPackage(ctx, 100, group.PackagePremium); err != nil {
			t.Fatalf("set package: %v", err)
		}
		if err := svc.SetFeatureFlag(ctx, 100, group.FlagAdvancedAnalytics, false); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		enabled, err := svc.FeatureEnabled(ctx, 100, group.FlagAdvancedAnalytics)
		if err != nil {
			t.Fatalf("read flag: %v", err)
		}
		if enabled {
			t.Error("explicit false override must win over the premium default")
		}
	})

	t.Run("removing an override restores the tier default", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		if err := svc.SetPackage(ctx, 100, group.PackagePremium); err != nil {
			t.Fatalf("set package: %v", err)
		}
		if err := svc.SetFeatureFlag(ctx, 100, group.FlagAdvancedAnalytics, false); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		if err := svc.RemoveFeatureFlag(ctx, 100, group.FlagAdvancedAnalytics); err != nil {
			t.Fatalf("remove flag: %v", err)
		}
		enabled, err := svc.FeatureEnabled(ctx, 100, group.FlagAdvancedAnalytics)
		if err != nil {
			t.Fatalf("read flag: %v", err)
		}
		if !enabled {
			t.Error("premium default should apply after removing the override")
		}
	})

	t.Run("bulk update and effective flag view", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		err := svc.UpdateFeatureFlags(ctx, 100, map[string]bool{
			group.FlagCustomExport:  true,
			group.FlagMultiCurrency: true,
		})
		if err != nil {
			t.Fatalf("bulk update: %v", err)
		}

		all, err := svc.AllFeatureFlags(ctx, 100)
		if err != nil {
			t.Fatalf("all flags: %v", err)
		}
		if !all[group.FlagCustomExport] || !all[group.FlagMultiCurrency] {
			t.Errorf("expected both updated flags enabled, got %v", all)
		}
	})

	t.Run("chats with feature honors overrides and tier defaults", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		// Basic chat opted in explicitly.
		if err := svc.SetFeatureFlag(ctx, 100, group.FlagDailyBusinessReports, true); err != nil {
			t.Fatalf("set flag chat 100: %v", err)
		}
		// Business chat opted out despite its tier default.
		if err := svc.SetPackage(ctx, 200, group.PackageBusiness); err != nil {
			t.Fatalf("set package chat 200: %v", err)
		}
		if err := svc.SetFeatureFlag(ctx, 200, group.FlagDailyBusinessReports, false); err != nil {
			t.Fatalf("set flag chat 200: %v", err)
		}
		// Business chat with no override, enabled by tier default alone.
		if err := svc.SetPackage(ctx, 300, group.PackageBusiness); err != nil {
			t.Fatalf("set package chat 300: %v", err)
		}
		// Basic chat with no override, disabled by tier default alone.
		if err := svc.SetAutoCloseMinutes(ctx, 400, 480); err != nil {
			t.Fatalf("init chat 400: %v", err)
		}

		chatIDs, err := svc.ChatsWithFeature(ctx, group.FlagDailyBusinessReports)
		if err != nil {
			t.Fatalf("chats with feature: %v", err)
		}
		if len(chatIDs) != 2 || chatIDs[0] != 100 || chatIDs[1] != 300 {
			t.Errorf("expected [100 300], got %v", chatIDs)
		}

		// The listing must agree with the per-chat effective view.
		for _, chatID := range chatIDs {
			enabled, err := svc.FeatureEnabled(ctx, chatID, group.FlagDailyBusinessReports)
			if err != nil {
				t.Fatalf("feature enabled chat %d: %v", chatID, err)
			}
			if !enabled {
				t.Errorf("chat %d listed for reports but FeatureEnabled is false", chatID)
			}
		}
	})
}

func TestPackageServiceAutoCloseMinutes(t *testing.T) {
	ctx := context.Background()

	t.Run("set and clear the auto-close duration", func(t *testing.T) {
		repo := newMemGroupRepo()
		svc := NewPackageService(repo, newTestLogger())

		if err := svc.SetAutoCloseMinutes(ctx, 100, 480); err != nil {
			t.Fatalf("set minutes: %v", err)
		}
		gp, err := repo.GetByChatID(ctx, 100)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if !gp.AutoCloseMinutes.Valid || gp.AutoCloseMinutes.Int64 != 480 {
			t.Errorf("expected 480 minutes, got %+v", gp.AutoCloseMinutes)
		}

		if err := svc.SetAutoCloseMinutes(ctx, 100, 0); err != nil {
			t.Fatalf("clear minutes: %v", err)
		}
		gp, err = repo.GetByChatID(ctx, 100)
		if err != nil {
			t.Fatalf("read back after clear: %v", err)
		}
		if gp.AutoCloseMinutes.Valid {
			t.Error("expected auto-close to be disabled")
		}
	})

	t.Run("negative duration is rejected", func(t *testing.T) {
		svc := NewPackageService(newMemGroupRepo(), newTestLogger())

		if err := svc.SetAutoCloseMinutes(ctx, 100, -5); err == nil {
			t.Error("expected an error for negative minutes")
		}
	})
}
