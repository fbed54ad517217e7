package group

import (
	"database/sql"
	"time"
)

// Package is the subscription tier of a chat.
type Package string

const (
	PackageBasic    Package = "BASIC"
	PackageBusiness Package = "BUSINESS"
	PackagePremium  Package = "PREMIUM"
)

// Feature flag keys. Each is a per-chat boolean toggle gating optional
// functionality on top of the tier defaults.
const (
	FlagTransactionAnnotation = "transaction_annotation"
	FlagDailyBusinessReports  = "daily_business_reports"
	FlagAdvancedAnalytics     = "advanced_analytics"
	FlagCustomExport          = "custom_export"
	FlagMultiCurrency         = "multi_currency"
	FlagPremiumSupport        = "premium_support"
)

// PackagesWithDefault returns the tiers that enable the given flag before
// any per-chat overrides.
func PackagesWithDefault(flag string) []Package {
	tiers := []Package{PackageBasic, PackageBusiness, PackagePremium}
	enabled := make([]Package, 0, len(tiers))
	for _, p := range tiers {
		if p.DefaultFlags()[flag] {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// GroupPackage holds the package tier, feature flags and shift settings of
// a chat. Corresponds to the 'group_packages' table; FeatureFlags is stored
// as a JSONB column.
type GroupPackage struct {
	ID               int64
	ChatID           int64
	Package          Package
	FeatureFlags     map[string]bool
	AutoCloseMinutes sql.NullInt64 // shift auto-close duration; unset disables auto-close
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultFlags returns the flags a tier enables before any per-chat
// overrides are applied.
func (p Package) DefaultFlags() map[string]bool {
	switch p {
	case PackageBusiness:
		return map[string]bool{
			FlagDailyBusinessReports: true,
			FlagMultiCurrency:        true,
		}
	case PackagePremium:
		return map[string]bool{
			FlagTransactionAnnotation: true,
			FlagDailyBusinessReports:  true,
			FlagAdvancedAnalytics:     true,
			FlagCustomExport:          true,
			FlagMultiCurrency:         true,
			FlagPremiumSupport:        true,
		}
	default:
		return map[string]bool{}
	}
}
