package app

import (
	"strings"
	"testing"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"

	"github.com/shopspring/decimal"
)

func TestFormatAutoCloseSummary(t *testing.T) {
	t.Run("no transactions renders the empty variant", func(t *testing.T) {
		summary := &shift.IncomeSummary{
			TotalAmount: decimal.Zero,
			Currencies:  map[string]shift.CurrencyTotal{},
		}

		msg := FormatAutoCloseSummary(7, summary)

		if !strings.Contains(msg, "វេន #7") {
			t.Errorf("message missing shift number, got:\n%s", msg)
		}
		if !strings.Contains(msg, "មិនមានប្រតិបត្តិការ") {
			t.Errorf("message missing 'no transactions' variant, got:\n%s", msg)
		}
		if !strings.Contains(msg, "ការកំណត់ពេលវេលាស្វ័យប្រវត្តិ") {
			t.Errorf("message missing auto-close footer, got:\n%s", msg)
		}
		if strings.Contains(msg, "transactions)") {
			t.Errorf("empty summary must not render currency lines, got:\n%s", msg)
		}
	})

	t.Run("per-currency breakdown with totals", func(t *testing.T) {
		summary := &shift.IncomeSummary{
			TransactionCount: 3,
			TotalAmount:      decimal.NewFromFloat(1045.5),
			Currencies: map[string]shift.CurrencyTotal{
				"$": {Amount: decimal.NewFromFloat(45.5), Count: 2},
				"៛": {Amount: decimal.NewFromInt(1000), Count: 1},
			},
		}

		msg := FormatAutoCloseSummary(12, summary)

		if !strings.Contains(msg, "វេន #12") {
			t.Errorf("message missing shift number, got:\n%s", msg)
		}
		if !strings.Contains(msg, "• $45.50 (2 transactions)") {
			t.Errorf("message missing dollar line, got:\n%s", msg)
		}
		if !strings.Contains(msg, "• ៛1,000.00 (1 transactions)") {
			t.Errorf("message missing riel line, got:\n%s", msg)
		}
		if !strings.Contains(msg, "ចំនួនប្រតិបត្តិការសរុប: 3") {
			t.Errorf("message missing total transaction count, got:\n%s", msg)
		}
		if !strings.Contains(msg, "តម្លៃសរុប: 1,045.50") {
			t.Errorf("message missing total amount, got:\n%s", msg)
		}
		if !strings.Contains(msg, "ការកំណត់ពេលវេលាស្វ័យប្រវត្តិ") {
			t.Errorf("message missing auto-close footer, got:\n%s", msg)
		}
	})
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "0.00"},
		{decimal.NewFromFloat(45.5), "45.50"},
		{decimal.NewFromInt(1000), "1,000.00"},
		{decimal.NewFromFloat(1234567.8), "1,234,567.80"},
		{decimal.NewFromFloat(-1234.5), "-1,234.50"},
		{decimal.NewFromFloat(999.999), "1,000.00"}, // rounds to two places
	}
	for _, c := range cases {
		if got := formatAmount(c.in); got != c.want {
			t.Errorf("formatAmount(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
