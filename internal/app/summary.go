package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chanhengseang3/Telegram-Business/internal/domain/shift"

	"github.com/shopspring/decimal"
)

const autoCloseFooter = "⚡ បិទដោយ: ការកំណត់ពេលវេលាស្វ័យប្រវត្តិ"

// FormatAutoCloseSummary renders the message sent to a chat when its shift
// was closed by the scheduler.
func FormatAutoCloseSummary(shiftNumber int, summary *shift.IncomeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔒 **វេន #%d បានបិទដោយស្វ័យប្រវត្តិ**\n\n", shiftNumber)
	b.WriteString("📊 **សរុបចំណូល:**\n")

	if summary.TransactionCount > 0 {
		b.WriteString(formatCurrencyLines(summary))
		b.WriteString("\n\n📝 **ព័ត៌មានលម្អិត:**\n")
		fmt.Fprintf(&b, "• ចំនួនប្រតិបត្តិការសរុប: %d\n", summary.TransactionCount)
		fmt.Fprintf(&b, "• តម្លៃសរុប: %s\n", formatAmount(summary.TotalAmount))
	} else {
		b.WriteString("• មិនមានប្រតិបត្តិការ\n")
	}

	b.WriteString("\n" + autoCloseFooter)
	return b.String()
}

// FormatCloseSummary renders the reply to a user-initiated shift close.
func FormatCloseSummary(shiftNumber int, summary *shift.IncomeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔒 **វេន #%d ត្រូវបានបិទ**\n\n", shiftNumber)
	b.WriteString(FormatIncomeSummary(summary))
	return b.String()
}

// FormatIncomeSummary renders the income section shared by the close reply
// and the current-shift view: per-currency breakdown plus totals, or the
// "no transactions" line.
func FormatIncomeSummary(summary *shift.IncomeSummary) string {
	var b strings.Builder
	b.WriteString("📊 **សរុបចំណូល:**\n")
	if summary.TransactionCount > 0 {
		b.WriteString(formatCurrencyLines(summary))
		fmt.Fprintf(&b, "\n\n• ចំនួនប្រតិបត្តិការសរុប: %d\n", summary.TransactionCount)
		fmt.Fprintf(&b, "• តម្លៃសរុប: %s", formatAmount(summary.TotalAmount))
	} else {
		b.WriteString("• មិនមានប្រតិបត្តិការ")
	}
	return b.String()
}

// FormatDailyReport renders the daily income report for one chat.
func FormatDailyReport(day time.Time, summary *shift.IncomeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 **របាយការណ៍ចំណូលប្រចាំថ្ងៃ (%s)**\n\n", day.Format("2006-01-02"))

	if summary.TransactionCount > 0 {
		b.WriteString(formatCurrencyLines(summary))
		fmt.Fprintf(&b, "\n\n• ចំនួនប្រតិបត្តិការសរុប: %d\n", summary.TransactionCount)
		fmt.Fprintf(&b, "• តម្លៃសរុប: %s", formatAmount(summary.TotalAmount))
	} else {
		b.WriteString("• មិនមានប្រតិបត្តិការថ្ងៃនេះ")
	}
	return b.String()
}

// formatCurrencyLines renders one bullet line per currency, sorted by
// symbol so output is deterministic.
func formatCurrencyLines(summary *shift.IncomeSummary) string {
	symbols := make([]string, 0, len(summary.Currencies))
	for symbol := range summary.Currencies {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	lines := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		ct := summary.Currencies[symbol]
		lines = append(lines, fmt.Sprintf("• %s%s (%d transactions)", symbol, formatAmount(ct.Amount), ct.Count))
	}
	return strings.Join(lines, "\n")
}

// formatAmount renders a money amount with two decimal places and
// thousands separators, e.g. 1234567.8 -> "1,234,567.80".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
