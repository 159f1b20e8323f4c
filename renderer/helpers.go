package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// usd formats a price as US dollars.
func usd(v float64) string {
	return money.NewFromFloat(v, money.USD).Display()
}

// optUSD formats an optional price, a dash when absent.
func optUSD(v *float64) string {
	if v == nil {
		return "-"
	}
	return usd(*v)
}

// optPct formats an optional signed percentage, a dash when absent.
func optPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

// optInt formats an optional integer, a dash when absent.
func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// table writes a markdown table.
func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}
