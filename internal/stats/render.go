package stats

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/docflow-tools/finstat/constants"
)

const maxBarLength = 50

// RenderTable formats the totals as a fixed-width table. Rendering returns a
// string so the caller decides where it is printed.
func (a *Aggregator) RenderTable() string {
	snap := a.Snapshot()

	var b strings.Builder
	b.WriteString("==================== FINANCIAL STATISTICS ====================\n")
	fmt.Fprintf(&b, "%-15s | %-15s | %-20s\n", "Type", "Total Amount", "Number of Files")
	b.WriteString("---------------------------------------------------------------\n")
	for _, t := range constants.DocTypes {
		ts := snap[t]
		fmt.Fprintf(&b, "%-15s | %-15s | %-20d\n", string(t), ts.Total.StringFixed(2), ts.Count)
	}
	b.WriteString("================================================================\n")
	return b.String()
}

// RenderBarChart draws a proportional console bar chart scaled to the
// largest total across types.
func (a *Aggregator) RenderBarChart() string {
	snap := a.Snapshot()

	maxTotal := decimal.Zero
	for _, ts := range snap {
		if ts.Total.GreaterThan(maxTotal) {
			maxTotal = ts.Total
		}
	}

	var b strings.Builder
	b.WriteString("===== Graphical Representation =====\n")
	if maxTotal.IsZero() {
		b.WriteString("No data to display a bar chart.\n")
		return b.String()
	}

	for _, t := range constants.DocTypes {
		ts := snap[t]
		ratio := ts.Total.Div(maxTotal).InexactFloat64()
		bar := strings.Repeat("█", int(ratio*maxBarLength))
		fmt.Fprintf(&b, "%-10s: %s (%8s %s) [%d files]\n",
			string(t), bar, ts.Total.StringFixed(2), t.CurrencyLabel(), ts.Count)
	}
	b.WriteString("----------------------------------------------------------------\n")
	return b.String()
}
