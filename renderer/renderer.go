// Package renderer turns computed analytics into markdown for terminal
// display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/avianalytics/portfolio"
	"github.com/shopspring/decimal"
)

func money(v decimal.Decimal, currency string) string {
	if currency == "" {
		return v.StringFixed(2)
	}
	return portfolio.FormatMoney(v, currency)
}

func optMoney(v *decimal.Decimal, currency string) string {
	if v == nil {
		return "-"
	}
	return money(*v, currency)
}

func optReturn(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", 100**v)
}

func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

// NavSeriesMarkdown renders a NAV series as a markdown table.
func NavSeriesMarkdown(series []portfolio.NavPoint, currency string) string {
	var b strings.Builder
	b.WriteString("# NAV Series\n\n")
	if len(series) == 0 {
		b.WriteString("No data.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		rows = append(rows, []string{
			p.Date.String(),
			money(p.NAV, currency),
			optMoney(p.DailyChange, currency),
			optReturn(p.DailyReturn),
		})
	}
	table(&b, []string{"Date", "NAV", "Change", "Return"}, rows)
	return b.String()
}

// BreakdownMarkdown renders the per-security market values for one date.
func BreakdownMarkdown(on string, breakdown []portfolio.BreakdownRow, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Breakdown %s\n\n", on)
	rows := make([][]string, 0, len(breakdown))
	for _, r := range breakdown {
		rows = append(rows, []string{
			r.Ticker,
			r.Name,
			r.AssetClass,
			r.Quantity.String(),
			money(r.Close, currency),
			money(r.MarketValue, currency),
			fmt.Sprintf("%.2f%%", 100*r.Contribution),
		})
	}
	table(&b, []string{"Ticker", "Name", "Class", "Quantity", "Close", "Value", "Share"}, rows)
	return b.String()
}

// CashSeriesMarkdown renders the cash balances with their daily movements.
func CashSeriesMarkdown(series []portfolio.CashChange, currency string) string {
	var b strings.Builder
	b.WriteString("# Cash Balances\n\n")
	rows := make([][]string, 0, len(series))
	for _, c := range series {
		rows = append(rows, []string{
			c.Date.String(),
			money(c.Amount, currency),
			optMoney(c.Change, currency),
		})
	}
	table(&b, []string{"Date", "Amount", "Change"}, rows)
	return b.String()
}

// AlertsMarkdown renders flagged NAV moves.
func AlertsMarkdown(alerts []portfolio.Alert, currency string) string {
	var b strings.Builder
	b.WriteString("# Big NAV Moves\n\n")
	if len(alerts) == 0 {
		b.WriteString("No big NAV moves detected.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.Type,
			a.Point.Date.String(),
			money(a.Point.NAV, currency),
			optMoney(a.Point.DailyChange, currency),
			optReturn(a.Point.DailyReturn),
		})
	}
	table(&b, []string{"Type", "Date", "NAV", "Change", "Return"}, rows)
	return b.String()
}

// HoldingMarkdown renders one position answer.
func HoldingMarkdown(h *portfolio.HoldingDetail, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "On %s you held %s shares of %s", h.Date, h.Quantity, h.Ticker)
	if h.Close != nil && h.MarketValue != nil {
		fmt.Fprintf(&b, " at %s with a market value of %s", money(*h.Close, currency), money(*h.MarketValue, currency))
	}
	b.WriteString(".\n")
	return b.String()
}
