package portfolio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

func decp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func explanationFixture() *DayExplanation {
	contribs := []PnLContribution{
		{Ticker: "NVDA", PnL: decimal.NewFromInt(500)},
		{Ticker: "AAPL", PnL: decimal.NewFromInt(300)},
		{Ticker: "MSFT", PnL: decimal.NewFromInt(200)},
		{Ticker: "GOOG", PnL: decimal.NewFromInt(100)},
		{Ticker: "BND", PnL: decimal.NewFromInt(-50)},
		{Ticker: "TLT", PnL: decimal.NewFromInt(-250)},
	}
	total := decimal.Zero
	for _, c := range contribs {
		total = total.Add(c.PnL)
	}
	return &DayExplanation{
		Nav: NavPoint{
			Date:        date.New(2025, 1, 13),
			NAV:         decimal.NewFromInt(100000),
			DailyChange: decp(900),
		},
		Contributions:    contribs,
		Cash:             &CashChange{Date: date.New(2025, 1, 13), Amount: decimal.NewFromInt(5000), Change: decp(100)},
		TotalSecurityPnL: total,
		Residual:         decp(0),
	}
}

func TestNewFactSheet_TopContributors(t *testing.T) {
	sheet := NewFactSheet(explanationFixture(), "USD")

	if got := len(sheet.Positives); got != 3 {
		t.Fatalf("positives: got %d, want 3", got)
	}
	wantPos := []string{"NVDA", "AAPL", "MSFT"}
	for i, c := range sheet.Positives {
		if c.Ticker != wantPos[i] {
			t.Errorf("positive %d: got %s, want %s", i, c.Ticker, wantPos[i])
		}
	}

	// Negatives come out worst first.
	if got := len(sheet.Negatives); got != 2 {
		t.Fatalf("negatives: got %d, want 2", got)
	}
	if sheet.Negatives[0].Ticker != "TLT" {
		t.Errorf("worst contributor: got %s, want TLT", sheet.Negatives[0].Ticker)
	}
}

func TestFactSheet_LinesAreAbsolute(t *testing.T) {
	sheet := NewFactSheet(explanationFixture(), "USD")

	for _, line := range sheet.Lines() {
		if strings.Contains(line, "%") {
			t.Errorf("fact line contains a percentage: %q", line)
		}
	}
}

func TestFactSheet_MoneyFormatting(t *testing.T) {
	sheet := NewFactSheet(explanationFixture(), "USD")

	lines := sheet.Lines()
	if !strings.Contains(lines[1], "$100,000.00") {
		t.Errorf("NAV line not formatted as USD: %q", lines[1])
	}
}

type stubNarrator struct {
	text string
	err  error
}

func (s stubNarrator) Narrate(_ context.Context, _ FactSheet) (string, error) {
	return s.text, s.err
}

func TestExplainer_NilNarratorUsesTemplate(t *testing.T) {
	x := NewExplainer(nil)

	got := x.Explain(context.Background(), explanationFixture(), "USD")
	if !strings.Contains(got, "Portfolio commentary for 2025-01-13.") {
		t.Errorf("want template output, got %q", got)
	}
}

func TestExplainer_NarratorFailureFallsBack(t *testing.T) {
	x := NewExplainer(stubNarrator{err: errors.New("backend down")})

	got := x.Explain(context.Background(), explanationFixture(), "USD")
	if !strings.Contains(got, "Portfolio commentary for 2025-01-13.") {
		t.Errorf("want template fallback, got %q", got)
	}
}

func TestExplainer_NarratorText(t *testing.T) {
	x := NewExplainer(stubNarrator{text: "The portfolio gained on NVDA strength."})

	got := x.Explain(context.Background(), explanationFixture(), "USD")
	if got != "The portfolio gained on NVDA strength." {
		t.Errorf("got %q", got)
	}
}
