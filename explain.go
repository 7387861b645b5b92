package portfolio

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// Contributor is one line of the fact sheet's top movers.
type Contributor struct {
	Ticker string
	PnL    decimal.Decimal
}

// FactSheet is the complete set of facts the narrative is allowed to
// state. The narrator must not introduce anything beyond it.
type FactSheet struct {
	Date             string
	Currency         string
	NAV              decimal.Decimal
	NavChange        *decimal.Decimal
	TotalSecurityPnL decimal.Decimal
	CashChange       *decimal.Decimal
	Residual         *decimal.Decimal
	Positives        []Contributor
	Negatives        []Contributor
}

// NewFactSheet builds the fact sheet for a day explanation: the headline
// numbers plus the top three positive and top three negative contributors
// by pnl.
func NewFactSheet(exp *DayExplanation, currency string) FactSheet {
	sheet := FactSheet{
		Date:             exp.Nav.Date.String(),
		Currency:         currency,
		NAV:              exp.Nav.NAV,
		NavChange:        exp.Nav.DailyChange,
		TotalSecurityPnL: exp.TotalSecurityPnL,
		Residual:         exp.Residual,
	}
	if exp.Cash != nil {
		sheet.CashChange = exp.Cash.Change
	}
	// Contributions are already ordered by descending pnl.
	for _, c := range exp.Contributions {
		if c.PnL.IsPositive() && len(sheet.Positives) < 3 {
			sheet.Positives = append(sheet.Positives, Contributor{Ticker: c.Ticker, PnL: c.PnL})
		}
	}
	for i := len(exp.Contributions) - 1; i >= 0; i-- {
		c := exp.Contributions[i]
		if c.PnL.IsNegative() && len(sheet.Negatives) < 3 {
			sheet.Negatives = append(sheet.Negatives, Contributor{Ticker: c.Ticker, PnL: c.PnL})
		}
	}
	return sheet
}

func (f FactSheet) money(v decimal.Decimal) string {
	if f.Currency == "" {
		return v.StringFixed(2)
	}
	return FormatMoney(v, f.Currency)
}

func (f FactSheet) optMoney(v *decimal.Decimal) string {
	if v == nil {
		return "none"
	}
	return f.money(*v)
}

// Lines renders the fact sheet as short declarative statements, absolute
// values only. This is both the deterministic fallback narrative and the
// only material handed to the narration backend.
func (f FactSheet) Lines() []string {
	lines := []string{
		fmt.Sprintf("Date: %s.", f.Date),
		fmt.Sprintf("NAV: %s.", f.money(f.NAV)),
		fmt.Sprintf("NAV change: %s.", f.optMoney(f.NavChange)),
		fmt.Sprintf("Securities pnl: %s.", f.money(f.TotalSecurityPnL)),
		fmt.Sprintf("Cash change: %s.", f.optMoney(f.CashChange)),
		fmt.Sprintf("Unexplained residual: %s.", f.optMoney(f.Residual)),
	}
	if len(f.Positives) > 0 {
		var parts []string
		for _, c := range f.Positives {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Ticker, f.money(c.PnL)))
		}
		lines = append(lines, "Top gainers: "+strings.Join(parts, ", ")+".")
	}
	if len(f.Negatives) > 0 {
		var parts []string
		for _, c := range f.Negatives {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Ticker, f.money(c.PnL)))
		}
		lines = append(lines, "Top losers: "+strings.Join(parts, ", ")+".")
	}
	return lines
}

// Template renders the deterministic fallback commentary.
func (f FactSheet) Template() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio commentary for %s.\n", f.Date)
	for _, line := range f.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Narrator turns a fact sheet into bounded natural-language commentary.
// Implementations must stay within the sheet: absolute values only, no
// percentages, no facts of their own.
type Narrator interface {
	Narrate(ctx context.Context, sheet FactSheet) (string, error)
}

// Explainer produces the day commentary. With no narrator configured, or
// when the narrator fails, it degrades to the deterministic template; it
// never fails the request outright.
type Explainer struct {
	narrator Narrator
}

// NewExplainer returns an explainer using the given narrator. A nil
// narrator is valid and yields template-only output.
func NewExplainer(narrator Narrator) *Explainer {
	return &Explainer{narrator: narrator}
}

// Explain renders the commentary for a day explanation.
func (x *Explainer) Explain(ctx context.Context, exp *DayExplanation, currency string) string {
	sheet := NewFactSheet(exp, currency)
	if x.narrator == nil {
		return sheet.Template()
	}
	text, err := x.narrator.Narrate(ctx, sheet)
	if err != nil {
		log.Printf("narration unavailable, falling back to template: %v", err)
		return sheet.Template()
	}
	return text
}
