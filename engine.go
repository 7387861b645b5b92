package portfolio

import (
	"fmt"
	"sort"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

// Engine computes all derived analytics. Every method is a pure read over
// the snapshot store; nothing is cached between calls, so results always
// reflect the committed snapshot.
type Engine struct {
	store *Store
}

// NewEngine returns an engine reading from the given store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// navDates returns the ordered dates for which a NAV is defined: holding
// dates that also carry a cash balance.
func (e *Engine) navDates() ([]date.Date, error) {
	holdingDates, err := e.store.HoldingDates()
	if err != nil {
		return nil, err
	}
	var out []date.Date
	for _, d := range holdingDates {
		cash, err := e.store.CashOn(d)
		if err != nil {
			return nil, err
		}
		if cash != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// navAt computes the NAV for a date known to have holdings and cash.
//
// The securities sum is an inner match between holdings and same-date
// prices: a holding with no price observation on that date is excluded
// from the sum rather than failing the computation. This reproduces the
// established behavior; whether a missing price should instead be a hard
// error is an open data-quality question.
func (e *Engine) navAt(d date.Date) (decimal.Decimal, error) {
	holdings, err := e.store.HoldingsOn(d)
	if err != nil {
		return decimal.Zero, err
	}
	prices, err := e.store.PricesOn(d)
	if err != nil {
		return decimal.Zero, err
	}
	cash, err := e.store.CashOn(d)
	if err != nil {
		return decimal.Zero, err
	}

	nav := decimal.Zero
	for _, h := range holdings {
		px, ok := prices[h.SecurityID]
		if !ok {
			continue // inner match: unpriced holding excluded
		}
		nav = nav.Add(h.Quantity.Mul(px))
	}
	if cash != nil {
		nav = nav.Add(cash.Amount)
	}
	return nav, nil
}

// NavOnDate returns the net asset value on one date: the sum of held
// quantity times same-date close price, plus the cash balance. A date with
// no holdings or no cash balance has no NAV and yields a NotFoundError.
func (e *Engine) NavOnDate(d date.Date) (decimal.Decimal, error) {
	holdings, err := e.store.HoldingsOn(d)
	if err != nil {
		return decimal.Zero, err
	}
	cash, err := e.store.CashOn(d)
	if err != nil {
		return decimal.Zero, err
	}
	if len(holdings) == 0 || cash == nil {
		return decimal.Zero, &NotFoundError{What: fmt.Sprintf("NAV data for %s", d)}
	}
	return e.navAt(d)
}

// NavSeries returns the ordered NavPoint sequence over the dates that have
// data within the range. Dates are not necessarily contiguous calendar
// days: the previous point is the immediately preceding date with data in
// the ordered set. The first point has nil change and return.
func (e *Engine) NavSeries(rng date.Range) ([]NavPoint, error) {
	dates, err := e.navDates()
	if err != nil {
		return nil, err
	}

	var series []NavPoint
	var prev *NavPoint
	for _, d := range dates {
		if !rng.Contains(d) {
			continue
		}
		nav, err := e.navAt(d)
		if err != nil {
			return nil, err
		}
		point := NavPoint{Date: d, NAV: nav}
		if prev != nil && !prev.NAV.IsZero() {
			change := nav.Sub(prev.NAV)
			ret, _ := change.Div(prev.NAV).Float64()
			point.DailyChange = &change
			point.DailyReturn = &ret
		} else if prev != nil {
			change := nav.Sub(prev.NAV)
			point.DailyChange = &change
		}
		series = append(series, point)
		prev = &series[len(series)-1]
	}
	return series, nil
}

// NavPointOn returns the NavPoint for one date, with change and return
// computed against the immediately preceding date holding data in the
// whole store.
func (e *Engine) NavPointOn(d date.Date) (*NavPoint, error) {
	series, err := e.NavSeries(date.Range{})
	if err != nil {
		return nil, err
	}
	for i := range series {
		if series[i].Date == d {
			return &series[i], nil
		}
	}
	return nil, &NotFoundError{What: fmt.Sprintf("NAV data for %s", d)}
}

// NavBetween returns the NAV at the start and end dates and the change
// between them.
func (e *Engine) NavBetween(start, end date.Date) (navStart, navEnd, change decimal.Decimal, err error) {
	if navStart, err = e.NavOnDate(start); err != nil {
		return
	}
	if navEnd, err = e.NavOnDate(end); err != nil {
		return
	}
	change = navEnd.Sub(navStart)
	return
}

// Breakdown returns the per-security market values on a date, ordered by
// descending value, each with its share of the total securities value.
// Unpriced holdings are excluded, consistent with NavOnDate.
func (e *Engine) Breakdown(d date.Date) ([]BreakdownRow, error) {
	holdings, err := e.store.HoldingsOn(d)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, &NotFoundError{What: fmt.Sprintf("holdings on %s", d)}
	}
	prices, err := e.store.PricesOn(d)
	if err != nil {
		return nil, err
	}
	secs, err := e.store.Securities()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]Security, len(secs))
	for _, sec := range secs {
		byID[sec.ID] = sec
	}

	var rows []BreakdownRow
	total := decimal.Zero
	for _, h := range holdings {
		px, ok := prices[h.SecurityID]
		if !ok {
			continue
		}
		sec := byID[h.SecurityID]
		value := h.Quantity.Mul(px)
		rows = append(rows, BreakdownRow{
			Ticker:      sec.Ticker,
			Name:        sec.Name,
			AssetClass:  sec.AssetClass,
			Quantity:    h.Quantity,
			Close:       px,
			MarketValue: value,
		})
		total = total.Add(value)
	}
	for i := range rows {
		if !total.IsZero() {
			rows[i].Contribution, _ = rows[i].MarketValue.Div(total).Float64()
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].MarketValue.GreaterThan(rows[j].MarketValue)
	})
	return rows, nil
}

// PnLContributions returns the per-security profit and loss on a date,
// ordered by descending pnl. Each security's previous close is its own
// most recent prior observation, independent of the portfolio-wide
// previous date. Securities without a same-date or prior close are
// excluded.
func (e *Engine) PnLContributions(d date.Date) ([]PnLContribution, error) {
	holdings, err := e.store.HoldingsOn(d)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, &NotFoundError{What: fmt.Sprintf("holdings on %s", d)}
	}
	prices, err := e.store.PricesOn(d)
	if err != nil {
		return nil, err
	}
	secs, err := e.store.Securities()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]Security, len(secs))
	for _, sec := range secs {
		byID[sec.ID] = sec
	}

	var out []PnLContribution
	for _, h := range holdings {
		px, ok := prices[h.SecurityID]
		if !ok {
			continue
		}
		prev, ok, err := e.store.PrevClose(h.SecurityID, d)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, PnLContribution{
			Ticker:    byID[h.SecurityID].Ticker,
			Date:      d,
			Quantity:  h.Quantity,
			PrevClose: prev,
			Close:     px,
			PnL:       h.Quantity.Mul(px.Sub(prev)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PnL.GreaterThan(out[j].PnL)
	})
	return out, nil
}

// CashChange returns the cash movement for a date against the previous
// date with a cash record. Change is nil when no prior record exists.
func (e *Engine) CashChange(d date.Date) (*CashChange, error) {
	cash, err := e.store.CashOn(d)
	if err != nil {
		return nil, err
	}
	if cash == nil {
		return nil, &NotFoundError{What: fmt.Sprintf("cash data for %s", d)}
	}

	all, err := e.store.CashAll()
	if err != nil {
		return nil, err
	}
	out := &CashChange{Date: d, Amount: cash.Amount}
	for i := range all {
		if all[i].Date == d && i > 0 {
			prev := all[i-1].Amount
			change := cash.Amount.Sub(prev)
			out.PrevAmount = &prev
			out.Change = &change
			break
		}
	}
	return out, nil
}

// CashSeries returns all cash balances in date order, each with the change
// from the previous record.
func (e *Engine) CashSeries() ([]CashChange, error) {
	all, err := e.store.CashAll()
	if err != nil {
		return nil, err
	}
	out := make([]CashChange, 0, len(all))
	for i, c := range all {
		cc := CashChange{Date: c.Date, Amount: c.Amount}
		if i > 0 {
			prev := all[i-1].Amount
			change := c.Amount.Sub(prev)
			cc.PrevAmount = &prev
			cc.Change = &change
		}
		out = append(out, cc)
	}
	return out, nil
}

// CashOnDate returns the cash balance for one date, failing with a
// NotFoundError when the date has no record. A zero balance is a valid
// answer, not an error.
func (e *Engine) CashOnDate(d date.Date) (*CashBalance, error) {
	cash, err := e.store.CashOn(d)
	if err != nil {
		return nil, err
	}
	if cash == nil {
		return nil, &NotFoundError{What: fmt.Sprintf("cash data for %s", d)}
	}
	return cash, nil
}

// HoldingOnDate returns the position held in a ticker on a date, enriched
// with the same-date close and market value when a price exists.
func (e *Engine) HoldingOnDate(ticker string, d date.Date) (*HoldingDetail, error) {
	sec, err := e.store.SecurityByTicker(ticker)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, &NotFoundError{What: fmt.Sprintf("security %q", ticker)}
	}
	holdings, err := e.store.HoldingsOn(d)
	if err != nil {
		return nil, err
	}
	for _, h := range holdings {
		if h.SecurityID != sec.ID {
			continue
		}
		detail := &HoldingDetail{Ticker: ticker, Date: d, Quantity: h.Quantity}
		prices, err := e.store.PricesOn(d)
		if err != nil {
			return nil, err
		}
		if px, ok := prices[sec.ID]; ok {
			value := h.Quantity.Mul(px)
			detail.Close = &px
			detail.MarketValue = &value
		}
		return detail, nil
	}
	return nil, &NotFoundError{What: fmt.Sprintf("holding in %s on %s", ticker, d)}
}

// DayExplanation gathers everything needed to account for one day's NAV
// move: the NAV point, the per-security pnl, the cash movement, and the
// residual the explainer surfaces as unexplained.
type DayExplanation struct {
	Nav              NavPoint
	Contributions    []PnLContribution
	Cash             *CashChange
	TotalSecurityPnL decimal.Decimal
	// Residual is daily_change - (sum pnl + cash change). It is nil on the
	// first date of the series, where no daily change exists. A non-zero
	// residual usually means positions opened or closed between the two
	// dates, or rounding.
	Residual *decimal.Decimal
}

// ExplainDay assembles the attribution facts for one date.
func (e *Engine) ExplainDay(d date.Date) (*DayExplanation, error) {
	nav, err := e.NavPointOn(d)
	if err != nil {
		return nil, err
	}
	contribs, err := e.PnLContributions(d)
	if err != nil {
		return nil, err
	}
	cash, err := e.CashChange(d)
	if err != nil {
		return nil, err
	}

	out := &DayExplanation{Nav: *nav, Contributions: contribs, Cash: cash}
	for _, c := range contribs {
		out.TotalSecurityPnL = out.TotalSecurityPnL.Add(c.PnL)
	}
	if nav.DailyChange != nil && cash.Change != nil {
		residual := nav.DailyChange.Sub(out.TotalSecurityPnL.Add(*cash.Change))
		out.Residual = &residual
	}
	return out, nil
}

// ReconciliationResidual returns the part of the day's NAV change not
// explained by summed security pnl plus cash change, or nil on the first
// date of the series.
func (e *Engine) ReconciliationResidual(d date.Date) (*decimal.Decimal, error) {
	exp, err := e.ExplainDay(d)
	if err != nil {
		return nil, err
	}
	return exp.Residual, nil
}
