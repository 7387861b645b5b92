package portfolio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

// Security identifies one instrument of the portfolio. Referenced by price
// and holding rows through its ID.
type Security struct {
	ID         int64  `json:"security_id"`
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	AssetClass string `json:"asset_class"`
	Currency   string `json:"currency"`
}

// PriceObservation is the close price of a security on a date. At most one
// observation exists per (security, date).
type PriceObservation struct {
	Date       date.Date       `json:"date"`
	SecurityID int64           `json:"security_id"`
	Close      decimal.Decimal `json:"close_price"`
}

// HoldingRecord is the quantity of a security held on a date. At most one
// record exists per (date, security).
type HoldingRecord struct {
	Date       date.Date       `json:"date"`
	SecurityID int64           `json:"security_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CashBalance is the portfolio cash balance on a date. At most one balance
// exists per date.
type CashBalance struct {
	Date     date.Date       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Batch is one full replacement set of the four snapshot tables, ingested
// together. Dates are already normalized to their canonical form.
type Batch struct {
	Securities []Security
	Prices     []PriceObservation
	Holdings   []HoldingRecord
	Cash       []CashBalance
}

// raw wire forms: dates arrive as strings in mixed representations and are
// normalized during decoding.

type rawPrice struct {
	Date       string          `json:"date"`
	SecurityID int64           `json:"security_id"`
	Close      decimal.Decimal `json:"close_price"`
}

type rawHolding struct {
	Date       string          `json:"date"`
	SecurityID int64           `json:"security_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type rawCash struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type rawBatch struct {
	Securities []Security   `json:"securities"`
	Prices     []rawPrice   `json:"prices"`
	Holdings   []rawHolding `json:"holdings"`
	Cash       []rawCash    `json:"cash"`
}

// DecodeBatch reads a JSON batch document and normalizes every date column
// to the canonical ISO form. An unparseable date fails the whole batch with
// a ValidationError naming the table and the offending rows; it is never
// silently dropped.
func DecodeBatch(r io.Reader) (*Batch, error) {
	var raw rawBatch
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}

	b := &Batch{Securities: raw.Securities}
	var bad []string

	for _, p := range raw.Prices {
		d, err := date.Parse(p.Date)
		if err != nil {
			bad = append(bad, fmt.Sprintf("prices.date security_id=%d: %v", p.SecurityID, err))
			continue
		}
		b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: p.SecurityID, Close: p.Close})
	}
	for _, h := range raw.Holdings {
		d, err := date.Parse(h.Date)
		if err != nil {
			bad = append(bad, fmt.Sprintf("holdings.date security_id=%d: %v", h.SecurityID, err))
			continue
		}
		b.Holdings = append(b.Holdings, HoldingRecord{Date: d, SecurityID: h.SecurityID, Quantity: h.Quantity})
	}
	for _, c := range raw.Cash {
		d, err := date.Parse(c.Date)
		if err != nil {
			bad = append(bad, fmt.Sprintf("cash.date: %v", err))
			continue
		}
		b.Cash = append(b.Cash, CashBalance{Date: d, Amount: c.Amount, Currency: c.Currency})
	}

	if len(bad) > 0 {
		return nil, &ValidationError{Rule: "normalize dates", Rows: bad}
	}
	return b, nil
}

// --- derived values, computed on demand and never stored ---

// NavPoint is the net asset value of the portfolio on one date, with its
// day-over-day change and return. The first point of a series has no
// previous date and both DailyChange and DailyReturn are nil.
type NavPoint struct {
	Date        date.Date
	NAV         decimal.Decimal
	DailyChange *decimal.Decimal
	DailyReturn *float64
}

// PnLContribution is the change in value attributable to one security's
// price movement on a date, holding size fixed. PrevClose is that
// security's own most recent prior observation.
type PnLContribution struct {
	Ticker    string
	Date      date.Date
	Quantity  decimal.Decimal
	PrevClose decimal.Decimal
	Close     decimal.Decimal
	PnL       decimal.Decimal
}

// CashChange is the movement of the cash balance between a date and the
// previous date holding a cash record. Change is nil when there is no
// prior record.
type CashChange struct {
	Date       date.Date
	Amount     decimal.Decimal
	PrevAmount *decimal.Decimal
	Change     *decimal.Decimal
}

// BreakdownRow is one security's market value on a date, with its share of
// the total securities value.
type BreakdownRow struct {
	Ticker       string
	Name         string
	AssetClass   string
	Quantity     decimal.Decimal
	Close        decimal.Decimal
	MarketValue  decimal.Decimal
	Contribution float64
}

// HoldingDetail answers "what did I hold in X on d": the position enriched
// with the same-date close and market value when a price exists.
type HoldingDetail struct {
	Ticker      string
	Date        date.Date
	Quantity    decimal.Decimal
	Close       *decimal.Decimal
	MarketValue *decimal.Decimal
}

// FormatMoney renders an amount using its currency's conventions
// (symbol, grouping, minor units).
func FormatMoney(value decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	shifted := value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.IntPart())
}
