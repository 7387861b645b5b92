package portfolio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Config carries the data-quality and detection thresholds. Zero values
// are replaced by the defaults, so an empty Config is usable.
type Config struct {
	// MaxPriceMove is the largest tolerated day-over-day price move per
	// security, as a ratio. Anything beyond it is treated as a likely
	// data-entry error ("fat finger") and rejects the batch.
	MaxPriceMove float64
	// MaxPositionSize is the largest tolerated quantity per security per day.
	MaxPositionSize decimal.Decimal
	// BigMoveThreshold is the |daily return| at or above which a NAV move
	// is flagged as anomalous.
	BigMoveThreshold float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MaxPriceMove:     0.30,
		MaxPositionSize:  decimal.NewFromInt(10000),
		BigMoveThreshold: 0.03,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxPriceMove == 0 {
		c.MaxPriceMove = def.MaxPriceMove
	}
	if c.MaxPositionSize.IsZero() {
		c.MaxPositionSize = def.MaxPositionSize
	}
	if c.BigMoveThreshold == 0 {
		c.BigMoveThreshold = def.BigMoveThreshold
	}
	return c
}

// Validator checks an ingestion batch against the data-quality rules and
// applies it to a store only when every rule passes.
type Validator struct {
	cfg Config
}

// NewValidator returns a validator using the given thresholds.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg.withDefaults()}
}

// Validate runs every rule against the batch. It returns the first
// violated rule as a *ValidationError carrying all of that rule's
// offending rows.
func (v *Validator) Validate(b *Batch) error {
	if err := v.validateReferences(b); err != nil {
		return err
	}
	if err := v.validatePrices(b.Prices); err != nil {
		return err
	}
	if err := v.validateHoldings(b.Holdings); err != nil {
		return err
	}
	if err := v.validateCash(b.Cash); err != nil {
		return err
	}
	return nil
}

// Apply validates the batch and, only if every rule passes, atomically
// replaces the store's four tables. On failure the store is untouched.
func (v *Validator) Apply(store *Store, b *Batch) error {
	if err := v.Validate(b); err != nil {
		return err
	}
	return store.Replace(b)
}

// validateReferences rejects price or holding rows referencing a security
// absent from the securities table.
func (v *Validator) validateReferences(b *Batch) error {
	known := make(map[int64]bool, len(b.Securities))
	for _, sec := range b.Securities {
		known[sec.ID] = true
	}
	var bad []string
	for _, p := range b.Prices {
		if !known[p.SecurityID] {
			bad = append(bad, fmt.Sprintf("prices: unknown security_id=%d on %s", p.SecurityID, p.Date))
		}
	}
	for _, h := range b.Holdings {
		if !known[h.SecurityID] {
			bad = append(bad, fmt.Sprintf("holdings: unknown security_id=%d on %s", h.SecurityID, h.Date))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "unknown security reference", Rows: bad}
	}
	return nil
}

// validatePrices rejects non-positive prices, then checks every
// day-over-day move per security against the fat-finger threshold. The
// previous price is each security's own immediately preceding observation.
func (v *Validator) validatePrices(prices []PriceObservation) error {
	var bad []string
	for _, p := range prices {
		if !p.Close.IsPositive() {
			bad = append(bad, fmt.Sprintf("security_id=%d %s close_price=%s", p.SecurityID, p.Date, p.Close))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "prices must be > 0", Rows: bad}
	}

	sorted := make([]PriceObservation, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SecurityID != sorted[j].SecurityID {
			return sorted[i].SecurityID < sorted[j].SecurityID
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	prev := make(map[int64]decimal.Decimal)
	for _, p := range sorted {
		if last, ok := prev[p.SecurityID]; ok {
			move, _ := p.Close.Sub(last).Div(last).Float64()
			if move > v.cfg.MaxPriceMove || move < -v.cfg.MaxPriceMove {
				bad = append(bad, fmt.Sprintf(
					"security_id=%d %s close=%s prev=%s move=%+.2f%%",
					p.SecurityID, p.Date, p.Close, last, 100*move))
			}
		}
		prev[p.SecurityID] = p.Close
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "price fat finger", Rows: bad}
	}
	return nil
}

// validateHoldings rejects non-positive quantities, quantities above the
// maximum position size, and duplicate (date, security) rows.
func (v *Validator) validateHoldings(holdings []HoldingRecord) error {
	var bad []string
	for _, h := range holdings {
		if !h.Quantity.IsPositive() {
			bad = append(bad, fmt.Sprintf("security_id=%d %s quantity=%s", h.SecurityID, h.Date, h.Quantity))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "quantities must be > 0", Rows: bad}
	}

	for _, h := range holdings {
		if h.Quantity.GreaterThan(v.cfg.MaxPositionSize) {
			bad = append(bad, fmt.Sprintf("security_id=%d %s quantity=%s max=%s",
				h.SecurityID, h.Date, h.Quantity, v.cfg.MaxPositionSize))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "position size exceeds maximum", Rows: bad}
	}

	seen := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		key := fmt.Sprintf("%s/%d", h.Date, h.SecurityID)
		if seen[key] {
			bad = append(bad, fmt.Sprintf("security_id=%d %s", h.SecurityID, h.Date))
		}
		seen[key] = true
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "duplicate holding rows", Rows: bad}
	}
	return nil
}

// validateCash rejects negative amounts and duplicate dates.
func (v *Validator) validateCash(cash []CashBalance) error {
	var bad []string
	for _, c := range cash {
		if c.Amount.IsNegative() {
			bad = append(bad, fmt.Sprintf("%s amount=%s", c.Date, c.Amount))
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "cash cannot be negative", Rows: bad}
	}

	seen := make(map[string]bool, len(cash))
	for _, c := range cash {
		key := c.Date.String()
		if seen[key] {
			bad = append(bad, key)
		}
		seen[key] = true
	}
	if len(bad) > 0 {
		return &ValidationError{Rule: "duplicate cash dates", Rows: bad}
	}
	return nil
}
