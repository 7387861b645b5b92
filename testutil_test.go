package portfolio

import (
	"path/filepath"
	"testing"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

// fixtureBatch is three securities over three dates, small enough to check
// every derived number by hand.
//
// NAV by date:
//
//	2025-01-10: 10*100 + 5*200 + 20*50 + 1000 = 4000
//	2025-01-13: 10*110 + 5*205 + 1200        = 3325 (BND unpriced, excluded)
//	2025-01-14: 10*100 + 5*210 + 1200        = 3250
func fixtureBatch() *Batch {
	d1 := date.New(2025, 1, 10)
	d2 := date.New(2025, 1, 13)
	d3 := date.New(2025, 1, 14)

	px := func(d date.Date, id int64, close int64) PriceObservation {
		return PriceObservation{Date: d, SecurityID: id, Close: decimal.NewFromInt(close)}
	}
	hold := func(d date.Date, id int64, qty int64) HoldingRecord {
		return HoldingRecord{Date: d, SecurityID: id, Quantity: decimal.NewFromInt(qty)}
	}
	cash := func(d date.Date, amount int64) CashBalance {
		return CashBalance{Date: d, Amount: decimal.NewFromInt(amount), Currency: "USD"}
	}

	return &Batch{
		Securities: []Security{
			{ID: 1, Ticker: "NVDA", Name: "NVIDIA Corp", AssetClass: "Equity", Currency: "USD"},
			{ID: 2, Ticker: "AAPL", Name: "Apple Inc", AssetClass: "Equity", Currency: "USD"},
			{ID: 3, Ticker: "BND", Name: "Vanguard Total Bond", AssetClass: "Bond", Currency: "USD"},
		},
		Prices: []PriceObservation{
			px(d1, 1, 100), px(d2, 1, 110), px(d3, 1, 100),
			px(d1, 2, 200), px(d2, 2, 205), px(d3, 2, 210),
			px(d1, 3, 50),
		},
		Holdings: []HoldingRecord{
			hold(d1, 1, 10), hold(d1, 2, 5), hold(d1, 3, 20),
			hold(d2, 1, 10), hold(d2, 2, 5), hold(d2, 3, 20),
			hold(d3, 1, 10), hold(d3, 2, 5),
		},
		Cash: []CashBalance{cash(d1, 1000), cash(d2, 1200), cash(d3, 1200)},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "pav.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedStore returns a store holding the fixture batch.
func seedStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	if err := NewValidator(DefaultConfig()).Apply(store, fixtureBatch()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return store
}
