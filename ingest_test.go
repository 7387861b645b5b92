package portfolio

import (
	"errors"
	"strings"
	"testing"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

func TestValidate_AcceptsFixture(t *testing.T) {
	if err := NewValidator(DefaultConfig()).Validate(fixtureBatch()); err != nil {
		t.Fatalf("fixture batch must validate, got %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	d := date.New(2025, 1, 15)

	tests := []struct {
		name   string
		mutate func(b *Batch)
		rule   string
	}{
		{
			name: "zero price",
			mutate: func(b *Batch) {
				b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: 1, Close: decimal.Zero})
			},
			rule: "prices must be > 0",
		},
		{
			name: "negative price",
			mutate: func(b *Batch) {
				b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: 1, Close: decimal.NewFromInt(-5)})
			},
			rule: "prices must be > 0",
		},
		{
			name: "fat finger up",
			mutate: func(b *Batch) {
				// NVDA closed at 100 on the 14th, 150 is a 50% jump.
				b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: 1, Close: decimal.NewFromInt(150)})
			},
			rule: "price fat finger",
		},
		{
			name: "fat finger down",
			mutate: func(b *Batch) {
				b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: 1, Close: decimal.NewFromInt(60)})
			},
			rule: "price fat finger",
		},
		{
			name: "zero quantity",
			mutate: func(b *Batch) {
				b.Holdings = append(b.Holdings, HoldingRecord{Date: d, SecurityID: 1, Quantity: decimal.Zero})
			},
			rule: "quantities must be > 0",
		},
		{
			name: "negative quantity",
			mutate: func(b *Batch) {
				b.Holdings = append(b.Holdings, HoldingRecord{Date: d, SecurityID: 1, Quantity: decimal.NewFromInt(-1)})
			},
			rule: "quantities must be > 0",
		},
		{
			name: "oversized position",
			mutate: func(b *Batch) {
				b.Holdings = append(b.Holdings, HoldingRecord{Date: d, SecurityID: 1, Quantity: decimal.NewFromInt(10001)})
			},
			rule: "position size exceeds maximum",
		},
		{
			name: "duplicate holding row",
			mutate: func(b *Batch) {
				b.Holdings = append(b.Holdings, b.Holdings[0])
			},
			rule: "duplicate holding rows",
		},
		{
			name: "negative cash",
			mutate: func(b *Batch) {
				b.Cash = append(b.Cash, CashBalance{Date: d, Amount: decimal.NewFromInt(-100), Currency: "USD"})
			},
			rule: "cash cannot be negative",
		},
		{
			name: "duplicate cash date",
			mutate: func(b *Batch) {
				b.Cash = append(b.Cash, b.Cash[0])
			},
			rule: "duplicate cash dates",
		},
		{
			name: "unknown security in prices",
			mutate: func(b *Batch) {
				b.Prices = append(b.Prices, PriceObservation{Date: d, SecurityID: 99, Close: decimal.NewFromInt(10)})
			},
			rule: "unknown security reference",
		},
		{
			name: "unknown security in holdings",
			mutate: func(b *Batch) {
				b.Holdings = append(b.Holdings, HoldingRecord{Date: d, SecurityID: 99, Quantity: decimal.NewFromInt(1)})
			},
			rule: "unknown security reference",
		},
	}

	v := NewValidator(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixtureBatch()
			tt.mutate(b)

			err := v.Validate(b)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want *ValidationError, got %v", err)
			}
			if verr.Rule != tt.rule {
				t.Errorf("rule: got %q, want %q", verr.Rule, tt.rule)
			}
			if len(verr.Rows) == 0 {
				t.Error("validation error must carry the offending rows")
			}
		})
	}
}

func TestValidate_MaxMoveBoundary(t *testing.T) {
	// An exact 30% move is the largest tolerated one.
	b := fixtureBatch()
	b.Prices = append(b.Prices, PriceObservation{
		Date: date.New(2025, 1, 15), SecurityID: 1, Close: decimal.NewFromInt(130),
	})
	if err := NewValidator(DefaultConfig()).Validate(b); err != nil {
		t.Fatalf("30%% move must pass, got %v", err)
	}
}

func TestValidate_ReportsAllOffendingRows(t *testing.T) {
	b := fixtureBatch()
	b.Prices = append(b.Prices,
		PriceObservation{Date: date.New(2025, 1, 15), SecurityID: 1, Close: decimal.Zero},
		PriceObservation{Date: date.New(2025, 1, 16), SecurityID: 2, Close: decimal.NewFromInt(-1)},
	)

	err := NewValidator(DefaultConfig()).Validate(b)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if got, want := len(verr.Rows), 2; got != want {
		t.Errorf("rows: got %d, want %d\n%v", got, want, verr.Rows)
	}
}

func TestApply_FailureLeavesStoreUntouched(t *testing.T) {
	store := seedStore(t)
	engine := NewEngine(store)

	before, err := engine.NavOnDate(date.New(2025, 1, 10))
	if err != nil {
		t.Fatal(err)
	}

	bad := fixtureBatch()
	bad.Cash[0].Amount = decimal.NewFromInt(-1)
	if err := NewValidator(DefaultConfig()).Apply(store, bad); err == nil {
		t.Fatal("bad batch must be rejected")
	}

	after, err := engine.NavOnDate(date.New(2025, 1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if !after.Equal(before) {
		t.Errorf("NAV after failed ingest: got %s, want %s", after, before)
	}
}

func TestApply_ReplacesWholeSnapshot(t *testing.T) {
	store := seedStore(t)

	smaller := fixtureBatch()
	smaller.Holdings = smaller.Holdings[:3] // keep 2025-01-10 only
	smaller.Cash = smaller.Cash[:1]
	if err := NewValidator(DefaultConfig()).Apply(store, smaller); err != nil {
		t.Fatal(err)
	}

	dates, err := store.HoldingDates()
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || dates[0] != date.New(2025, 1, 10) {
		t.Errorf("holding dates after replace: got %v, want [2025-01-10]", dates)
	}
}

func TestDecodeBatch_NormalizesDates(t *testing.T) {
	doc := `{
		"securities": [{"security_id": 1, "ticker": "NVDA", "name": "NVIDIA Corp", "asset_class": "Equity", "currency": "USD"}],
		"prices":   [{"date": "13/01/2025", "security_id": 1, "close_price": 120.5}],
		"holdings": [{"date": "2025-1-13", "security_id": 1, "quantity": 100}],
		"cash":     [{"date": "13 January 2025", "amount": 5000, "currency": "USD"}]
	}`

	b, err := DecodeBatch(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	want := date.New(2025, 1, 13)
	if got := b.Prices[0].Date; got != want {
		t.Errorf("prices date: got %s, want %s", got, want)
	}
	if got := b.Holdings[0].Date; got != want {
		t.Errorf("holdings date: got %s, want %s", got, want)
	}
	if got := b.Cash[0].Date; got != want {
		t.Errorf("cash date: got %s, want %s", got, want)
	}
}

func TestDecodeBatch_RejectsBadDates(t *testing.T) {
	doc := `{
		"securities": [{"security_id": 1, "ticker": "NVDA", "name": "n", "asset_class": "Equity", "currency": "USD"}],
		"prices": [{"date": "not-a-date", "security_id": 1, "close_price": 1}]
	}`

	_, err := DecodeBatch(strings.NewReader(doc))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if verr.Rule != "normalize dates" {
		t.Errorf("rule: got %q, want %q", verr.Rule, "normalize dates")
	}
}
