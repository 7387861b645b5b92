package portfolio

import (
	"testing"

	"github.com/avianalytics/portfolio/date"
	"github.com/shopspring/decimal"
)

func navPoint(d date.Date, nav int64, ret *float64) NavPoint {
	p := NavPoint{Date: d, NAV: decimal.NewFromInt(nav), DailyReturn: ret}
	if ret != nil {
		change := decimal.NewFromFloat(*ret).Mul(p.NAV)
		p.DailyChange = &change
	}
	return p
}

func retp(r float64) *float64 { return &r }

func TestDetectBigMoves(t *testing.T) {
	series := []NavPoint{
		navPoint(date.New(2025, 1, 10), 4000, nil),
		navPoint(date.New(2025, 1, 13), 3900, retp(-0.025)),
		navPoint(date.New(2025, 1, 14), 4050, retp(0.03)),  // boundary, included
		navPoint(date.New(2025, 1, 15), 3800, retp(-0.062)),
	}

	alerts := DetectBigMoves(series, 0.03)
	if len(alerts) != 2 {
		t.Fatalf("alerts: got %d, want 2", len(alerts))
	}
	if alerts[0].Point.Date != date.New(2025, 1, 14) {
		t.Errorf("first alert: got %s, want 2025-01-14", alerts[0].Point.Date)
	}
	for _, a := range alerts {
		if a.Type != AlertBigNavMove {
			t.Errorf("alert type: got %q, want %q", a.Type, AlertBigNavMove)
		}
	}
}

func TestDetectBigMoves_SkipsFirstPoint(t *testing.T) {
	// A huge NAV with no previous day is not a move.
	series := []NavPoint{navPoint(date.New(2025, 1, 10), 1000000, nil)}
	if alerts := DetectBigMoves(series, 0.03); len(alerts) != 0 {
		t.Errorf("alerts: got %d, want 0", len(alerts))
	}
}

func TestDetectBigMoves_Empty(t *testing.T) {
	if alerts := DetectBigMoves(nil, 0.03); len(alerts) != 0 {
		t.Errorf("alerts: got %d, want 0", len(alerts))
	}
}

func TestDetectBigMoves_FromEngine(t *testing.T) {
	engine := NewEngine(seedStore(t))

	series, err := engine.NavSeries(date.Range{})
	if err != nil {
		t.Fatal(err)
	}
	// Only 2025-01-13 moves more than 3%: -675/4000.
	alerts := DetectBigMoves(series, 0.03)
	if len(alerts) != 1 {
		t.Fatalf("alerts: got %d, want 1", len(alerts))
	}
	if alerts[0].Point.Date != date.New(2025, 1, 13) {
		t.Errorf("alert date: got %s, want 2025-01-13", alerts[0].Point.Date)
	}
}

func TestSortByMagnitude(t *testing.T) {
	alerts := []Alert{
		{Type: AlertBigNavMove, Point: navPoint(date.New(2025, 1, 13), 4000, retp(0.04))},
		{Type: AlertBigNavMove, Point: navPoint(date.New(2025, 1, 14), 4000, retp(-0.09))},
		{Type: AlertBigNavMove, Point: navPoint(date.New(2025, 1, 15), 4000, retp(0.05))},
	}
	SortByMagnitude(alerts)

	want := []date.Date{date.New(2025, 1, 14), date.New(2025, 1, 15), date.New(2025, 1, 13)}
	for i, a := range alerts {
		if a.Point.Date != want[i] {
			t.Errorf("alert %d: got %s, want %s", i, a.Point.Date, want[i])
		}
	}
}
