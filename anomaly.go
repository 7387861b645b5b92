package portfolio

import (
	"math"
	"sort"
)

// AlertBigNavMove tags a NavPoint whose absolute daily return reached the
// configured threshold.
const AlertBigNavMove = "BIG_NAV_MOVE"

// Alert is one flagged anomaly in a NAV series.
type Alert struct {
	Type  string
	Point NavPoint
}

// DetectBigMoves returns every point of the series whose |daily return| is
// greater than or equal to the threshold, in series order. The boundary
// case |return| == threshold is included. Points without a daily return
// (the first of a series) are never flagged.
func DetectBigMoves(series []NavPoint, threshold float64) []Alert {
	var alerts []Alert
	for _, p := range series {
		if p.DailyReturn == nil {
			continue
		}
		if math.Abs(*p.DailyReturn) >= threshold {
			alerts = append(alerts, Alert{Type: AlertBigNavMove, Point: p})
		}
	}
	return alerts
}

// SortByMagnitude orders alerts by descending |daily return|, so the
// largest move comes first.
func SortByMagnitude(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return math.Abs(*alerts[i].Point.DailyReturn) > math.Abs(*alerts[j].Point.DailyReturn)
	})
}
