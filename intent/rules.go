package intent

import "strings"

// Kind is a normalized question intent.
type Kind string

const (
	NavQuery          Kind = "NAV_QUERY"
	ExplainDay        Kind = "EXPLAIN_DAY"
	BigNavMoves       Kind = "BIG_NAV_MOVES"
	HoldingQuery      Kind = "HOLDING_QUERY"
	CashQuery         Kind = "CASH_QUERY"
	CashChangeExplain Kind = "CASH_CHANGE_EXPLAIN"
	Unknown           Kind = "UNKNOWN"
)

// AllowedKinds is the closed set the fallback classifier may answer with.
// Anything else is normalized to Unknown.
var AllowedKinds = []Kind{
	NavQuery, ExplainDay, BigNavMoves, HoldingQuery, CashQuery, CashChangeExplain,
}

// Rule is one deterministic classification rule: a name for diagnostics,
// the intent it produces, and a predicate over the lowercased question.
type Rule struct {
	Name  string
	Kind  Kind
	Match func(q string) bool
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// Rules is the ordered rule table. Order is the documented precedence and
// the first match wins: cash-change-explain must come before the plain
// cash query or the overlapping "cash" keyword would swallow it, and the
// cash rules come before explain-day so "why did cash drop" is about cash,
// not the whole day.
var Rules = []Rule{
	{
		Name: "cash-change-explain",
		Kind: CashChangeExplain,
		Match: func(q string) bool {
			return strings.Contains(q, "cash") &&
				containsAny(q, "change", "why", "drop", "increase", "decrease", "fall", "fell")
		},
	},
	{
		Name:  "cash-level",
		Kind:  CashQuery,
		Match: func(q string) bool { return strings.Contains(q, "cash") },
	},
	{
		Name:  "nav",
		Kind:  NavQuery,
		Match: func(q string) bool { return strings.Contains(q, "nav") },
	},
	{
		Name: "explain-day",
		Kind: ExplainDay,
		Match: func(q string) bool {
			return strings.HasPrefix(q, "explain") || strings.HasPrefix(q, "why")
		},
	},
	{
		Name: "big-moves",
		Kind: BigNavMoves,
		Match: func(q string) bool {
			return strings.Contains(q, "big") && containsAny(q, "move", "swing")
		},
	},
	{
		Name: "holding",
		Kind: HoldingQuery,
		Match: func(q string) bool {
			return containsAny(q, "holding", "shares", "position", "exposure")
		},
	},
}
