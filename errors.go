package portfolio

import "fmt"

// ValidationError reports an ingestion batch that failed a data-quality
// rule. It carries the rule name and the offending rows so operators can
// find the bad data without re-running anything. The batch is rejected as
// a whole and the store is left untouched.
type ValidationError struct {
	Rule string
	Rows []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("validation failed: %s", e.Rule)
	for _, r := range e.Rows {
		msg += "\n  " + r
	}
	return msg
}

// NotFoundError reports a query for a date, ticker, or security that has
// no data at all. It is distinct from a legitimately-zero value.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return "not found: " + e.What }

// UnsupportedIntentError reports a free-text question that neither the
// deterministic rules nor the fallback classifier could map to a known
// intent.
type UnsupportedIntentError struct {
	Question string
}

func (e *UnsupportedIntentError) Error() string {
	return fmt.Sprintf("unsupported question: %q", e.Question)
}

// ExternalServiceError reports the classifier or narration backend being
// unreachable, timing out, or returning a payload that violates its
// contract.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
