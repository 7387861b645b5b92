// Package intent classifies free-text portfolio questions into structured
// intent records. A fixed-priority deterministic rule table runs first; an
// optional external classifier handles what the rules miss.
package intent

// Registry is the allow-list of recognized ticker symbols. It is built
// from the securities table and must be rebuilt whenever an ingestion
// commits, so it can never silently go stale.
type Registry struct {
	allowed map[string]bool
}

// NewRegistry builds a registry from the known ticker symbols.
func NewRegistry(tickers []string) *Registry {
	allowed := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		allowed[t] = true
	}
	return &Registry{allowed: allowed}
}

// Contains reports whether the token is a recognized ticker.
func (r *Registry) Contains(token string) bool { return r.allowed[token] }

// Len returns the number of recognized tickers.
func (r *Registry) Len() int { return len(r.allowed) }
