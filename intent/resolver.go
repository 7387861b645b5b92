package intent

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/date"
)

// Intent is the normalized record a question resolves to. Date and Ticker
// are optional: a rule attaches whichever it could extract.
type Intent struct {
	Kind   Kind
	Date   *date.Date
	Ticker string
}

// Classifier is the external fallback stage. It must return one Kind out
// of the allowed set, or Unknown; it performs no computation and has no
// data access beyond the question text.
type Classifier interface {
	Classify(ctx context.Context, question string, allowed []Kind) (Kind, error)
}

// Resolver classifies one free-text question at a time. It holds no
// session state; the registry and classifier are injected so tests can
// substitute deterministic stubs.
type Resolver struct {
	registry   *Registry
	classifier Classifier
}

// NewResolver returns a resolver over the given ticker registry. The
// classifier may be nil, in which case unresolved questions fail with
// UnsupportedIntentError instead of reaching a backend.
func NewResolver(registry *Registry, classifier Classifier) *Resolver {
	return &Resolver{registry: registry, classifier: classifier}
}

// Resolve classifies the question. The deterministic rule table runs
// first, in its documented order; the external classifier only sees
// questions no rule matched. An ExternalServiceError from the classifier
// propagates; any contract-violating answer is treated as Unknown and
// surfaces as UnsupportedIntentError.
func (r *Resolver) Resolve(ctx context.Context, question string) (Intent, error) {
	q := strings.ToLower(strings.TrimSpace(question))

	for _, rule := range Rules {
		if rule.Match(q) {
			return Intent{
				Kind:   rule.Kind,
				Date:   ExtractDate(question),
				Ticker: r.ExtractTicker(question),
			}, nil
		}
	}

	if r.classifier == nil {
		return Intent{Kind: Unknown}, &portfolio.UnsupportedIntentError{Question: question}
	}

	kind, err := r.classifier.Classify(ctx, question, AllowedKinds)
	if err != nil {
		return Intent{Kind: Unknown}, err
	}
	if !allowed(kind) {
		return Intent{Kind: Unknown}, &portfolio.UnsupportedIntentError{Question: question}
	}
	return Intent{
		Kind:   kind,
		Date:   ExtractDate(question),
		Ticker: r.ExtractTicker(question),
	}, nil
}

func allowed(kind Kind) bool {
	for _, k := range AllowedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

var (
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	looseDateRe = regexp.MustCompile(`(\d{4})\D(\d{1,2})\D(\d{1,2})`)
	tokenRe     = regexp.MustCompile(`[A-Za-z]{1,5}`)
)

// ExtractDate pulls a date out of the question: the canonical ISO pattern
// first, then a loosely-delimited year/month/day fallback. Returns nil
// when neither yields a plausible date.
func ExtractDate(question string) *date.Date {
	if m := isoDateRe.FindString(question); m != "" {
		if d, err := date.Parse(m); err == nil {
			return &d
		}
	}
	if m := looseDateRe.FindStringSubmatch(question); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		da, _ := strconv.Atoi(m[3])
		if mo >= 1 && mo <= 12 && da >= 1 && da <= 31 {
			d := date.New(y, time.Month(mo), da)
			return &d
		}
	}
	return nil
}

// ExtractTicker tokenizes the question into short uppercase candidates and
// returns the first one present in the allow-list, or "".
func (r *Resolver) ExtractTicker(question string) string {
	for _, tok := range tokenRe.FindAllString(strings.ToUpper(question), -1) {
		if r.registry.Contains(tok) {
			return tok
		}
	}
	return ""
}
