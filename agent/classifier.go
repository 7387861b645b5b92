package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/avianalytics/portfolio"
	"github.com/avianalytics/portfolio/intent"
	"google.golang.org/genai"
)

// Classifier maps a free-text question onto the fixed intent set. It is
// the fallback stage behind the deterministic rules: the model only sees
// the question text and may only answer with one of the allowed intents
// or UNKNOWN, as structured JSON.
type Classifier struct {
	client *Client
}

// NewClassifier returns the classifier over a shared backend client.
func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

var _ intent.Classifier = (*Classifier)(nil)

// Classify asks the backend for the question's intent. A transport
// failure becomes an ExternalServiceError; any payload outside the
// contract is normalized to Unknown rather than trusted.
func (c *Classifier) Classify(ctx context.Context, question string, allowed []intent.Kind) (intent.Kind, error) {
	values := make([]string, 0, len(allowed)+1)
	for _, k := range allowed {
		values = append(values, string(k))
	}
	values = append(values, string(intent.Unknown))

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"intent": {
					Type:        genai.TypeString,
					Enum:        values,
					Description: "The single best matching intent, or UNKNOWN.",
				},
			},
			Required: []string{"intent"},
		},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You classify one question about a portfolio analytics system.
			Answer with exactly one intent from the allowed list, or UNKNOWN.
			Do not compute anything. Do not answer the question itself.
		`}}},
	}

	prompt := fmt.Sprintf("Allowed intents: %s.\nQuestion: %s", strings.Join(values, ", "), question)

	text, err := c.client.generate(ctx, prompt, config)
	if err != nil {
		return intent.Unknown, &portfolio.ExternalServiceError{Service: "classifier", Err: err}
	}

	// The response is contractually JSON; anything unparseable is UNKNOWN.
	var jobj any
	if err := json.Unmarshal([]byte(text), &jobj); err != nil {
		return intent.Unknown, nil
	}
	jval, err := jsonpath.Get("$.intent", jobj)
	if err != nil {
		return intent.Unknown, nil
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	name, ok := jval.(string)
	if !ok {
		return intent.Unknown, nil
	}
	kind := intent.Kind(name)
	for _, k := range allowed {
		if kind == k {
			return kind, nil
		}
	}
	return intent.Unknown, nil
}
