package agent

import (
	"context"
	"strings"

	"github.com/avianalytics/portfolio"
	"google.golang.org/genai"
)

// Narrator turns a fact sheet into short buy-side style commentary. The
// model receives only the sheet and hard constraints; the deterministic
// fallback lives in the explainer, not here.
type Narrator struct {
	client *Client
}

// NewNarrator returns the narrator over a shared backend client.
func NewNarrator(client *Client) *Narrator {
	return &Narrator{client: client}
}

var _ portfolio.Narrator = (*Narrator)(nil)

// Narrate produces the commentary. Failures surface as
// ExternalServiceError so the explainer can fall back to its template.
func (n *Narrator) Narrate(ctx context.Context, sheet portfolio.FactSheet) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a portfolio operations assistant.
			Write a concise buy side style commentary.
			Use only the facts given. Do not guess.
			Use only absolute numbers. Do not use percentages.
			Use short sentences.
		`}}},
	}

	prompt := "Facts:\n" + strings.Join(sheet.Lines(), "\n")

	text, err := n.client.generate(ctx, prompt, config)
	if err != nil {
		return "", &portfolio.ExternalServiceError{Service: "narrator", Err: err}
	}
	return strings.TrimSpace(text), nil
}
