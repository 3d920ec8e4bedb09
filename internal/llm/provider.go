// Package llm sends prompts to a generative model service and reduces its
// answers to plain text.
package llm

import "context"

// Provider is a single generative model endpoint.
type Provider interface {
	// Generate sends prompt once and returns every candidate the service
	// produced. A response with no candidates is not an error.
	Generate(ctx context.Context, prompt string) (*Response, error)
	Name() string
	Model() string
}

// Response holds the candidates returned for one prompt.
type Response struct {
	Candidates []Candidate
	StopReason string
}

// Candidate is one alternative answer, delivered as ordered text fragments.
type Candidate struct {
	Parts []string
}
