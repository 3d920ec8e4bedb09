// Package llmtest provides a mock model provider for tests.
package llmtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dgallion1/finreport/internal/llm"
)

// Provider is a testify mock implementing llm.Provider.
type Provider struct {
	mock.Mock
}

var _ llm.Provider = (*Provider)(nil)

func (p *Provider) Generate(ctx context.Context, prompt string) (*llm.Response, error) {
	args := p.Called(ctx, prompt)
	resp, _ := args.Get(0).(*llm.Response)
	return resp, args.Error(1)
}

func (p *Provider) Name() string  { return "mock" }
func (p *Provider) Model() string { return "mock-model" }

// Text builds a response holding one candidate with the given parts.
func Text(parts ...string) *llm.Response {
	return &llm.Response{Candidates: []llm.Candidate{{Parts: parts}}}
}

// Empty builds a response with no candidates.
func Empty() *llm.Response {
	return &llm.Response{}
}
