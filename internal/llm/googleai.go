package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAIConfig configures the Gemini provider.
type GoogleAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// GoogleAIProvider implements Provider on top of a langchaingo model.
// Each returned choice is one candidate.
type GoogleAIProvider struct {
	llm       llms.Model
	model     string
	maxTokens int
}

// NewGoogleAIProvider creates a Gemini-backed provider.
func NewGoogleAIProvider(ctx context.Context, cfg GoogleAIConfig) (*GoogleAIProvider, error) {
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "googleai: create client")
	}
	return NewModelProvider(m, cfg.Model, cfg.MaxTokens), nil
}

// NewModelProvider adapts any langchaingo model.
func NewModelProvider(m llms.Model, model string, maxTokens int) *GoogleAIProvider {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &GoogleAIProvider{llm: m, model: model, maxTokens: maxTokens}
}

func (p *GoogleAIProvider) Name() string  { return "googleai" }
func (p *GoogleAIProvider) Model() string { return p.model }

func (p *GoogleAIProvider) Generate(ctx context.Context, prompt string) (*Response, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	out, err := p.llm.GenerateContent(ctx, content,
		llms.WithModel(p.model),
		llms.WithMaxTokens(p.maxTokens),
	)
	if err != nil {
		return nil, eris.Wrap(err, "googleai: generate content")
	}

	resp := &Response{}
	if out == nil {
		return resp, nil
	}
	for _, choice := range out.Choices {
		if choice == nil {
			continue
		}
		resp.Candidates = append(resp.Candidates, Candidate{Parts: []string{choice.Content}})
		if resp.StopReason == "" {
			resp.StopReason = choice.StopReason
		}
	}
	return resp, nil
}
