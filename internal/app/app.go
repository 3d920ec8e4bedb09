// Package app assembles the dashboard service from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/finreport/internal/config"
	"github.com/dgallion1/finreport/internal/dashboard"
	"github.com/dgallion1/finreport/internal/llm"
	"github.com/dgallion1/finreport/internal/prompt"
	"github.com/dgallion1/finreport/internal/textextract"
)

// NewLogger returns a JSON logger on stdout at the configured level.
func NewLogger(level string) *slog.Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo returns a JSON logger writing to w. Unknown levels mean info.
func NewLoggerTo(w io.Writer, level string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv}))
}

// NewProvider builds the configured model provider.
func NewProvider(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicProvider(llm.AnthropicConfig{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.AnthropicModel,
			MaxTokens: int64(cfg.LLMMaxTokens),
			BaseURL:   cfg.AnthropicBaseURL,
		}), nil
	case config.ProviderGoogleAI:
		return llm.NewGoogleAIProvider(ctx, llm.GoogleAIConfig{
			APIKey:    cfg.GoogleAPIKey,
			Model:     cfg.GoogleModel,
			MaxTokens: cfg.LLMMaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// NewService wires extractor, model client and prompt builder.
func NewService(ctx context.Context, cfg config.Config, log *slog.Logger) (*dashboard.Service, error) {
	extractor, err := textextract.New(textextract.Options{
		CacheSize:            cfg.TextCacheSize,
		Boilerplate:          cfg.BoilerplateLines,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, log)
	if err != nil {
		return nil, err
	}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := llm.NewClient(provider, llm.Options{
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
		RateLimit:  cfg.LLMRateLimit,
	}, log)

	prompts := prompt.Builder{Period: cfg.ReportPeriod, Segments: cfg.ReportSegments}
	log.Info("model configured",
		"provider", provider.Name(),
		"model", provider.Model(),
		"timeout", cfg.LLMTimeout,
		"max_retries", cfg.LLMMaxRetries,
	)
	return dashboard.NewService(extractor, client, prompts, log), nil
}
