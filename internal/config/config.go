package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Supported model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGoogleAI  = "googleai"
)

type Config struct {
	Port     string
	LogLevel string

	// Model provider
	LLMProvider      string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	GoogleAPIKey     string
	GoogleModel      string

	// Model calls
	LLMTimeout    time.Duration
	LLMMaxTokens  int
	LLMMaxRetries int
	LLMRateLimit  float64

	// Text extraction
	TextCacheSize        int
	BoilerplateLines     []string
	PDFFallbackPdftotext bool

	// Prompting
	ReportPeriod   string
	ReportSegments []string

	// Upload limits
	MaxUploadBytes int64
	ReadTimeout    time.Duration

	// Sessions
	SessionTTL    time.Duration
	SessionSecret string

	// HTTP
	CORSOrigins    []string
	ReportFilename string
}

// Load reads configuration from the environment, optionally layered over
// the YAML file named by FINREPORT_CONFIG. Keys in the file are the
// lower-case forms of the environment variable names.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8090")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm_provider", ProviderAnthropic)
	v.SetDefault("anthropic_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("google_model", "gemini-1.5-pro")
	v.SetDefault("llm_timeout", "120s")
	v.SetDefault("llm_max_tokens", 4096)
	v.SetDefault("llm_max_retries", 0)
	v.SetDefault("llm_rate_limit", 0)
	v.SetDefault("text_cache_size", 10)
	v.SetDefault("boilerplate_lines", "SAVITHRI")
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("report_period", "the quarter ended 31 Dec'24")
	v.SetDefault("report_segments", "Oil to Chemicals,Oil and Gas,Retail,Digital Services,Others")
	v.SetDefault("max_upload_bytes", 52428800) // 50MB
	v.SetDefault("read_timeout", "0s")
	v.SetDefault("session_ttl", "1h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("report_filename", "financial_report.csv")

	if path := os.Getenv("FINREPORT_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),

		LLMProvider:      strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),
		AnthropicAPIKey:  v.GetString("anthropic_api_key"),
		AnthropicModel:   v.GetString("anthropic_model"),
		AnthropicBaseURL: v.GetString("anthropic_base_url"),
		GoogleAPIKey:     v.GetString("google_api_key"),
		GoogleModel:      v.GetString("google_model"),

		LLMTimeout:    v.GetDuration("llm_timeout"),
		LLMMaxTokens:  v.GetInt("llm_max_tokens"),
		LLMMaxRetries: v.GetInt("llm_max_retries"),
		LLMRateLimit:  v.GetFloat64("llm_rate_limit"),

		TextCacheSize:        v.GetInt("text_cache_size"),
		BoilerplateLines:     splitList(v.GetString("boilerplate_lines")),
		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		ReportPeriod:   v.GetString("report_period"),
		ReportSegments: splitList(v.GetString("report_segments")),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		ReadTimeout:    v.GetDuration("read_timeout"),

		SessionTTL:    v.GetDuration("session_ttl"),
		SessionSecret: v.GetString("session_secret"),

		CORSOrigins:    splitList(v.GetString("cors_origins")),
		ReportFilename: v.GetString("report_filename"),
	}

	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.LLMMaxTokens <= 0 {
		cfg.LLMMaxTokens = 4096
	}
	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}
	if cfg.TextCacheSize <= 0 {
		cfg.TextCacheSize = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = UploadReadTimeout(cfg.MaxUploadBytes)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.ReportFilename == "" {
		cfg.ReportFilename = "financial_report.csv"
	}

	return cfg, nil
}

// minUploadRate is the slowest client upload rate, in bytes per second,
// that a full-size upload must still complete within the read timeout.
const minUploadRate = 256 << 10

// UploadReadTimeout is the default server read timeout for uploads of up
// to maxBytes: 30s of headroom plus the time to send maxBytes at 256 KiB/s.
func UploadReadTimeout(maxBytes int64) time.Duration {
	if maxBytes < 0 {
		maxBytes = 0
	}
	return 30*time.Second + time.Duration(maxBytes/minUploadRate)*time.Second
}

// MaxLLMRetries bounds LLM_MAX_RETRIES.
const MaxLLMRetries = 10

func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case ProviderGoogleAI:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderAnthropic, ProviderGoogleAI, c.LLMProvider)
	}
	if c.LLMMaxRetries > MaxLLMRetries {
		return fmt.Errorf("LLM_MAX_RETRIES must be at most %d, got %d", MaxLLMRetries, c.LLMMaxRetries)
	}
	if c.LLMRateLimit < 0 {
		return fmt.Errorf("LLM_RATE_LIMIT must not be negative")
	}
	return nil
}

// Model returns the model identifier of the selected provider.
func (c Config) Model() string {
	if c.LLMProvider == ProviderGoogleAI {
		return c.GoogleModel
	}
	return c.AnthropicModel
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
