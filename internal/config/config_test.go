package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FINREPORT_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("expected provider anthropic, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 120*time.Second {
		t.Errorf("expected timeout 120s, got %v", cfg.LLMTimeout)
	}
	if cfg.LLMMaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.LLMMaxRetries)
	}
	if cfg.TextCacheSize != 10 {
		t.Errorf("expected cache size 10, got %d", cfg.TextCacheSize)
	}
	if len(cfg.BoilerplateLines) != 1 || cfg.BoilerplateLines[0] != "SAVITHRI" {
		t.Errorf("unexpected boilerplate lines %v", cfg.BoilerplateLines)
	}
	if len(cfg.ReportSegments) != 5 {
		t.Errorf("expected 5 default segments, got %v", cfg.ReportSegments)
	}
	if cfg.ReportFilename != "financial_report.csv" {
		t.Errorf("unexpected report filename %q", cfg.ReportFilename)
	}
	if cfg.ReadTimeout != 230*time.Second {
		t.Errorf("expected read timeout 230s for a 50MB limit, got %v", cfg.ReadTimeout)
	}
}

func TestLoad_ReadTimeout(t *testing.T) {
	t.Setenv("FINREPORT_CONFIG", "")
	t.Setenv("READ_TIMEOUT", "45s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReadTimeout != 45*time.Second {
		t.Errorf("expected read timeout 45s, got %v", cfg.ReadTimeout)
	}

	t.Setenv("READ_TIMEOUT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReadTimeout != 34*time.Second {
		t.Errorf("expected read timeout derived from 1MB limit, got %v", cfg.ReadTimeout)
	}
}

func TestUploadReadTimeout(t *testing.T) {
	tests := []struct {
		maxBytes int64
		want     time.Duration
	}{
		{0, 30 * time.Second},
		{-1, 30 * time.Second},
		{256 << 10, 31 * time.Second},
		{52428800, 230 * time.Second},
	}
	for _, tt := range tests {
		if got := UploadReadTimeout(tt.maxBytes); got != tt.want {
			t.Errorf("UploadReadTimeout(%d) = %v, want %v", tt.maxBytes, got, tt.want)
		}
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FINREPORT_CONFIG", "")
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "GoogleAI")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("LLM_MAX_RETRIES", "2")
	t.Setenv("LLM_RATE_LIMIT", "0.5")
	t.Setenv("BOILERPLATE_LINES", "CONFIDENTIAL, DRAFT ,")
	t.Setenv("TEXT_CACHE_SIZE", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.LLMProvider != ProviderGoogleAI {
		t.Errorf("expected provider googleai, got %q", cfg.LLMProvider)
	}
	if cfg.Model() != "gemini-1.5-pro" {
		t.Errorf("expected default google model, got %q", cfg.Model())
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.LLMTimeout)
	}
	if cfg.LLMMaxRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.LLMMaxRetries)
	}
	if cfg.LLMRateLimit != 0.5 {
		t.Errorf("expected rate limit 0.5, got %v", cfg.LLMRateLimit)
	}
	if len(cfg.BoilerplateLines) != 2 || cfg.BoilerplateLines[1] != "DRAFT" {
		t.Errorf("unexpected boilerplate lines %v", cfg.BoilerplateLines)
	}
	if cfg.TextCacheSize != 10 {
		t.Errorf("expected invalid cache size to fall back to 10, got %d", cfg.TextCacheSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finreport.yaml")
	content := "port: \"7000\"\nanthropic_model: claude-test\nsession_ttl: 10m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FINREPORT_CONFIG", path)
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("expected port from file, got %q", cfg.Port)
	}
	if cfg.AnthropicModel != "claude-test" {
		t.Errorf("expected model from file, got %q", cfg.AnthropicModel)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Errorf("expected session ttl 10m, got %v", cfg.SessionTTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("FINREPORT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic ok", Config{LLMProvider: ProviderAnthropic, AnthropicAPIKey: "k"}, false},
		{"anthropic missing key", Config{LLMProvider: ProviderAnthropic}, true},
		{"google ok", Config{LLMProvider: ProviderGoogleAI, GoogleAPIKey: "k"}, false},
		{"google missing key", Config{LLMProvider: ProviderGoogleAI, AnthropicAPIKey: "k"}, true},
		{"unknown provider", Config{LLMProvider: "openai", AnthropicAPIKey: "k"}, true},
		{"retries at cap", Config{LLMProvider: ProviderAnthropic, AnthropicAPIKey: "k", LLMMaxRetries: MaxLLMRetries}, false},
		{"retries above cap", Config{LLMProvider: ProviderAnthropic, AnthropicAPIKey: "k", LLMMaxRetries: 35}, true},
		{"negative rate", Config{LLMProvider: ProviderAnthropic, AnthropicAPIKey: "k", LLMRateLimit: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
