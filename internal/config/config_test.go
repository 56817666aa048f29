package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %q", cfg.Model)
	}
	if cfg.Database != DefaultDatabase {
		t.Errorf("expected default database %q, got %q", DefaultDatabase, cfg.Database)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("expected default max_tokens 2048, got %d", cfg.MaxTokens)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "test.ecodairy.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenRouter
	original.Model = "anthropic/claude-3.5-sonnet"
	original.RateLimitRPM = 30
	original.Temperature = 0.3
	original.Server.Port = 9090
	original.Server.CORSOrigins = []string{"http://localhost:3000", "https://dairy.example"}
	original.Log.Level = "debug"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.RateLimitRPM != 30 {
		t.Errorf("rate_limit_rpm: got %d, want 30", loaded.RateLimitRPM)
	}
	if loaded.Temperature != 0.3 {
		t.Errorf("temperature: got %f, want 0.3", loaded.Temperature)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Server.Host != "localhost" {
		t.Errorf("server.host: got %q, want localhost", loaded.Server.Host)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("log.level: got %q, want debug", loaded.Log.Level)
	}
	if len(loaded.Server.CORSOrigins) != 2 || loaded.Server.CORSOrigins[1] != "https://dairy.example" {
		t.Errorf("cors_origins: got %v", loaded.Server.CORSOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ECODAIRY_PROVIDER", "ollama")
	t.Setenv("ECODAIRY_SERVER__PORT", "7070")
	t.Setenv("ECODAIRY_LOG__LEVEL", "warn")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOllama)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("nested env override failed: got %d, want 7070", loaded.Server.Port)
	}
	if loaded.Log.Level != "warn" {
		t.Errorf("nested env override failed: got %q, want warn", loaded.Log.Level)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ECODAIRY_PROVIDER":         "provider",
		"ECODAIRY_RATE_LIMIT_RPM":   "rate_limit_rpm",
		"ECODAIRY_SERVER__PORT":     "server.port",
		"ECODAIRY_LOG__DEVELOPMENT": "log.development",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"invalid provider", func(c *Config) { c.Provider = "anthropic" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimitRPM = -1 }},
		{"empty database", func(c *Config) { c.Database = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"negative concurrency", func(c *Config) { c.Analyze.MaxConcurrency = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateNoneProviderNeedsNoModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderNone
	cfg.Model = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("offline config should be valid, got: %v", err)
	}
	if !cfg.Offline() {
		t.Error("expected Offline() for provider none")
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
		{ProviderNone, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	if got := DefaultModel(ProviderOllama); got != "llama3" {
		t.Errorf("DefaultModel(ollama) = %q, want llama3", got)
	}
	if got := DefaultModel("unknown"); got != "" {
		t.Errorf("DefaultModel(unknown) = %q, want empty", got)
	}
}

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"1", "8080", "65535"} {
		if err := validatePort(ok); err != nil {
			t.Errorf("validatePort(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "abc", "70000"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) should fail", bad)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"*", []string{"*"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
