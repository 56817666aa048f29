package llm

import (
	"fmt"
	"os"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider     string // "openai", "openrouter" or "ollama"
	Model        string
	BaseURL      string // overrides the provider's default endpoint
	RateLimitRPM int    // 0 disables rate limiting
}

// Environment variables holding provider credentials and hosts.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvOllamaHost    = "OLLAMA_HOST"
)

// NewProvider creates the provider named in s, reading API keys from the
// environment, and wraps it in a rate limiter when s.RateLimitRPM > 0.
func NewProvider(s Settings) (Provider, error) {
	var p Provider
	switch s.Provider {
	case "openai":
		apiKey := os.Getenv(EnvOpenAIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is not set", EnvOpenAIKey)
		}
		if s.BaseURL != "" {
			p = NewOpenAICompatibleProvider("openai", apiKey, s.BaseURL, s.Model)
		} else {
			p = NewOpenAIProvider(apiKey, s.Model)
		}

	case "openrouter":
		apiKey := os.Getenv(EnvOpenRouterKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is not set", EnvOpenRouterKey)
		}
		p = NewOpenRouterProvider(apiKey, s.Model)

	case "ollama":
		host := s.BaseURL
		if host == "" {
			host = os.Getenv(EnvOllamaHost)
		}
		p = NewOllamaProvider(host, s.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %q", s.Provider)
	}

	if s.RateLimitRPM > 0 {
		p = NewRateLimitedProvider(p, s.RateLimitRPM)
	}
	return p, nil
}
