package config

// defaultModels is the model each provider starts with.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderOllama:     "llama3",
	ProviderNone:       "template",
}

// DefaultDatabase is where conversations are stored unless configured otherwise.
const DefaultDatabase = ".ecodairy/ecodairy.db"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenAI,
		Model:        defaultModels[ProviderOpenAI],
		RateLimitRPM: 0,
		Temperature:  0.7,
		MaxTokens:    2048,
		Database:     DefaultDatabase,
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Analyze: AnalyzeConfig{
			MaxConcurrency: 4,
		},
	}
}

// DefaultModel returns the starting model for a provider, or "" when the
// provider is unknown.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}
