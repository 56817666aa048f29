package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
	// ProviderNone runs the lens pipeline without an LLM. Replies come from
	// the template generator.
	ProviderNone ProviderType = "none"
)

// Config is the top-level ecodairy configuration, corresponding to .ecodairy.yml.
type Config struct {
	Provider     ProviderType  `yaml:"provider" koanf:"provider"`
	Model        string        `yaml:"model" koanf:"model"`
	BaseURL      string        `yaml:"base_url,omitempty" koanf:"base_url"`
	RateLimitRPM int           `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Temperature  float64       `yaml:"temperature" koanf:"temperature"`
	MaxTokens    int           `yaml:"max_tokens" koanf:"max_tokens"`
	Database     string        `yaml:"database" koanf:"database"`
	Server       ServerConfig  `yaml:"server" koanf:"server"`
	Log          LogConfig     `yaml:"log" koanf:"log"`
	Analyze      AnalyzeConfig `yaml:"analyze" koanf:"analyze"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host" koanf:"host"`
	Port        int      `yaml:"port" koanf:"port"`
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level"`
	Development bool   `yaml:"development" koanf:"development"`
}

// AnalyzeConfig holds settings for batch conversation replays.
type AnalyzeConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`
}
