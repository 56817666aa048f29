package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/config"
	"github.com/lexziconAI/eco-dairy-bot/internal/db"
	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
	"github.com/lexziconAI/eco-dairy-bot/internal/llm"
	"github.com/lexziconAI/eco-dairy-bot/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ecodairy init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger from config; --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.Log.Development)
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings. It returns nil when the provider is "none".
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	if cfg.Offline() {
		return nil, nil
	}
	return llm.NewProvider(llm.Settings{
		Provider:     string(cfg.Provider),
		Model:        cfg.Model,
		BaseURL:      cfg.BaseURL,
		RateLimitRPM: cfg.RateLimitRPM,
	})
}

// newEngine wires the lens engine. database may be nil.
func newEngine(cfg *config.Config, database *db.DB, provider llm.Provider, logger *zap.Logger) *lens.Engine {
	var store *lens.Store
	if database != nil {
		store = lens.NewStore(database)
	}
	return lens.NewEngine(store, provider, cfg.Model,
		lens.WithLogger(logger),
		lens.WithGeneration(cfg.MaxTokens, cfg.Temperature),
	)
}
