package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ecodairy! Let's configure the lens service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{
			"openai     - OpenAI chat completions",
			"openrouter - OpenRouter model catalogue",
			"ollama     - local models",
			"none       - template replies only",
		},
	}
	idx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []ProviderType{ProviderOpenAI, ProviderOpenRouter, ProviderOllama, ProviderNone}
	cfg.Provider = providers[idx]
	cfg.Model = DefaultModel(cfg.Provider)

	// 2. Model.
	if cfg.Provider != ProviderNone {
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: cfg.Model,
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		cfg.Model = strings.TrimSpace(model)
	}

	// 3. Database location.
	dbPrompt := promptui.Prompt{
		Label:   "Conversation database path",
		Default: cfg.Database,
	}
	database, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	cfg.Database = database

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Allowed origins.
	corsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated)",
		Default: strings.Join(cfg.Server.CORSOrigins, ","),
	}
	corsStr, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors origins: %w", err)
	}
	cfg.Server.CORSOrigins = splitAndTrim(corsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running ecodairy serve.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
