package wisdom

import "fmt"

// Config selects and configures the active generation provider.
type Config struct {
	Provider         string // "anthropic" or "gemini"
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
}

// New builds the configured Generator.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "", anthropicProviderName:
		return NewAnthropic(AnthropicOptions{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicBaseURL,
		})
	case geminiProviderName:
		return NewGemini(GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	}
	return nil, fmt.Errorf("unsupported wisdom provider %q", cfg.Provider)
}
