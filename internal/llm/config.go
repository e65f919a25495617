package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all provider configuration.
type Config struct {
	// Providers is the ordered list of backends to try for each
	// generation attempt. The first usable response wins.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Providers []string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single provider request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Providers: []string{"anthropic"},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("QUIZFORGE_LLM_PROVIDERS"); p != "" {
		cfg.Providers = splitProviders(p)
	}

	if k := os.Getenv("QUIZFORGE_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("QUIZFORGE_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("QUIZFORGE_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("QUIZFORGE_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("QUIZFORGE_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("QUIZFORGE_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("QUIZFORGE_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("QUIZFORGE_OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
	}
	if m := os.Getenv("QUIZFORGE_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if d := os.Getenv("QUIZFORGE_LLM_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = parsed
		}
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config listing
// every provider whose key is found, in that order. Returns
// (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Providers = nil

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Providers = append(cfg.Providers, "gemini")
		cfg.Gemini.APIKey = k
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Providers = append(cfg.Providers, "openai")
		cfg.OpenAI.APIKey = k
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Providers = append(cfg.Providers, "anthropic")
		cfg.Anthropic.APIKey = k
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Providers = append(cfg.Providers, "openrouter")
		cfg.OpenRouter.APIKey = k
	}

	if len(cfg.Providers) == 0 {
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that every selected provider has its required API key set.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}
	for _, p := range c.Providers {
		switch p {
		case "anthropic":
			if c.Anthropic.APIKey == "" {
				return fmt.Errorf("QUIZFORGE_ANTHROPIC_API_KEY is required for the anthropic provider")
			}
		case "openai":
			if c.OpenAI.APIKey == "" {
				return fmt.Errorf("QUIZFORGE_OPENAI_API_KEY is required for the openai provider")
			}
		case "gemini":
			if c.Gemini.APIKey == "" {
				return fmt.Errorf("QUIZFORGE_GEMINI_API_KEY is required for the gemini provider")
			}
		case "openrouter":
			if c.OpenRouter.APIKey == "" {
				return fmt.Errorf("QUIZFORGE_OPENROUTER_API_KEY is required for the openrouter provider")
			}
		case "mock":
			// No API key needed.
		default:
			return fmt.Errorf("unknown provider: %q", p)
		}
	}
	return nil
}

// splitProviders parses a comma-separated provider list, dropping blanks.
func splitProviders(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
