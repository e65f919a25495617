package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizforge/internal/store"
)

// NewProviders creates the ordered provider list from configuration.
// Each provider is wrapped with retry and logging middleware; the
// orchestrator tries them in order for every generation attempt.
func NewProviders(ctx context.Context, cfg Config, requestLog store.RequestLog) ([]Provider, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	out := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := newProvider(ctx, name, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", name, err)
		}

		// Wrap with middleware: caller → retry → logging → base
		if name != "mock" {
			p = WithRetry(WithLogging(p, requestLog), cfg.Retry)
		}
		out = append(out, p)
	}

	return out, nil
}

func newProvider(ctx context.Context, name string, cfg Config) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
}
