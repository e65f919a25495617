package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider targets OpenRouter's OpenAI-compatible API, reusing
// the OpenAI provider's request/response handling with OpenRouter's base
// URL and attribution headers.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// openRouterTransport adds the attribution headers OpenRouter uses for
// app ranking and abuse contact.
type openRouterTransport struct {
	base http.RoundTripper
}

func (t *openRouterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("HTTP-Referer", "https://github.com/abhisek/quizforge")
	r.Header.Set("X-Title", "quizforge")
	return t.base.RoundTrip(r)
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = &http.Client{
		Transport: &openRouterTransport{base: http.DefaultTransport},
	}

	inner := &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		// OpenRouter model names are already fully qualified
		// (vendor/model); no friendly-name mapping applies.
		model: cfg.Model,
	}

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
