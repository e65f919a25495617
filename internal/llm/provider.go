package llm

import "context"

// Provider is the core abstraction for generative backend interaction.
// The orchestrator calls Generate with a rendered prompt and receives the
// model's raw text output. Structure is imposed downstream by the response
// parser, not here: providers that honor the Schema hint return clean JSON,
// providers that don't return near-JSON text that the parser repairs.
type Provider interface {
	// Generate sends a prompt to the backend and returns its raw output.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the backend.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history. Question generation is
	// single-turn, so this usually contains one user message.
	Messages []Message

	// Schema is an optional structured-output hint. Providers with a
	// native JSON mode use it; others ignore it and the response parser
	// copes with whatever comes back.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema describes the JSON structure requested from the backend.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI,
	// tool/format name for Anthropic). Kebab-case, e.g. "exam-question".
	Name string

	// Description is a human-readable description sent to the model.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the backend's output.
type Response struct {
	// Content is the raw text returned by the model. May be strict JSON,
	// near-JSON, or prose; the caller decides what to do with it.
	Content string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
