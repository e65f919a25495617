package llm

import "context"

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context. The logging
// decorator records it with each provider request event, so stored
// events can be grouped by what the call was for.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label, defaulting to "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
