package llm

import "context"

// PurposeQuizBatch labels the per-batch question generation calls.
const PurposeQuizBatch = "quiz-batch"

type purposeKey struct{}

// WithPurpose labels the LLM requests made with ctx so the event log can
// break usage down by what each call was for.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
