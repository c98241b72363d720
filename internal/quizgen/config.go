package quizgen

import "time"

// ModelBudget is the context window and output cap sent with each request.
type ModelBudget struct {
	ContextSize int
	MaxTokens   int
}

// Config controls the behavior of the Generator.
type Config struct {
	// BatchSize is the number of snippets sent in one generation request.
	BatchSize int

	// MaxItems caps the number of items a caller may request.
	MaxItems int

	// MaxCandidates caps how many snippets are selected per run.
	// The selector keeps min(4n, MaxCandidates).
	MaxCandidates int

	// SelectSeed seeds the snippet shuffle. Fixed so the same document
	// selects the same snippets run after run.
	SelectSeed int64

	// TemplateSeed is added to the per-snippet seed of the template
	// fallback. Zero reproduces the default distractor order.
	TemplateSeed int64

	// RequestTimeout bounds each batch request.
	RequestTimeout time.Duration

	Temperature float64

	// Budgets holds the per-mode request sizing. Template mode never
	// calls the model and has no entry.
	Budgets map[Mode]ModelBudget

	// TemplatePoolSize and FallbackPoolSize limit the distractor pools
	// harvested for template mode and for per-batch fallback.
	TemplatePoolSize int
	FallbackPoolSize int
}

// DefaultConfig returns the tuned defaults for a small local model.
func DefaultConfig() Config {
	return Config{
		BatchSize:      5,
		MaxItems:       20,
		MaxCandidates:  40,
		SelectSeed:     42,
		TemplateSeed:   0,
		RequestTimeout: 18 * time.Second,
		Temperature:    0.2,
		Budgets: map[Mode]ModelBudget{
			ModeFast:    {ContextSize: 1024, MaxTokens: 220},
			ModeQuality: {ContextSize: 2048, MaxTokens: 350},
		},
		TemplatePoolSize: 120,
		FallbackPoolSize: 60,
	}
}
