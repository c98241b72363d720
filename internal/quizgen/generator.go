package quizgen

import (
	"context"
	"io"
	"log"

	"github.com/abhisek/medstud/internal/extract"
	"github.com/abhisek/medstud/internal/llm"
)

// Options are the per-call knobs of Generate.
type Options struct {
	// Count is the number of items wanted, clamped to [1, MaxItems].
	Count int

	// Model overrides the provider's model. Empty uses the provider default.
	Model string

	Mode Mode
}

// Generator turns extracted study text into quiz items. Model failures are
// absorbed batch by batch with template items, so Generate always returns
// a usable list for a document that has text.
type Generator struct {
	provider llm.Provider
	cache    Cache
	config   Config
	logger   *log.Logger
}

// New creates a Generator. provider may be nil, in which case every batch
// is built from templates. A nil cache gets a fresh MemoryCache.
func New(provider llm.Provider, cache Cache, cfg Config) *Generator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Generator{
		provider: provider,
		cache:    cache,
		config:   cfg,
		logger:   log.New(io.Discard, "", 0),
	}
}

// WithLogger sets the logger batch failures are reported to.
func (g *Generator) WithLogger(l *log.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Cache returns the cache the generator reads and fills.
func (g *Generator) Cache() Cache { return g.cache }

// WithCache returns a shallow copy of g that uses c.
func (g *Generator) WithCache(c Cache) *Generator {
	cp := *g
	cp.cache = c
	return &cp
}

// Generate produces at most opts.Count items from doc. An empty result
// means doc had no usable text.
func (g *Generator) Generate(ctx context.Context, doc extract.Result, opts Options) []Item {
	n := min(max(opts.Count, 1), g.config.MaxItems)
	mode := opts.Mode
	if mode == "" {
		mode = ModeFast
	}

	want := min(4*n, g.config.MaxCandidates)
	selected := Select(doc.Chunks, want, g.config.SelectSeed)
	if len(selected) == 0 {
		selected = selectRelaxed(doc.Chunks, want, g.config.SelectSeed)
	}
	if len(selected) == 0 {
		return []Item{}
	}

	model := opts.Model
	if model == "" && g.provider != nil {
		model = g.provider.ModelID()
	}
	key := Fingerprint(selected, model, n, mode)
	if cached, ok := g.cache.Get(ctx, key); ok {
		return truncate(cached, n)
	}

	var items []Item
	if mode == ModeTemplate || g.provider == nil {
		items = g.fromTemplates(selected, n)
	} else {
		items = g.fromModel(ctx, selected, n, opts.Model, mode)
	}

	g.cache.Put(ctx, key, items)
	return items
}

func (g *Generator) fromTemplates(selected []string, n int) []Item {
	pool := Keywords(selected, g.config.TemplatePoolSize)
	items := make([]Item, 0, n)
	for i, s := range selected {
		if len(items) >= n {
			break
		}
		it := TemplateItem(s, pool, g.config.TemplateSeed)
		it.SourceIdx = i
		items = append(items, it)
	}
	return items
}

func (g *Generator) fromModel(ctx context.Context, selected []string, n int, model string, mode Mode) []Item {
	size := max(g.config.BatchSize, 1)
	var items []Item
	for start := 0; start < len(selected) && len(items) < n; start += size {
		batch := selected[start:min(start+size, len(selected))]

		got := g.runBatch(ctx, batch, model, mode)
		if len(got) == 0 {
			got = []Item{TemplateItem(batch[0], Keywords(batch, g.config.FallbackPoolSize), g.config.TemplateSeed)}
		}
		items = append(items, got...)
	}
	return truncate(dedup(items), n)
}

// runBatch asks the model for one question per snippet. Any failure is
// logged and reported as no items.
func (g *Generator) runBatch(ctx context.Context, batch []string, model string, mode Mode) []Item {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizBatch)
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	budget := g.config.Budgets[mode]
	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(batch)},
		},
		Model:         model,
		Schema:        QuestionsSchema,
		LenientSchema: true,
		MaxTokens:     budget.MaxTokens,
		Temperature:   g.config.Temperature,
		ContextSize:   budget.ContextSize,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		g.logger.Printf("quiz batch of %d: %v", len(batch), err)
		return nil
	}

	items, err := Normalize(ParseResponse(string(resp.Content)), len(batch))
	if err != nil {
		g.logger.Printf("quiz batch of %d: %v", len(batch), err)
		return nil
	}
	return items
}

// dedup keeps the first item for each normalized prompt.
func dedup(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := NormalizePrompt(it.Prompt)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func truncate(items []Item, n int) []Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}
