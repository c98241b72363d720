package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/extract"
	"github.com/abhisek/medstud/internal/llm"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/store"
)

// addGenerationFlags registers the flags shared by every command that
// generates quizzes.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Model to generate with (default: the provider's model)")
	cmd.Flags().String("mode", "fast", "Generation mode: fast, quality or template")
	addCacheFlags(cmd)
}

func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address for a shared quiz cache (overrides MEDSTUD_REDIS_ADDR)")
	cmd.Flags().Duration("cache-ttl", 24*time.Hour, "Lifetime of Redis cache entries (0 keeps them)")
}

// addDocumentFlags registers the flags of commands that read a document.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("count", "n", 10, "Number of questions (1-20)")
	cmd.Flags().String("format", "", "Document format: text or markdown (default: from file extension)")
}

// readDocument extracts study text from path, or from stdin when path
// is "-".
func readDocument(cmd *cobra.Command, path string) (extract.Result, error) {
	format := extract.FormatFromPath(path)
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		parsed, err := extract.ParseFormat(f)
		if err != nil {
			return extract.Result{}, err
		}
		format = parsed
	}

	var src extract.Source
	if path == "-" {
		src = extract.FromReader(os.Stdin)
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return extract.Result{}, fmt.Errorf("read %s: %w", path, err)
		}
		src = extract.FromBytes(data)
	}

	doc, err := extract.Extract(src, format)
	if err != nil {
		return extract.Result{}, fmt.Errorf("extract %s: %w", path, err)
	}
	return doc, nil
}

// generationOptions reads the per-call knobs from flags.
func generationOptions(cmd *cobra.Command) (quizgen.Options, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := quizgen.ParseMode(modeFlag)
	if err != nil {
		return quizgen.Options{}, err
	}
	model, _ := cmd.Flags().GetString("model")
	count := 10
	if cmd.Flags().Lookup("count") != nil {
		count, _ = cmd.Flags().GetInt("count")
	}
	return quizgen.Options{Count: count, Model: model, Mode: mode}, nil
}

// buildGenerator wires the provider and cache. Without a usable provider
// the generator still works from templates.
func buildGenerator(ctx context.Context, cmd *cobra.Command, events store.EventRepo, logger *log.Logger) *quizgen.Generator {
	var provider llm.Provider
	p, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Questions will be built from templates.")
	} else {
		provider = p
	}

	var cache quizgen.Cache
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		addr = os.Getenv("MEDSTUD_REDIS_ADDR")
	}
	if addr != "" {
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		cache = quizgen.NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}), ttl, logger)
	}

	return quizgen.New(provider, cache, quizgen.DefaultConfig()).WithLogger(logger)
}
