package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/store"
)

// SaveItems stores items under their IDs so scheduled reviews can show
// them later.
func SaveItems(ctx context.Context, repo store.ReviewRepo, items []quizgen.Item) error {
	for _, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		if err := repo.SaveItem(ctx, it.ID(), payload); err != nil {
			return fmt.Errorf("save item %s: %w", it.ID(), err)
		}
	}
	return nil
}

// LoadItems returns the stored items for ids. Unknown ids are absent from
// the result.
func LoadItems(ctx context.Context, repo store.ReviewRepo, ids []string) (map[string]quizgen.Item, error) {
	payloads, err := repo.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	out := make(map[string]quizgen.Item, len(payloads))
	for id, p := range payloads {
		var it quizgen.Item
		if err := json.Unmarshal(p, &it); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", id, err)
		}
		out[id] = it
	}
	return out, nil
}
