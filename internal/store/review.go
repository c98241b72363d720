package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// reviewRepo implements ReviewRepo over the srs_records and quiz_items tables.
type reviewRepo struct {
	db *sql.DB
}

func (r *reviewRepo) SaveReview(ctx context.Context, rec ReviewRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO srs_records (
		item_id, interval_days, ease_factor, next_review, repetitions, updated_ms
	) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (item_id) DO UPDATE SET
		interval_days = excluded.interval_days,
		ease_factor   = excluded.ease_factor,
		next_review   = excluded.next_review,
		repetitions   = excluded.repetitions,
		updated_ms    = excluded.updated_ms`,
		rec.ItemID, rec.IntervalDays, rec.EaseFactor, rec.NextReview.Format(dateLayout),
		rec.Repetitions, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save review %s: %w", rec.ItemID, err)
	}
	return nil
}

func (r *reviewRepo) LoadReviews(ctx context.Context) ([]ReviewRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id, interval_days, ease_factor,
		next_review, repetitions FROM srs_records ORDER BY next_review, item_id`)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	var out []ReviewRecord
	for rows.Next() {
		var (
			rec  ReviewRecord
			next string
		)
		if err := rows.Scan(&rec.ItemID, &rec.IntervalDays, &rec.EaseFactor, &next, &rec.Repetitions); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rec.NextReview, err = time.ParseInLocation(dateLayout, next, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse next_review %q: %w", next, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *reviewRepo) SaveItem(ctx context.Context, id string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO quiz_items (item_id, payload, created_ms) VALUES (?, ?, ?)`,
		id, string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save item %s: %w", id, err)
	}
	return nil
}

func (r *reviewRepo) GetItems(ctx context.Context, ids []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT item_id, payload FROM quiz_items WHERE item_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[id] = []byte(payload)
	}
	return out, rows.Err()
}
