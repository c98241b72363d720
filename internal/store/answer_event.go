package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO answer_events (
		sequence, timestamp_ms, session_id, item_id, item_type, user_answer,
		graded, correct, skipped
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.ItemID, data.ItemType,
		data.UserAnswer, boolInt(data.Graded), boolInt(data.Correct), boolInt(data.Skipped),
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	q := `SELECT id, sequence, timestamp_ms, session_id, item_id, item_type,
		user_answer, graded, correct, skipped
		FROM answer_events WHERE sequence > ? ORDER BY sequence`
	args := []any{opts.After}
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e                        AnswerEvent
			tsMs                     int64
			graded, correct, skipped int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &tsMs, &e.SessionID, &e.ItemID, &e.ItemType,
			&e.UserAnswer, &graded, &correct, &skipped); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Timestamp = time.UnixMilli(tsMs).UTC()
		e.Graded, e.Correct, e.Skipped = graded == 1, correct == 1, skipped == 1
		out = append(out, e)
	}
	return out, rows.Err()
}
