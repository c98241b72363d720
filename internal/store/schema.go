package store

import (
	"database/sql"
	"fmt"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp_ms  INTEGER NOT NULL,
		provider      TEXT NOT NULL DEFAULT '',
		model         TEXT NOT NULL DEFAULT '',
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence     INTEGER NOT NULL UNIQUE,
		timestamp_ms INTEGER NOT NULL,
		session_id   TEXT NOT NULL DEFAULT '',
		item_id      TEXT NOT NULL,
		item_type    TEXT NOT NULL DEFAULT '',
		user_answer  TEXT NOT NULL DEFAULT '',
		graded       INTEGER NOT NULL DEFAULT 0,
		correct      INTEGER NOT NULL DEFAULT 0,
		skipped      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_item ON answer_events (item_id)`,
	`CREATE TABLE IF NOT EXISTS srs_records (
		item_id       TEXT PRIMARY KEY,
		interval_days INTEGER NOT NULL,
		ease_factor   REAL NOT NULL,
		next_review   TEXT NOT NULL,
		repetitions   INTEGER NOT NULL,
		updated_ms    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS srs_records_next ON srs_records (next_review)`,
	`CREATE TABLE IF NOT EXISTS quiz_items (
		item_id    TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		created_ms INTEGER NOT NULL
	)`,
}

// migrate creates any missing tables. Statements are idempotent.
func migrate(db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
