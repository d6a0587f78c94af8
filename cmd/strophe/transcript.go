package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arlenmoss/strophe/kernel/convo"
)

const (
	transcriptDriver = "sqlite"
	transcriptDSNOpt = "?_pragma=busy_timeout(3000)&_pragma=journal_mode(WAL)"
)

// transcriptIndex persists one row per finished turn.
type transcriptIndex struct {
	db *sql.DB
}

type transcriptRecord struct {
	ID               string
	CreatedAt        time.Time
	Input            string
	Output           string
	Interrupted      bool
	PromptTokens     int
	CompletionTokens int
}

func newTranscriptIndex(path string) (*transcriptIndex, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("transcript: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("transcript: create dir: %w", err)
	}
	db, err := sql.Open(transcriptDriver, path+transcriptDSNOpt)
	if err != nil {
		return nil, fmt.Errorf("transcript: open db: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		interrupted INTEGER NOT NULL,
		prompt_tokens INTEGER NOT NULL,
		completion_tokens INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("transcript: create schema: %w", err)
	}
	return &transcriptIndex{db: db}, nil
}

func (t *transcriptIndex) Record(ctx context.Context, rec transcriptRecord) error {
	if t == nil || t.db == nil {
		return nil
	}
	if rec.ID == "" {
		rec.ID = convo.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO turns (id, created_at, input, output, interrupted, prompt_tokens, completion_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.Input, rec.Output, boolToInt(rec.Interrupted),
		rec.PromptTokens, rec.CompletionTokens,
	)
	if err != nil {
		return fmt.Errorf("transcript: record turn: %w", err)
	}
	return nil
}

func (t *transcriptIndex) Recent(ctx context.Context, limit int) ([]transcriptRecord, error) {
	if t == nil || t.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, created_at, input, output, interrupted, prompt_tokens, completion_tokens
		 FROM turns ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("transcript: list turns: %w", err)
	}
	defer rows.Close()
	var out []transcriptRecord
	for rows.Next() {
		var rec transcriptRecord
		var createdAt int64
		var interrupted int
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Input, &rec.Output, &interrupted,
			&rec.PromptTokens, &rec.CompletionTokens); err != nil {
			return nil, fmt.Errorf("transcript: scan turn: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		rec.Interrupted = interrupted != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t *transcriptIndex) Close() error {
	if t == nil || t.db == nil {
		return nil
	}
	return t.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
