package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

const createIndexTable = `
	CREATE TABLE IF NOT EXISTS feedback_records (
		object_key     TEXT PRIMARY KEY,
		interaction_id TEXT NOT NULL,
		feedback       TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		app_identifier TEXT NOT NULL,
		submitted_at   TEXT NOT NULL,
		indexed_at     TIMESTAMPTZ NOT NULL,
		record         JSONB NOT NULL
	)
`

// IndexedRecord is one row of the feedback index
type IndexedRecord struct {
	ObjectKey     string
	InteractionID string
	Feedback      string
	UserID        string
	AppIdentifier string
	SubmittedAt   string
	IndexedAt     time.Time
}

// PostgresIndex keeps a queryable row per stored record next to the bucket
type PostgresIndex struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresIndex connects to databaseURL and makes sure the index table exists
func NewPostgresIndex(ctx context.Context, databaseURL string) (*PostgresIndex, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	idx := &PostgresIndex{db: db, now: time.Now}
	if err := idx.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// EnsureSchema creates the index table if needed
func (p *PostgresIndex) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createIndexTable); err != nil {
		return fmt.Errorf("failed to create feedback index table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (p *PostgresIndex) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Put indexes the record stored at key. Rows are never updated.
func (p *PostgresIndex) Put(ctx context.Context, key string, body []byte) error {
	var record types.FeedbackRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return fmt.Errorf("failed to decode feedback record for index: %w", err)
	}

	query := `
		INSERT INTO feedback_records (
			object_key, interaction_id, feedback, user_id,
			app_identifier, submitted_at, indexed_at, record
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (object_key) DO NOTHING
	`

	_, err := p.db.ExecContext(ctx, query,
		key,
		record.InteractionID,
		record.Feedback,
		record.UserID,
		record.AppIdentifier,
		record.SubmittedAt,
		p.now().UTC(),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to index feedback %s: %w", record.InteractionID, err)
	}

	return nil
}

// FindByInteraction returns the index rows for an interaction id, oldest first
func (p *PostgresIndex) FindByInteraction(ctx context.Context, interactionID string) ([]IndexedRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT object_key, interaction_id, feedback, user_id,
			app_identifier, submitted_at, indexed_at
		FROM feedback_records
		WHERE interaction_id = $1
		ORDER BY indexed_at
	`, interactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback index: %w", err)
	}
	defer rows.Close()

	var records []IndexedRecord
	for rows.Next() {
		var r IndexedRecord
		if err := rows.Scan(
			&r.ObjectKey,
			&r.InteractionID,
			&r.Feedback,
			&r.UserID,
			&r.AppIdentifier,
			&r.SubmittedAt,
			&r.IndexedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback index row: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
