// internal/audit/postgres.go
package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateTableSQL is the DDL for the events table, applied by EnsureSchema.
const CreateTableSQL = `
CREATE TABLE IF NOT EXISTS registration_events (
	id          UUID PRIMARY KEY,
	event_type  TEXT NOT NULL,
	activity    TEXT NOT NULL,
	email       TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

// PostgresSink appends events to the registration_events table.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the events table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, CreateTableSQL); err != nil {
		return fmt.Errorf("create registration_events: %w", err)
	}
	return nil
}

func (s *PostgresSink) Record(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registration_events (id, event_type, activity, email, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID,
		string(event.Type),
		event.Activity,
		event.Email,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration event: %w", err)
	}
	return nil
}
