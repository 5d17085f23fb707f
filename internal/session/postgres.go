package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExporter is the durable export tier referenced in spec §6
// ("Persisted state layout (abstract): one record per session keyed by id;
// payload is the Session object serialized as a versioned structured
// document"). It is optional: a deployment with no DATABASE_URL configured
// runs single-node, in-memory-only, matching the teacher's
// memory-store-by-default posture.
//
// Grounded on internal/persistence/databases/chat_store_postgres.go's
// pgxpool-based inline-DDL construction, adapted from a relational
// session/message schema to a single versioned-document column (the whole
// Session, including its history and elements, serializes as one JSON
// payload rather than normalized rows) since nothing reads this table with
// SQL — it exists purely as a durable snapshot for failover/export.
type PostgresExporter struct {
	pool *pgxpool.Pool
}

// NewPostgresExporter wraps an existing pool and ensures the sessions table
// exists.
func NewPostgresExporter(ctx context.Context, pool *pgxpool.Pool) (*PostgresExporter, error) {
	e := &PostgresExporter{pool: pool}
	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS story_sessions (
    id TEXT PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 1,
    payload JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`); err != nil {
		return nil, fmt.Errorf("session: ensure story_sessions table: %w", err)
	}
	return e, nil
}

// sessionDocVersion is bumped whenever the Session struct's serialized shape
// changes in a way that would break an older reader.
const sessionDocVersion = 1

// Export upserts the session's current snapshot, conditioned on updated_at
// so an out-of-order export (from a retried or delayed call) never
// overwrites a newer row (spec §6: "Store MUST support conditional update
// by id (compare-and-swap on updated_at or equivalent)").
func (e *PostgresExporter) Export(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal snapshot: %w", err)
	}
	_, err = e.pool.Exec(ctx, `
INSERT INTO story_sessions (id, version, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET version = EXCLUDED.version, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
WHERE story_sessions.updated_at <= EXCLUDED.updated_at
`, s.ID, sessionDocVersion, payload, s.UpdatedAt)
	return err
}

// Load fetches a previously exported snapshot by id (the re-import half of
// the spec §8 round-trip law). The Store never calls it: sessions are not
// reloaded from Postgres after a restart.
func (e *PostgresExporter) Load(ctx context.Context, id string) (Session, error) {
	var payload []byte
	err := e.pool.QueryRow(ctx, `SELECT payload FROM story_sessions WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, fmt.Errorf("session: unmarshal snapshot: %w", err)
	}
	return s, nil
}
