package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal/internal/domain/repositories"
)

// PostgresSessionStore implements SessionStore on a key-value table.
// Every row of a session shares one updated_at, so a session lapses as a whole
// ttl after its last write.
type PostgresSessionStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionStore creates a new PostgresSessionStore. ttl <= 0 keeps sessions
// until they are cleared.
func NewSessionStore(config *RepositoryConfig, ttl time.Duration) *PostgresSessionStore {
	return &PostgresSessionStore{
		pool:   config.Pool,
		tables: config.Tables,
		ttl:    ttl,
		logger: config.Logger,
	}
}

var (
	_ repositories.SessionStore   = (*PostgresSessionStore)(nil)
	_ repositories.SessionSweeper = (*PostgresSessionStore)(nil)
)

// Get retrieves one value of a live session
func (r *PostgresSessionStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	query := fmt.Sprintf(`
		SELECT value
		FROM %s
		WHERE session_id = $1 AND key = $2
		  AND ($3::float8 <= 0 OR updated_at > now() - make_interval(secs => $3::float8))
	`, r.tables.Sessions)

	var value string
	err := r.pool.QueryRow(ctx, query, sessionID, key, r.ttl.Seconds()).Scan(&value)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session key %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts one value and refreshes the session. Writing to a lapsed session
// starts it over empty.
func (r *PostgresSessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("rollback failed", "error", err)
		}
	}()

	if r.ttl > 0 {
		purge := fmt.Sprintf(`
			DELETE FROM %s
			WHERE session_id = $1 AND updated_at <= now() - make_interval(secs => $2::float8)
		`, r.tables.Sessions)
		if _, err := tx.Exec(ctx, purge, sessionID, r.ttl.Seconds()); err != nil {
			return fmt.Errorf("set session key %s: %w", key, err)
		}
	}

	upsert := fmt.Sprintf(`
		INSERT INTO %s (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, r.tables.Sessions)
	if _, err := tx.Exec(ctx, upsert, sessionID, key, value); err != nil {
		return fmt.Errorf("set session key %s: %w", key, err)
	}

	touch := fmt.Sprintf(`UPDATE %s SET updated_at = now() WHERE session_id = $1`, r.tables.Sessions)
	if _, err := tx.Exec(ctx, touch, sessionID); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Clear deletes every key of a session
func (r *PostgresSessionStore) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, r.tables.Sessions)

	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return nil
		}
		return fmt.Errorf("clear session: %w", err)
	}

	r.logger.Debug("session cleared", "keys_removed", tag.RowsAffected())
	return nil
}

// DeleteExpired removes the rows of every lapsed session
func (r *PostgresSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE updated_at <= now() - make_interval(secs => $1::float8)
	`, r.tables.Sessions)

	tag, err := r.pool.Exec(ctx, query, r.ttl.Seconds())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
