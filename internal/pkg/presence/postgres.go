package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool used by PostgresTracker
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTracker stores presence in users.last_active and counts it with a
// scan over the indexed column.
type PostgresTracker struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewPostgresTracker creates a PostgresTracker
func NewPostgresTracker(db Querier) *PostgresTracker {
	return &PostgresTracker{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Touch implements Tracker. Unknown users are ignored.
func (t *PostgresTracker) Touch(ctx context.Context, userID string, at time.Time) error {
	sql, args, err := t.sb.Update("users").
		Set("last_active", at).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build touch query: %w", err)
	}

	if _, err := t.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to update last_active: %w", err)
	}
	return nil
}

// CountOnline implements Tracker
func (t *PostgresTracker) CountOnline(ctx context.Context, since time.Time) (int64, error) {
	sql, args, err := t.sb.Select("COUNT(*)").
		From("users").
		Where(squirrel.GtOrEq{"last_active": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build online count query: %w", err)
	}

	var n int64
	if err := t.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return n, nil
}
