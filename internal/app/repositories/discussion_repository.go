package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
)

// DeletedUserName is shown in place of authors whose profile is gone
const DeletedUserName = "Deleted user"

var threadColumns = []string{
	"t.id", "t.author_id", "COALESCE(u.name, '" + DeletedUserName + "')", "t.title", "t.content",
	"t.category", "t.tags", "t.created_at",
	"COALESCE((SELECT array_agg(v.user_id::text ORDER BY v.created_at) FROM discussion_upvotes v WHERE v.thread_id = t.id), '{}')",
}

// DiscussionRepository handles discussion threads, upvotes and comments
type DiscussionRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(pg *db.PostgresDB) *DiscussionRepository {
	return &DiscussionRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanThread(row pgx.Row) (*models.DiscussionThread, error) {
	t := &models.DiscussionThread{Comments: []models.DiscussionComment{}}
	err := row.Scan(&t.ID, &t.AuthorID, &t.AuthorName, &t.Title, &t.Content,
		&t.Category, &t.Tags, &t.CreatedAt, &t.Upvotes)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func categoryWhere(category *models.DiscussionCategory) squirrel.Sqlizer {
	if category == nil {
		return squirrel.Expr("TRUE")
	}
	return squirrel.Eq{"t.category": *category}
}

// List returns a page of threads newest first, with comments attached, and
// the total number of matching threads.
func (r *DiscussionRepository) List(ctx context.Context, category *models.DiscussionCategory, limit, offset int) ([]*models.DiscussionThread, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("discussion_threads t").Where(categoryWhere(category)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build thread count query: %w", err)
	}
	var total int64
	if err := r.pg.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting threads: %w", err)
	}

	sql, args, err := r.sb.Select(threadColumns...).
		From("discussion_threads t").
		LeftJoin("users u ON u.id = t.author_id").
		Where(categoryWhere(category)).
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build thread query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying threads: %w", err)
	}
	defer rows.Close()

	var threads []*models.DiscussionThread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning thread: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating threads: %w", err)
	}

	if err := r.attachComments(ctx, threads); err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

func (r *DiscussionRepository) attachComments(ctx context.Context, threads []*models.DiscussionThread) error {
	if len(threads) == 0 {
		return nil
	}

	byID := make(map[string]*models.DiscussionThread, len(threads))
	ids := make([]string, 0, len(threads))
	for _, t := range threads {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	sql, args, err := r.sb.Select("c.id", "c.thread_id", "c.author_id", "COALESCE(u.name, '"+DeletedUserName+"')", "c.content", "c.created_at").
		From("discussion_comments c").
		LeftJoin("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.thread_id": ids}).
		OrderBy("c.created_at", "c.id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build comment query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.DiscussionComment
		if err := rows.Scan(&c.ID, &c.ThreadID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return fmt.Errorf("error scanning comment: %w", err)
		}
		if t, ok := byID[c.ThreadID]; ok {
			t.Comments = append(t.Comments, c)
		}
	}
	return rows.Err()
}

// GetByID retrieves a thread with upvotes and comments
func (r *DiscussionRepository) GetByID(ctx context.Context, id string) (*models.DiscussionThread, error) {
	sql, args, err := r.sb.Select(threadColumns...).
		From("discussion_threads t").
		LeftJoin("users u ON u.id = t.author_id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build thread query: %w", err)
	}

	t, err := scanThread(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, fmt.Errorf("error retrieving thread: %w", err)
	}

	if err := r.attachComments(ctx, []*models.DiscussionThread{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts t and fills in its id and creation time
func (r *DiscussionRepository) Create(ctx context.Context, t *models.DiscussionThread) error {
	if t.Tags == nil {
		t.Tags = []string{}
	}

	sql, args, err := r.sb.Insert("discussion_threads").
		Columns("author_id", "title", "content", "category", "tags").
		Values(t.AuthorID, t.Title, t.Content, t.Category, t.Tags).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert thread query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating thread: %w", err)
	}

	t.Upvotes = []string{}
	t.Comments = []models.DiscussionComment{}
	return nil
}

// lockThreadSQL serialises upvote toggles on one thread
const lockThreadSQL = `SELECT id FROM discussion_threads WHERE id = $1 FOR UPDATE`

// ToggleUpvote adds or removes userID's upvote and reports whether it is now present
func (r *DiscussionRepository) ToggleUpvote(ctx context.Context, threadID, userID string) (bool, error) {
	var added bool
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, lockThreadSQL, threadID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrThreadNotFound
			}
			return fmt.Errorf("error locking thread: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM discussion_upvotes WHERE thread_id = $1 AND user_id = $2`, threadID, userID)
		if err != nil {
			return fmt.Errorf("error removing upvote: %w", err)
		}
		if tag.RowsAffected() > 0 {
			added = false
			return nil
		}

		tag, err = tx.Exec(ctx, `
			INSERT INTO discussion_upvotes (thread_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (thread_id, user_id) DO NOTHING`,
			threadID, userID)
		if err != nil {
			return fmt.Errorf("error adding upvote: %w", err)
		}
		added = tag.RowsAffected() > 0
		return nil
	})
	return added, err
}

// AddComment appends c to its thread
func (r *DiscussionRepository) AddComment(ctx context.Context, c *models.DiscussionComment) error {
	err := r.pg.Pool.QueryRow(ctx, `
		INSERT INTO discussion_comments (thread_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.ThreadID, c.AuthorID, c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "discussion_comments_thread_id_fkey") {
			return apperrors.ErrThreadNotFound
		}
		if dberrors.IsForeignKeyViolation(err, "discussion_comments_author_id_fkey") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding comment: %w", err)
	}
	return nil
}

// Count returns the number of threads
func (r *DiscussionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM discussion_threads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting threads: %w", err)
	}
	return n, nil
}
