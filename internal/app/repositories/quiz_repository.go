package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
)

// QuizRepository handles practice quizzes
type QuizRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewQuizRepository creates a new QuizRepository
func NewQuizRepository(pg *db.PostgresDB) *QuizRepository {
	return &QuizRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns all quizzes, newest first
func (r *QuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT id, title, description, questions, created_by, created_at
		FROM quizzes
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []*models.Quiz{}
	for rows.Next() {
		q := &models.Quiz{}
		var questions []byte
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &questions, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning quiz: %w", err)
		}
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, fmt.Errorf("error decoding quiz %s questions: %w", q.ID, err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// Create inserts q and fills in its id and creation time
func (r *QuizRepository) Create(ctx context.Context, q *models.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("error encoding quiz questions: %w", err)
	}

	sql, args, err := r.sb.Insert("quizzes").
		Columns("title", "description", "questions", "created_by").
		Values(q.Title, q.Description, questions, q.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert quiz query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&q.ID, &q.CreatedAt); err != nil {
		return fmt.Errorf("error creating quiz: %w", err)
	}
	return nil
}
