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

var skillColumns = []string{
	"s.id", "s.user_id", "COALESCE(u.name, '" + DeletedUserName + "')", "COALESCE(u.email, '')", "u.branch", "u.year",
	"s.type", "s.title", "s.description", "s.tags", "s.category", "s.status", "s.created_at",
}

// SkillRepository handles the skills marketplace
type SkillRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(pg *db.PostgresDB) *SkillRepository {
	return &SkillRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSkill(row pgx.Row) (*models.SkillListing, error) {
	s := &models.SkillListing{}
	err := row.Scan(&s.ID, &s.UserID, &s.Owner.Name, &s.Owner.Email, &s.Owner.Branch, &s.Owner.Year,
		&s.Type, &s.Title, &s.Description, &s.Tags, &s.Category, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Owner.ID = s.UserID
	return s, nil
}

func skillWhere(f models.SkillFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"s.status": models.ListingOpen}}
	if f.Type != "" {
		where = append(where, squirrel.Eq{"s.type": f.Type})
	}
	if f.Category != "" {
		where = append(where, squirrel.Eq{"s.category": f.Category})
	}
	if f.Search != "" {
		where = append(where, anyILike(likePattern(f.Search), "s.title", "s.description", "array_to_string(s.tags, ' ')"))
	}
	return where
}

func (r *SkillRepository) selectSkills() squirrel.SelectBuilder {
	return r.sb.Select(skillColumns...).
		From("skill_listings s").
		LeftJoin("users u ON u.id = s.user_id")
}

// List returns open listings matching f, newest first
func (r *SkillRepository) List(ctx context.Context, f models.SkillFilter) ([]*models.SkillListing, error) {
	sql, args, err := r.selectSkills().Where(skillWhere(f)).OrderBy("s.created_at DESC", "s.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build skill query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying skills: %w", err)
	}
	defer rows.Close()

	skills := []*models.SkillListing{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// GetByID retrieves a listing whatever its status
func (r *SkillRepository) GetByID(ctx context.Context, id string) (*models.SkillListing, error) {
	sql, args, err := r.selectSkills().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build skill query: %w", err)
	}

	s, err := scanSkill(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSkillNotFound
		}
		return nil, fmt.Errorf("error retrieving skill: %w", err)
	}
	return s, nil
}

// Create inserts s and fills in its id, status and creation time
func (r *SkillRepository) Create(ctx context.Context, s *models.SkillListing) error {
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Status == "" {
		s.Status = models.ListingOpen
	}

	sql, args, err := r.sb.Insert("skill_listings").
		Columns("user_id", "type", "title", "description", "tags", "category", "status").
		Values(s.UserID, s.Type, s.Title, s.Description, s.Tags, s.Category, s.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert skill query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating skill: %w", err)
	}
	return nil
}

// updateQuery builds the UPDATE for the fields set in upd. It returns false
// when there is nothing to change.
func (r *SkillRepository) updateQuery(id string, upd models.SkillUpdate) (squirrel.UpdateBuilder, bool) {
	set := map[string]interface{}{}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	return r.sb.Update("skill_listings").SetMap(set).Where(squirrel.Eq{"id": id}), len(set) > 0
}

// Update applies upd to the listing
func (r *SkillRepository) Update(ctx context.Context, id string, upd models.SkillUpdate) error {
	q, ok := r.updateQuery(id, upd)
	if !ok {
		return nil
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update skill query: %w", err)
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSkillNotFound
	}
	return nil
}

// Delete removes the listing
func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pg.Pool.Exec(ctx, `DELETE FROM skill_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSkillNotFound
	}
	return nil
}
