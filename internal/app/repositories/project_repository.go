package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
)

// ProjectRepository handles the project showcase
type ProjectRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(pg *db.PostgresDB) *ProjectRepository {
	return &ProjectRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns featured projects first, then the rest newest first, with
// their team members in the order they were added.
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.pg.Pool.Query(ctx, `
		SELECT id, title, description, tech_stack, demo_link, repo_link, images, is_featured, created_at
		FROM projects
		ORDER BY is_featured DESC, created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p := &models.Project{TeamMembers: []models.ProjectMember{}}
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &p.DemoLink, &p.RepoLink,
			&p.Images, &p.IsFeatured, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	if err := r.attachMembers(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) attachMembers(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	byID := make(map[string]*models.Project, len(projects))
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	sql, args, err := r.sb.Select("pm.project_id", "u.id", "u.auth_subject", "u.name", "u.email").
		From("project_members pm").
		Join("users u ON u.id = pm.user_id").
		Where(squirrel.Eq{"pm.project_id": ids}).
		OrderBy("pm.project_id", "pm.position").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build project member query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying project members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var m models.ProjectMember
		if err := rows.Scan(&projectID, &m.ID, &m.AuthSubject, &m.Name, &m.Email); err != nil {
			return fmt.Errorf("error scanning project member: %w", err)
		}
		if p, ok := byID[projectID]; ok {
			p.TeamMembers = append(p.TeamMembers, m)
		}
	}
	return rows.Err()
}

// Create inserts p and its team in one transaction. Members are stored in
// the order of p.TeamMembers.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("projects").
			Columns("title", "description", "tech_stack", "demo_link", "repo_link", "images", "is_featured").
			Values(p.Title, p.Description, p.TechStack, p.DemoLink, p.RepoLink, p.Images, p.IsFeatured).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert project query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
			return fmt.Errorf("error creating project: %w", err)
		}

		for i, m := range p.TeamMembers {
			_, err := tx.Exec(ctx, `
				INSERT INTO project_members (project_id, user_id, position)
				VALUES ($1, $2, $3)`,
				p.ID, m.ID, i)
			if err != nil {
				if dberrors.IsForeignKeyViolation(err, "project_members_user_id_fkey") {
					return apperrors.ErrUserNotFound
				}
				return fmt.Errorf("error adding project member: %w", err)
			}
		}
		return nil
	})
}

// Count returns the number of projects
func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting projects: %w", err)
	}
	return n, nil
}
