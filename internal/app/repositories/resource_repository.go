package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
)

var resourceColumns = []string{
	"r.id", "r.uploader_id", "COALESCE(u.name, '" + DeletedUserName + "')", "r.title", "r.description",
	"r.type", "r.course_code", "r.branch", "r.semester", "r.file_url", "r.link_url", "r.downloads", "r.created_at",
}

// ResourceRepository handles shared study material
type ResourceRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(pg *db.PostgresDB) *ResourceRepository {
	return &ResourceRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns free text into a contains-pattern for ILIKE
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// anyILike matches pattern against any of columns
func anyILike(pattern string, columns ...string) squirrel.Or {
	or := make(squirrel.Or, 0, len(columns))
	for _, c := range columns {
		or = append(or, squirrel.ILike{c: pattern})
	}
	return or
}

func resourceWhere(f models.ResourceFilter) squirrel.And {
	where := squirrel.And{}
	if f.Type != "" {
		where = append(where, squirrel.Eq{"r.type": f.Type})
	}
	if f.Branch != "" {
		where = append(where, squirrel.Eq{"r.branch": f.Branch})
	}
	if f.UploaderID != "" {
		where = append(where, squirrel.Eq{"r.uploader_id": f.UploaderID})
	}
	if f.Search != "" {
		where = append(where, anyILike(likePattern(f.Search), "r.title", "r.description", "r.course_code"))
	}
	return where
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	r := &models.Resource{}
	err := row.Scan(&r.ID, &r.UploaderID, &r.UploaderName, &r.Title, &r.Description,
		&r.Type, &r.CourseCode, &r.Branch, &r.Semester, &r.FileURL, &r.LinkURL, &r.Downloads, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResourceRepository) listQuery(f models.ResourceFilter) squirrel.SelectBuilder {
	return r.sb.Select(resourceColumns...).
		From("resources r").
		LeftJoin("users u ON u.id = r.uploader_id").
		Where(resourceWhere(f)).
		OrderBy("r.created_at DESC", "r.id DESC")
}

// List returns the matching resources, newest first
func (r *ResourceRepository) List(ctx context.Context, f models.ResourceFilter) ([]*models.Resource, error) {
	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build resource query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying resources: %w", err)
	}
	defer rows.Close()

	resources := []*models.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// Create inserts res and fills in its id, download count and creation time
func (r *ResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	sql, args, err := r.sb.Insert("resources").
		Columns("uploader_id", "title", "description", "type", "course_code", "branch", "semester", "file_url", "link_url").
		Values(res.UploaderID, res.Title, res.Description, res.Type, res.CourseCode, res.Branch, res.Semester, res.FileURL, res.LinkURL).
		Suffix("RETURNING id, downloads, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert resource query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&res.ID, &res.Downloads, &res.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating resource: %w", err)
	}
	return nil
}

// Count returns the number of resources
func (r *ResourceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting resources: %w", err)
	}
	return n, nil
}
