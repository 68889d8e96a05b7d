package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
)

const (
	constraintUsersEmail   = "users_email_key"
	constraintUsersSubject = "users_auth_subject_key"
)

var userColumns = []string{
	"u.id", "u.auth_subject", "u.email", "u.name", "u.role", "u.branch", "u.year", "u.bio",
	"u.skills", "u.interests", "u.github", "u.linkedin", "u.portfolio",
	"u.profile_locked", "u.accepted_guidelines", "u.last_active", "u.created_at", "u.updated_at",
	"COALESCE((SELECT array_agg(b.blocked_id::text ORDER BY b.created_at) FROM user_blocks b WHERE b.user_id = u.id), '{}')",
	"COALESCE((SELECT array_agg(p.peer_id::text ORDER BY p.pinned_at) FROM user_pinned_dms p WHERE p.user_id = u.id), '{}')",
}

// UserRepository handles users and their block, pin and read-marker side tables
type UserRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pg *db.PostgresDB) *UserRepository {
	return &UserRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.AuthSubject, &u.Email, &u.Name, &u.Role, &u.Branch, &u.Year, &u.Bio,
		&u.Skills, &u.Interests, &u.SocialLinks.GitHub, &u.SocialLinks.LinkedIn, &u.SocialLinks.Portfolio,
		&u.ProfileLocked, &u.AcceptedGuidelines, &u.LastActive, &u.CreatedAt, &u.UpdatedAt,
		&u.BlockedUsers, &u.PinnedDMs,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// getOne loads a single user matching where, including its read markers
func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users u").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	u, err := scanUser(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if u.DMLastRead, err = r.readMarkers(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) readMarkers(ctx context.Context, userID string) (map[string]time.Time, error) {
	sql, args, err := r.sb.Select("peer_id::text", "last_read_at").
		From("user_dm_reads").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build read marker query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving read markers: %w", err)
	}
	defer rows.Close()

	markers := make(map[string]time.Time)
	for rows.Next() {
		var peerID string
		var at time.Time
		if err := rows.Scan(&peerID, &at); err != nil {
			return nil, fmt.Errorf("error scanning read marker: %w", err)
		}
		markers[peerID] = at
	}
	return markers, rows.Err()
}

// GetByID retrieves a user by id. Returns apperrors.ErrUserNotFound when missing.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetBySubject retrieves a user by identity-provider subject
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.auth_subject": subject})
}

// Exists reports whether a user with id exists
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pg.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user: %w", err)
	}
	return exists, nil
}

// Create inserts u and fills in its id and timestamps
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}

	sql, args, err := r.sb.Insert("users").
		Columns("auth_subject", "email", "name", "role", "branch", "year", "bio",
			"skills", "interests", "github", "linkedin", "portfolio",
			"profile_locked", "accepted_guidelines").
		Values(u.AuthSubject, u.Email, u.Name, u.Role, u.Branch, u.Year, u.Bio,
			u.Skills, u.Interests, u.SocialLinks.GitHub, u.SocialLinks.LinkedIn, u.SocialLinks.Portfolio,
			u.ProfileLocked, u.AcceptedGuidelines).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert user query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err, constraintUsersEmail):
			return apperrors.NewCustomError(apperrors.ErrConflict, "Email already in use")
		case dberrors.IsUniqueViolation(err, constraintUsersSubject):
			return apperrors.NewCustomError(apperrors.ErrConflict, "Profile already exists")
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	u.BlockedUsers = []string{}
	u.PinnedDMs = []string{}
	u.DMLastRead = map[string]time.Time{}
	return nil
}

// Update writes the mutable profile columns of u. Identity columns are never
// touched.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("name", u.Name).
		Set("role", u.Role).
		Set("branch", u.Branch).
		Set("year", u.Year).
		Set("bio", u.Bio).
		Set("skills", u.Skills).
		Set("interests", u.Interests).
		Set("github", u.SocialLinks.GitHub).
		Set("linkedin", u.SocialLinks.LinkedIn).
		Set("portfolio", u.SocialLinks.Portfolio).
		Set("profile_locked", u.ProfileLocked).
		Set("accepted_guidelines", u.AcceptedGuidelines).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// DeleteBySubject removes the user with the given subject
func (r *UserRepository) DeleteBySubject(ctx context.Context, subject string) error {
	tag, err := r.pg.Pool.Exec(ctx, `DELETE FROM users WHERE auth_subject = $1`, subject)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetPeerProfiles returns display info for the given ids. Missing users are
// absent from the map.
func (r *UserRepository) GetPeerProfiles(ctx context.Context, ids []string) (map[string]models.PeerProfile, error) {
	profiles := make(map[string]models.PeerProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	sql, args, err := r.sb.Select("id", "name", "email", "branch", "year").
		From("users").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build peer query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving peers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PeerProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Branch, &p.Year); err != nil {
			return nil, fmt.Errorf("error scanning peer: %w", err)
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

// AddBlock records that userID blocked targetID. Idempotent.
func (r *UserRepository) AddBlock(ctx context.Context, userID, targetID string) error {
	_, err := r.pg.Pool.Exec(ctx, `
		INSERT INTO user_blocks (user_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, blocked_id) DO NOTHING`,
		userID, targetID)
	if err != nil {
		return fmt.Errorf("error adding block: %w", err)
	}
	return nil
}

// RemoveBlock removes a block. Idempotent.
func (r *UserRepository) RemoveBlock(ctx context.Context, userID, targetID string) error {
	_, err := r.pg.Pool.Exec(ctx, `DELETE FROM user_blocks WHERE user_id = $1 AND blocked_id = $2`, userID, targetID)
	if err != nil {
		return fmt.Errorf("error removing block: %w", err)
	}
	return nil
}

// pinDecision reports whether a new pin row should be written. Pinning an
// already pinned peer is a no-op even at capacity.
func pinDecision(alreadyPinned bool, count, max int) (bool, error) {
	if alreadyPinned {
		return false, nil
	}
	if count >= max {
		return false, apperrors.NewLimitExceededError(fmt.Sprintf("You can pin up to %d conversations.", max))
	}
	return true, nil
}

// AddPinnedDM appends peerID to the user's pins unless already pinned. The
// user row is locked while the pin count is checked, so concurrent pins
// cannot exceed max.
func (r *UserRepository) AddPinnedDM(ctx context.Context, userID, peerID string, max int) error {
	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error locking user: %w", err)
		}

		var pinned bool
		var count int
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(bool_or(peer_id = $2), FALSE), COUNT(*)
			FROM user_pinned_dms
			WHERE user_id = $1`,
			userID, peerID).Scan(&pinned, &count)
		if err != nil {
			return fmt.Errorf("error reading pins: %w", err)
		}

		insert, err := pinDecision(pinned, count, max)
		if err != nil || !insert {
			return err
		}

		if _, err := tx.Exec(ctx, `INSERT INTO user_pinned_dms (user_id, peer_id) VALUES ($1, $2)`, userID, peerID); err != nil {
			return fmt.Errorf("error adding pin: %w", err)
		}
		return nil
	})
}

// RemovePinnedDM unpins peerID. Idempotent.
func (r *UserRepository) RemovePinnedDM(ctx context.Context, userID, peerID string) error {
	_, err := r.pg.Pool.Exec(ctx, `DELETE FROM user_pinned_dms WHERE user_id = $1 AND peer_id = $2`, userID, peerID)
	if err != nil {
		return fmt.Errorf("error removing pin: %w", err)
	}
	return nil
}

// markDMReadSQL stamps the marker with the same clock that fills
// messages.created_at, so unread counts never depend on the app host's clock.
const markDMReadSQL = `
		INSERT INTO user_dm_reads (user_id, peer_id, last_read_at)
		VALUES ($1, $2, clock_timestamp())
		ON CONFLICT (user_id, peer_id) DO UPDATE SET last_read_at = EXCLUDED.last_read_at
		RETURNING last_read_at`

// MarkDMRead sets the user's read marker for peerID to the database's current
// time and returns it
func (r *UserRepository) MarkDMRead(ctx context.Context, userID, peerID string) (time.Time, error) {
	var at time.Time
	if err := r.pg.Pool.QueryRow(ctx, markDMReadSQL, userID, peerID).Scan(&at); err != nil {
		return time.Time{}, fmt.Errorf("error updating read marker: %w", err)
	}
	return at, nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}
