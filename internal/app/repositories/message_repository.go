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
)

var messageColumns = []string{
	"m.id", "m.content", "m.sticker", "m.sender_id", "m.sender_name", "m.scope",
	"m.branch", "m.year", "m.recipient_id::text",
	"m.reply_to_id::text", "m.reply_to_content", "m.reply_to_sender_name", "m.created_at",
}

// MessageRepository handles chat messages and their reactions
type MessageRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pg *db.PostgresDB) *MessageRepository {
	return &MessageRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMessage(row pgx.Row) (*models.ChatMessage, error) {
	m := &models.ChatMessage{Reactions: []models.Reaction{}}
	var replyID, replyContent, replySender *string
	err := row.Scan(
		&m.ID, &m.Content, &m.Sticker, &m.SenderID, &m.SenderName, &m.Scope,
		&m.Branch, &m.Year, &m.RecipientID,
		&replyID, &replyContent, &replySender, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if replyID != nil {
		m.ReplyTo = &models.ReplySnapshot{ID: *replyID}
		if replyContent != nil {
			m.ReplyTo.Content = *replyContent
		}
		if replySender != nil {
			m.ReplyTo.SenderName = *replySender
		}
	}
	return m, nil
}

// scopeWhere translates a filter into a WHERE clause on messages m
func scopeWhere(f models.MessageFilter) squirrel.Sqlizer {
	switch f.Scope {
	case models.ScopeBranch:
		return squirrel.Eq{"m.scope": f.Scope, "m.branch": f.Branch}
	case models.ScopeYear:
		return squirrel.Eq{"m.scope": f.Scope, "m.year": f.Year}
	case models.ScopeDM:
		return squirrel.And{
			squirrel.Eq{"m.scope": f.Scope},
			squirrel.Or{
				squirrel.Eq{"m.sender_id": f.ViewerID, "m.recipient_id": f.PeerID},
				squirrel.Eq{"m.sender_id": f.PeerID, "m.recipient_id": f.ViewerID},
			},
		}
	default:
		return squirrel.Eq{"m.scope": f.Scope}
	}
}

func (r *MessageRepository) queryMessages(ctx context.Context, q squirrel.SelectBuilder) ([]*models.ChatMessage, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build message query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// listQuery selects the limit newest messages matching f, newest first
func (r *MessageRepository) listQuery(f models.MessageFilter, limit int) squirrel.SelectBuilder {
	return r.sb.Select(messageColumns...).
		From("messages m").
		Where(scopeWhere(f)).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(uint64(limit))
}

func reverseMessages(messages []*models.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

// List returns the limit most recent messages matching f in ascending
// creation order, with reactions attached.
func (r *MessageRepository) List(ctx context.Context, f models.MessageFilter, limit int) ([]*models.ChatMessage, error) {
	messages, err := r.queryMessages(ctx, r.listQuery(f, limit))
	if err != nil {
		return nil, err
	}
	reverseMessages(messages)

	if err := r.AttachReactions(ctx, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Count returns how many messages match f
func (r *MessageRepository) Count(ctx context.Context, f models.MessageFilter) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("messages m").Where(scopeWhere(f)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int64
	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return n, nil
}

// CountAll returns the number of stored messages across all scopes
func (r *MessageRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return n, nil
}

// ListDMsForUser returns every dm message sent or received by userID, newest
// first. Reactions are not loaded.
func (r *MessageRepository) ListDMsForUser(ctx context.Context, userID string) ([]*models.ChatMessage, error) {
	return r.queryMessages(ctx, r.dmsForUserQuery(userID))
}

func (r *MessageRepository) dmsForUserQuery(userID string) squirrel.SelectBuilder {
	return r.sb.Select(messageColumns...).
		From("messages m").
		Where(squirrel.And{
			squirrel.Eq{"m.scope": models.ScopeDM},
			squirrel.Or{
				squirrel.Eq{"m.sender_id": userID},
				squirrel.Eq{"m.recipient_id": userID},
			},
		}).
		OrderBy("m.created_at DESC", "m.id DESC")
}

// AttachReactions loads the reactions of messages in one query
func (r *MessageRepository) AttachReactions(ctx context.Context, messages []*models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	byID := make(map[string]*models.ChatMessage, len(messages))
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	sql, args, err := r.sb.Select("message_id", "user_id", "emoji", "created_at").
		From("message_reactions").
		Where(squirrel.Eq{"message_id": ids}).
		OrderBy("created_at", "user_id", "emoji").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reaction query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var messageID string
		var reaction models.Reaction
		if err := rows.Scan(&messageID, &reaction.UserID, &reaction.Emoji, &reaction.CreatedAt); err != nil {
			return fmt.Errorf("error scanning reaction: %w", err)
		}
		if m, ok := byID[messageID]; ok {
			m.Reactions = append(m.Reactions, reaction)
		}
	}
	return rows.Err()
}

// GetByID retrieves a message with its reactions
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	sql, args, err := r.sb.Select(messageColumns...).From("messages m").Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build message query: %w", err)
	}

	m, err := scanMessage(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}

	if err := r.AttachReactions(ctx, []*models.ChatMessage{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts m and fills in its id and creation time
func (r *MessageRepository) Create(ctx context.Context, m *models.ChatMessage) error {
	var replyID, replyContent, replySender *string
	if m.ReplyTo != nil {
		replyID, replyContent, replySender = &m.ReplyTo.ID, &m.ReplyTo.Content, &m.ReplyTo.SenderName
	}

	sql, args, err := r.sb.Insert("messages").
		Columns("content", "sticker", "sender_id", "sender_name", "scope", "branch", "year",
			"recipient_id", "reply_to_id", "reply_to_content", "reply_to_sender_name").
		Values(m.Content, m.Sticker, m.SenderID, m.SenderName, m.Scope, m.Branch, m.Year,
			m.RecipientID, replyID, replyContent, replySender).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert message query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	if m.Reactions == nil {
		m.Reactions = []models.Reaction{}
	}
	return nil
}

// Delete removes a message and its reactions
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pg.Pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// lockMessageSQL serialises toggles on one message
const lockMessageSQL = `SELECT id FROM messages WHERE id = $1 FOR UPDATE`

// ToggleReaction removes the (userID, emoji) reaction if present and adds it
// otherwise. It reports whether the reaction is now present.
func (r *MessageRepository) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error) {
	var added bool
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, lockMessageSQL, messageID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrMessageNotFound
			}
			return fmt.Errorf("error locking message: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM message_reactions
			WHERE message_id = $1 AND user_id = $2 AND emoji = $3`,
			messageID, userID, emoji)
		if err != nil {
			return fmt.Errorf("error removing reaction: %w", err)
		}
		if tag.RowsAffected() > 0 {
			added = false
			return nil
		}

		tag, err = tx.Exec(ctx, `
			INSERT INTO message_reactions (message_id, user_id, emoji)
			VALUES ($1, $2, $3)
			ON CONFLICT (message_id, user_id, emoji) DO NOTHING`,
			messageID, userID, emoji)
		if err != nil {
			return fmt.Errorf("error adding reaction: %w", err)
		}
		added = tag.RowsAffected() > 0
		return nil
	})
	return added, err
}

// DeleteConversation removes every dm between userID and peerID in both
// directions, together with the user's pin and read marker for peerID, in a
// single transaction. It returns the number of deleted messages.
func (r *MessageRepository) DeleteConversation(ctx context.Context, userID, peerID string) (int64, error) {
	var deleted int64
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM messages
			WHERE scope = 'dm'
			  AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))`,
			userID, peerID)
		if err != nil {
			return fmt.Errorf("error deleting conversation messages: %w", err)
		}
		deleted = tag.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM user_pinned_dms WHERE user_id = $1 AND peer_id = $2`, userID, peerID); err != nil {
			return fmt.Errorf("error removing pin: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_dm_reads WHERE user_id = $1 AND peer_id = $2`, userID, peerID); err != nil {
			return fmt.Errorf("error clearing read marker: %w", err)
		}
		return nil
	})
	return deleted, err
}
