package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// Services defined in this package:
// - ChatService: scoped and direct message store, reactions
// - ConversationService: DM inbox aggregation, pin/unpin/delete conversation
// - UserService: profiles and blocks
// - DiscussionService: threads, upvotes, comments
// - ResourceService: shared study material
// - SkillService: skills marketplace listings
// - EventService, QuizService: admin-published events and quizzes
// - ProjectService: project showcase
// - StatsService: platform counters and health

// UserStore is the persistence used for users and their side tables
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	DeleteBySubject(ctx context.Context, subject string) error
	GetPeerProfiles(ctx context.Context, ids []string) (map[string]models.PeerProfile, error)
	AddBlock(ctx context.Context, userID, targetID string) error
	RemoveBlock(ctx context.Context, userID, targetID string) error
	AddPinnedDM(ctx context.Context, userID, peerID string, max int) error
	RemovePinnedDM(ctx context.Context, userID, peerID string) error
	MarkDMRead(ctx context.Context, userID, peerID string) (time.Time, error)
	Count(ctx context.Context) (int64, error)
}

// MessageStore is the persistence used for chat messages
type MessageStore interface {
	List(ctx context.Context, f models.MessageFilter, limit int) ([]*models.ChatMessage, error)
	Count(ctx context.Context, f models.MessageFilter) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ListDMsForUser(ctx context.Context, userID string) ([]*models.ChatMessage, error)
	AttachReactions(ctx context.Context, messages []*models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	Create(ctx context.Context, m *models.ChatMessage) error
	Delete(ctx context.Context, id string) error
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error)
	DeleteConversation(ctx context.Context, userID, peerID string) (int64, error)
}

// DiscussionStore is the persistence used for discussion threads
type DiscussionStore interface {
	List(ctx context.Context, category *models.DiscussionCategory, limit, offset int) ([]*models.DiscussionThread, int64, error)
	GetByID(ctx context.Context, id string) (*models.DiscussionThread, error)
	Create(ctx context.Context, t *models.DiscussionThread) error
	ToggleUpvote(ctx context.Context, threadID, userID string) (bool, error)
	AddComment(ctx context.Context, c *models.DiscussionComment) error
	Count(ctx context.Context) (int64, error)
}

// ResourceStore is the persistence used for study material
type ResourceStore interface {
	List(ctx context.Context, f models.ResourceFilter) ([]*models.Resource, error)
	Create(ctx context.Context, r *models.Resource) error
	Count(ctx context.Context) (int64, error)
}

// SkillStore is the persistence used for skill listings
type SkillStore interface {
	List(ctx context.Context, f models.SkillFilter) ([]*models.SkillListing, error)
	GetByID(ctx context.Context, id string) (*models.SkillListing, error)
	Create(ctx context.Context, s *models.SkillListing) error
	Update(ctx context.Context, id string, upd models.SkillUpdate) error
	Delete(ctx context.Context, id string) error
}

// EventStore is the persistence used for campus events
type EventStore interface {
	List(ctx context.Context) ([]*models.Event, error)
	Create(ctx context.Context, e *models.Event) error
}

// QuizStore is the persistence used for quizzes
type QuizStore interface {
	List(ctx context.Context) ([]*models.Quiz, error)
	Create(ctx context.Context, q *models.Quiz) error
}

// ProjectStore is the persistence used for the project showcase
type ProjectStore interface {
	List(ctx context.Context) ([]*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Count(ctx context.Context) (int64, error)
}

// ChatSettings are the tunables of the chat services
type ChatSettings struct {
	MessageLimit int
	OnlineWindow time.Duration
	MaxPinned    int
}

// DefaultChatSettings returns the production defaults
func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		MessageLimit: 100,
		OnlineWindow: 5 * time.Minute,
		MaxPinned:    3,
	}
}

// DeletedUserName is shown for peers whose profile no longer exists
const DeletedUserName = "Deleted user"

// moderate runs text through the gate and converts a refusal into an
// application error carrying the gate's reason.
func moderate(ctx context.Context, gate moderation.Gate, m *metrics.Metrics, text string, c moderation.Context) error {
	err := gate.ValidateContent(ctx, text, c)
	if err == nil {
		return nil
	}

	var rejection *moderation.Rejection
	if errors.As(err, &rejection) {
		m.ModerationRejected(string(c))
		return apperrors.NewModerationError(rejection.Reason)
	}
	return fmt.Errorf("moderation check failed: %w", err)
}

// requireUser loads a user by id, turning a missing row into a not found
// error with message.
func requireUser(ctx context.Context, users UserStore, id, message string) (*models.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError(message)
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return u, nil
}

// requireAdmin loads the acting user and refuses anyone who is not an admin.
// An unknown id is refused the same way.
func requireAdmin(ctx context.Context, users UserStore, id, message string) (*models.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewForbiddenError(message)
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if u.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError(message)
	}
	return u, nil
}

// cleanTags trims, lowercases and de-duplicates tags, dropping empty ones
func cleanTags(in []string) []string {
	lowered := make([]string, len(in))
	for i, tag := range in {
		lowered[i] = strings.ToLower(tag)
	}
	return compact(lowered)
}

// compact trims each entry and drops blanks and repeats, keeping order
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if _, dup := seen[v]; v == "" || dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// trimmed returns nil for a nil or blank string and the trimmed value otherwise
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
