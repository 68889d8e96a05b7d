package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
	"github.com/yigit/campushub/internal/pkg/presence"
)

// ListMessagesInput selects one scope of messages.
// Qualifier is the branch name or the year for the branch and year scopes.
type ListMessagesInput struct {
	Scope     models.MessageScope
	Qualifier string
	ViewerID  string
	PeerID    string
}

// ChatService defines the interface for chat message operations
type ChatService interface {
	// ListMessages returns the most recent messages of a scope with presence
	// counters. A dm fetch marks the conversation read for the viewer.
	ListMessages(ctx context.Context, in ListMessagesInput) (*dto.MessageListResponse, error)
	PostMessage(ctx context.Context, req *dto.PostMessageRequest) (*models.ChatMessage, error)
	GetMessage(ctx context.Context, id string) (*models.ChatMessage, error)
	DeleteMessage(ctx context.Context, id, requesterID string) error
	ToggleReaction(ctx context.Context, id, userID, emoji string) (*models.ChatMessage, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	userRepo    UserStore
	messageRepo MessageStore
	gate        moderation.Gate
	tracker     presence.Tracker
	metrics     *metrics.Metrics
	settings    ChatSettings
	clock       helpers.Clock
	logger      zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	userRepo UserStore,
	messageRepo MessageStore,
	gate moderation.Gate,
	tracker presence.Tracker,
	m *metrics.Metrics,
	settings ChatSettings,
	clock helpers.Clock,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		gate:        gate,
		tracker:     tracker,
		metrics:     m,
		settings:    settings,
		clock:       clock,
		logger:      logger,
	}
}

// buildFilter validates the scope qualifier of a listing
func buildFilter(in ListMessagesInput) (models.MessageFilter, error) {
	f := models.MessageFilter{Scope: in.Scope}
	switch in.Scope {
	case models.ScopeUniversal:
	case models.ScopeBranch:
		f.Branch = strings.TrimSpace(in.Qualifier)
		if f.Branch == "" {
			return f, apperrors.NewValidationError("Branch is required for branch chat")
		}
	case models.ScopeYear:
		year, err := strconv.Atoi(strings.TrimSpace(in.Qualifier))
		if err != nil || year <= 0 {
			return f, apperrors.NewValidationError("A valid year is required for year chat")
		}
		f.Year = year
	case models.ScopeDM:
		if in.ViewerID == "" || in.PeerID == "" {
			return f, apperrors.NewValidationError("viewerId and peerId are required for direct messages")
		}
		f.ViewerID, f.PeerID = in.ViewerID, in.PeerID
	default:
		return f, apperrors.NewValidationError("Invalid scope")
	}
	return f, nil
}

// touchViewer records presence for a viewer that exists. It reports whether
// the viewer exists.
func touchViewer(ctx context.Context, users UserStore, tracker presence.Tracker, viewerID string, clock helpers.Clock) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	exists, err := users.Exists(ctx, viewerID)
	if err != nil || !exists {
		return false, err
	}
	if err := tracker.Touch(ctx, viewerID, clock()); err != nil {
		return true, fmt.Errorf("error updating presence: %w", err)
	}
	return true, nil
}

// ListMessages implements ChatService
func (s *chatServiceImpl) ListMessages(ctx context.Context, in ListMessagesInput) (*dto.MessageListResponse, error) {
	filter, err := buildFilter(in)
	if err != nil {
		return nil, err
	}

	viewerExists, err := touchViewer(ctx, s.userRepo, s.tracker, in.ViewerID, s.clock)
	if err != nil {
		s.logger.Error().Err(err).Str("viewerID", in.ViewerID).Msg("Failed to record presence")
		return nil, err
	}
	if filter.Scope == models.ScopeDM && !viewerExists {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}

	messages, err := s.messageRepo.List(ctx, filter, s.settings.MessageLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", string(filter.Scope)).Msg("Failed to list messages")
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}

	if filter.Scope == models.ScopeDM {
		// reading a conversation marks it read
		if _, err := s.userRepo.MarkDMRead(ctx, filter.ViewerID, filter.PeerID); err != nil {
			s.logger.Error().Err(err).Str("viewerID", filter.ViewerID).Str("peerID", filter.PeerID).Msg("Failed to update read marker")
			return nil, fmt.Errorf("error updating read marker: %w", err)
		}
	}

	resp := &dto.MessageListResponse{Messages: messages}
	if resp.OnlineCount, err = s.tracker.CountOnline(ctx, s.clock().Add(-s.settings.OnlineWindow)); err != nil {
		return nil, fmt.Errorf("error counting online users: %w", err)
	}
	if resp.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if resp.TotalMessages, err = s.messageRepo.Count(ctx, filter); err != nil {
		return nil, fmt.Errorf("error counting messages: %w", err)
	}

	s.logger.Debug().
		Str("scope", string(filter.Scope)).
		Int("count", len(messages)).
		Int64("online", resp.OnlineCount).
		Msg("Listed messages")

	return resp, nil
}

// PostMessage implements ChatService
func (s *chatServiceImpl) PostMessage(ctx context.Context, req *dto.PostMessageRequest) (*models.ChatMessage, error) {
	content := trimmed(req.Content)
	sticker := trimmed(req.Sticker)
	if content == nil && sticker == nil {
		return nil, apperrors.NewValidationError("Message content or sticker is required")
	}

	sender, err := requireUser(ctx, s.userRepo, req.SenderID, "Sender not found")
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		Content:    content,
		Sticker:    sticker,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Scope:      models.MessageScope(req.Scope),
	}

	qualifier := ""
	if q := trimmed(req.Qualifier); q != nil {
		qualifier = *q
	}

	switch msg.Scope {
	case models.ScopeUniversal:
	case models.ScopeBranch:
		if qualifier == "" {
			return nil, apperrors.NewValidationError("Branch is required for branch chat")
		}
		msg.Branch = &qualifier
	case models.ScopeYear:
		year, err := strconv.Atoi(qualifier)
		if err != nil || year <= 0 {
			return nil, apperrors.NewValidationError("A valid year is required for year chat")
		}
		msg.Year = &year
	case models.ScopeDM:
		recipientID := qualifier
		if r := trimmed(req.RecipientID); r != nil {
			recipientID = *r
		}
		if recipientID == "" {
			return nil, apperrors.NewValidationError("Recipient is required for direct messages")
		}
		if err := s.checkDMAllowed(ctx, sender, recipientID); err != nil {
			return nil, err
		}
		msg.RecipientID = &recipientID
	default:
		return nil, apperrors.NewValidationError("Invalid scope")
	}

	if content != nil {
		if err := moderate(ctx, s.gate, s.metrics, *content, moderation.ContextChat); err != nil {
			s.logger.Info().Str("senderID", sender.ID).Str("scope", string(msg.Scope)).Msg("Message rejected by moderation")
			return nil, err
		}
	}

	// users without a branch or year on file may post anywhere
	switch msg.Scope {
	case models.ScopeBranch:
		if sender.Branch != nil && *sender.Branch != "" && *sender.Branch != *msg.Branch {
			return nil, apperrors.NewForbiddenError("You can only post in your own branch chat")
		}
	case models.ScopeYear:
		if sender.Year != nil && *sender.Year != 0 && *sender.Year != *msg.Year {
			return nil, apperrors.NewForbiddenError("You can only post in your own year chat")
		}
	}

	if id := trimmed(req.ReplyTo); id != nil {
		target, err := s.messageRepo.GetByID(ctx, *id)
		if err != nil {
			if errors.Is(err, apperrors.ErrMessageNotFound) {
				return nil, apperrors.NewCustomError(apperrors.ErrReplyTargetMissing, "The message you replied to no longer exists")
			}
			return nil, fmt.Errorf("error loading reply target: %w", err)
		}
		msg.ReplyTo = target.Snapshot()
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("senderID", sender.ID).Msg("Failed to create message")
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	s.metrics.MessagePosted(string(msg.Scope))
	s.logger.Info().Str("messageID", msg.ID).Str("scope", string(msg.Scope)).Msg("Message posted")
	return msg, nil
}

// checkDMAllowed validates the recipient of a direct message
func (s *chatServiceImpl) checkDMAllowed(ctx context.Context, sender *models.User, recipientID string) error {
	recipient, err := requireUser(ctx, s.userRepo, recipientID, "Recipient not found")
	if err != nil {
		return err
	}
	if recipient.ID == sender.ID {
		return apperrors.NewValidationError("You cannot send a message to yourself")
	}
	if recipient.HasBlocked(sender.ID) {
		return apperrors.NewForbiddenError("You cannot send messages to this user")
	}
	if sender.HasBlocked(recipient.ID) {
		return apperrors.NewForbiddenError("You have blocked this user. Unblock them to send messages.")
	}
	return nil
}

// GetMessage implements ChatService
func (s *chatServiceImpl) GetMessage(ctx context.Context, id string) (*models.ChatMessage, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Message not found")
		}
		return nil, fmt.Errorf("error finding message: %w", err)
	}
	return msg, nil
}

// DeleteMessage implements ChatService
func (s *chatServiceImpl) DeleteMessage(ctx context.Context, id, requesterID string) error {
	if requesterID == "" {
		return apperrors.NewUnauthorizedError("userId is required")
	}

	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg.SenderID != requesterID {
		return apperrors.NewForbiddenError("You can only delete your own messages")
	}

	if err := s.messageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return apperrors.NewResourceNotFoundError("Message not found")
		}
		s.logger.Error().Err(err).Str("messageID", id).Msg("Failed to delete message")
		return fmt.Errorf("error deleting message: %w", err)
	}

	s.logger.Info().Str("messageID", id).Str("userID", requesterID).Msg("Message deleted")
	return nil
}

// ToggleReaction implements ChatService
func (s *chatServiceImpl) ToggleReaction(ctx context.Context, id, userID, emoji string) (*models.ChatMessage, error) {
	emoji = strings.TrimSpace(emoji)
	if userID == "" || emoji == "" {
		return nil, apperrors.NewValidationError("userId and emoji are required")
	}

	added, err := s.messageRepo.ToggleReaction(ctx, id, userID, emoji)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Message not found")
		}
		s.logger.Error().Err(err).Str("messageID", id).Msg("Failed to toggle reaction")
		return nil, fmt.Errorf("error toggling reaction: %w", err)
	}
	s.metrics.Toggled("reaction", added)

	return s.GetMessage(ctx, id)
}
