package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
	"github.com/yigit/campushub/internal/pkg/presence"
)

// Conversation preference actions
const (
	ActionPin    = "pin"
	ActionUnpin  = "unpin"
	ActionDelete = "delete"
)

// ConversationService defines the DM inbox operations
type ConversationService interface {
	ListConversations(ctx context.Context, viewerID string) (*dto.ConversationListResponse, error)
	UpdatePreference(ctx context.Context, viewerID, targetID, action string) error
}

// conversationServiceImpl implements ConversationService
type conversationServiceImpl struct {
	userRepo    UserStore
	messageRepo MessageStore
	tracker     presence.Tracker
	settings    ChatSettings
	clock       helpers.Clock
	logger      zerolog.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	userRepo UserStore,
	messageRepo MessageStore,
	tracker presence.Tracker,
	settings ChatSettings,
	clock helpers.Clock,
	logger zerolog.Logger,
) ConversationService {
	return &conversationServiceImpl{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		tracker:     tracker,
		settings:    settings,
		clock:       clock,
		logger:      logger,
	}
}

// ListConversations groups the viewer's direct messages by peer, newest
// message per peer, with unread counts. Pinned peers come first in pin order,
// the rest by most recent message.
func (s *conversationServiceImpl) ListConversations(ctx context.Context, viewerID string) (*dto.ConversationListResponse, error) {
	if viewerID == "" {
		return nil, apperrors.NewValidationError("viewerId is required")
	}

	viewer, err := requireUser(ctx, s.userRepo, viewerID, "User not found")
	if err != nil {
		return nil, err
	}
	if err := s.tracker.Touch(ctx, viewer.ID, s.clock()); err != nil {
		s.logger.Error().Err(err).Str("viewerID", viewer.ID).Msg("Failed to record presence")
		return nil, fmt.Errorf("error updating presence: %w", err)
	}

	dms, err := s.messageRepo.ListDMsForUser(ctx, viewer.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("viewerID", viewer.ID).Msg("Failed to list direct messages")
		return nil, fmt.Errorf("error listing direct messages: %w", err)
	}

	resp := &dto.ConversationListResponse{Conversations: []models.Conversation{}}
	if len(dms) == 0 {
		return resp, nil
	}

	conversations := aggregateConversations(viewer, dms)

	peerIDs := make([]string, 0, len(conversations))
	lastMessages := make([]*models.ChatMessage, 0, len(conversations))
	for _, c := range conversations {
		peerIDs = append(peerIDs, c.Peer.ID)
		lastMessages = append(lastMessages, c.LastMessage)
	}

	profiles, err := s.userRepo.GetPeerProfiles(ctx, peerIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading peers: %w", err)
	}
	if err := s.messageRepo.AttachReactions(ctx, lastMessages); err != nil {
		return nil, fmt.Errorf("error loading reactions: %w", err)
	}

	for i := range conversations {
		if p, ok := profiles[conversations[i].Peer.ID]; ok {
			conversations[i].Peer = p
		}
		resp.TotalUnread += conversations[i].UnreadCount
	}
	resp.Conversations = conversations

	s.logger.Debug().
		Str("viewerID", viewer.ID).
		Int("conversations", len(conversations)).
		Int("unread", resp.TotalUnread).
		Msg("Listed conversations")

	return resp, nil
}

// aggregateConversations builds the ordered inbox from dms, which must be
// sorted newest first. Peers get a placeholder profile.
func aggregateConversations(viewer *models.User, dms []*models.ChatMessage) []models.Conversation {
	pinPos := make(map[string]int, len(viewer.PinnedDMs))
	for i, id := range viewer.PinnedDMs {
		pinPos[id] = i
	}

	index := make(map[string]int)
	var conversations []models.Conversation

	for _, m := range dms {
		peer := m.OtherParty(viewer.ID)
		if peer == "" {
			continue
		}

		i, seen := index[peer]
		if !seen {
			_, pinned := pinPos[peer]
			conversations = append(conversations, models.Conversation{
				Peer:          models.PeerProfile{ID: peer, Name: DeletedUserName},
				LastMessage:   m,
				LastMessageAt: m.CreatedAt,
				Pinned:        pinned,
			})
			i = len(conversations) - 1
			index[peer] = i
		}

		if m.SenderID == peer {
			lastRead, ok := viewer.DMLastRead[peer]
			if !ok || m.CreatedAt.After(lastRead) {
				conversations[i].UnreadCount++
			}
		}
	}

	sort.SliceStable(conversations, func(a, b int) bool {
		ca, cb := conversations[a], conversations[b]
		if ca.Pinned != cb.Pinned {
			return ca.Pinned
		}
		if ca.Pinned {
			return pinPos[ca.Peer.ID] < pinPos[cb.Peer.ID]
		}
		return ca.LastMessageAt.After(cb.LastMessageAt)
	})

	return conversations
}

// UpdatePreference pins, unpins or deletes the conversation with targetID
func (s *conversationServiceImpl) UpdatePreference(ctx context.Context, viewerID, targetID, action string) error {
	if viewerID == "" || targetID == "" || viewerID == targetID {
		return apperrors.NewValidationError("Invalid target")
	}

	switch action {
	case ActionPin, ActionUnpin, ActionDelete:
	default:
		return apperrors.NewValidationError("Invalid action")
	}

	exists, err := s.userRepo.Exists(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("error finding user: %w", err)
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("User not found")
	}

	log := s.logger.With().Str("viewerID", viewerID).Str("targetID", targetID).Str("action", action).Logger()

	switch action {
	case ActionPin:
		err = s.userRepo.AddPinnedDM(ctx, viewerID, targetID, s.settings.MaxPinned)
	case ActionUnpin:
		err = s.userRepo.RemovePinnedDM(ctx, viewerID, targetID)
	case ActionDelete:
		var deleted int64
		deleted, err = s.messageRepo.DeleteConversation(ctx, viewerID, targetID)
		if err == nil {
			log = log.With().Int64("deletedMessages", deleted).Logger()
		}
	}

	if err != nil {
		if apperrors.Is(err, apperrors.ErrLimitExceeded) {
			return err
		}
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewResourceNotFoundError("User not found")
		}
		log.Error().Err(err).Msg("Failed to update conversation preference")
		return fmt.Errorf("error updating conversation: %w", err)
	}

	log.Info().Msg("Conversation preference updated")
	return nil
}
