package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
	"github.com/yigit/campushub/internal/pkg/markdown"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// DiscussionService defines the interface for discussion board operations
type DiscussionService interface {
	ListThreads(ctx context.Context, category string, page, pageSize int) (*dto.ThreadListResponse, error)
	CreateThread(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	ToggleUpvote(ctx context.Context, threadID, userID string) (*dto.ThreadResponse, error)
	AddComment(ctx context.Context, threadID string, req *dto.AddCommentRequest) (*models.DiscussionComment, error)
}

// discussionServiceImpl implements DiscussionService
type discussionServiceImpl struct {
	userRepo       UserStore
	discussionRepo DiscussionStore
	gate           moderation.Gate
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewDiscussionService creates a new DiscussionService
func NewDiscussionService(
	userRepo UserStore,
	discussionRepo DiscussionStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) DiscussionService {
	return &discussionServiceImpl{
		userRepo:       userRepo,
		discussionRepo: discussionRepo,
		gate:           gate,
		metrics:        m,
		logger:         logger,
	}
}

func toThreadResponse(t *models.DiscussionThread) dto.ThreadResponse {
	return dto.ThreadResponse{
		DiscussionThread: t,
		ContentHTML:      markdown.Render(t.Content),
		UpvoteCount:      len(t.Upvotes),
		CommentCount:     len(t.Comments),
	}
}

// ListThreads returns a page of threads, newest first, optionally filtered by category
func (s *discussionServiceImpl) ListThreads(ctx context.Context, category string, page, pageSize int) (*dto.ThreadListResponse, error) {
	var filter *models.DiscussionCategory
	if category != "" {
		c := models.DiscussionCategory(strings.ToUpper(category))
		if !c.IsValid() {
			return nil, apperrors.NewValidationError("Unknown discussion category")
		}
		filter = &c
	}

	if page < 1 {
		page = helpers.DefaultPage
	}
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	threads, total, err := s.discussionRepo.List(ctx, filter, limit, int(offset))
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("Failed to list threads")
		return nil, fmt.Errorf("error listing threads: %w", err)
	}

	resp := &dto.ThreadListResponse{
		Threads:    make([]dto.ThreadResponse, 0, len(threads)),
		Pagination: dto.NewPaginationInfo(page, limit, total),
	}
	for _, t := range threads {
		resp.Threads = append(resp.Threads, toThreadResponse(t))
	}
	return resp, nil
}

// CreateThread implements DiscussionService
func (s *discussionServiceImpl) CreateThread(ctx context.Context, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	category := models.DiscussionCategory(strings.ToUpper(req.Category))
	if !category.IsValid() {
		return nil, apperrors.NewValidationError("Unknown discussion category")
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("Title and content are required")
	}

	author, err := requireUser(ctx, s.userRepo, req.AuthorID, "Author not found")
	if err != nil {
		return nil, err
	}

	if err := moderate(ctx, s.gate, s.metrics, title+"\n\n"+content, moderation.ContextDiscussion); err != nil {
		return nil, err
	}

	thread := &models.DiscussionThread{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      title,
		Content:    content,
		Category:   category,
		Tags:       cleanTags(req.Tags),
	}
	if err := s.discussionRepo.Create(ctx, thread); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Author not found")
		}
		s.logger.Error().Err(err).Str("authorID", author.ID).Msg("Failed to create thread")
		return nil, fmt.Errorf("error creating thread: %w", err)
	}

	s.logger.Info().Str("threadID", thread.ID).Str("category", string(category)).Msg("Discussion thread created")
	resp := toThreadResponse(thread)
	return &resp, nil
}

// ToggleUpvote implements DiscussionService
func (s *discussionServiceImpl) ToggleUpvote(ctx context.Context, threadID, userID string) (*dto.ThreadResponse, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}

	added, err := s.discussionRepo.ToggleUpvote(ctx, threadID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrThreadNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Discussion not found")
		}
		return nil, fmt.Errorf("error toggling upvote: %w", err)
	}
	s.metrics.Toggled("upvote", added)

	thread, err := s.discussionRepo.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, apperrors.ErrThreadNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Discussion not found")
		}
		return nil, fmt.Errorf("error finding thread: %w", err)
	}

	resp := toThreadResponse(thread)
	return &resp, nil
}

// AddComment implements DiscussionService. Comments are append only.
func (s *discussionServiceImpl) AddComment(ctx context.Context, threadID string, req *dto.AddCommentRequest) (*models.DiscussionComment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Comment content is required")
	}

	author, err := requireUser(ctx, s.userRepo, req.AuthorID, "Author not found")
	if err != nil {
		return nil, err
	}

	if err := moderate(ctx, s.gate, s.metrics, content, moderation.ContextComment); err != nil {
		return nil, err
	}

	comment := &models.DiscussionComment{
		ThreadID:   threadID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    content,
	}
	if err := s.discussionRepo.AddComment(ctx, comment); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrThreadNotFound):
			return nil, apperrors.NewResourceNotFoundError("Discussion not found")
		case errors.Is(err, apperrors.ErrUserNotFound):
			return nil, apperrors.NewResourceNotFoundError("Author not found")
		}
		s.logger.Error().Err(err).Str("threadID", threadID).Msg("Failed to add comment")
		return nil, fmt.Errorf("error adding comment: %w", err)
	}

	return comment, nil
}
