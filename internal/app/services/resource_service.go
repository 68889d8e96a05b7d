package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// ResourceService defines the interface for the study material library
type ResourceService interface {
	ListResources(ctx context.Context, f models.ResourceFilter) (*dto.ResourceListResponse, error)
	CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*models.Resource, error)
}

// resourceServiceImpl implements ResourceService
type resourceServiceImpl struct {
	userRepo     UserStore
	resourceRepo ResourceStore
	gate         moderation.Gate
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	userRepo UserStore,
	resourceRepo ResourceStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) ResourceService {
	return &resourceServiceImpl{
		userRepo:     userRepo,
		resourceRepo: resourceRepo,
		gate:         gate,
		metrics:      m,
		logger:       logger,
	}
}

// ListResources returns matching resources newest first. An uploader filter
// that is not a user id is ignored.
func (s *resourceServiceImpl) ListResources(ctx context.Context, f models.ResourceFilter) (*dto.ResourceListResponse, error) {
	f.Type = models.ResourceType(strings.ToUpper(string(f.Type)))
	if f.Type != "" && !f.Type.IsValid() {
		return nil, apperrors.NewValidationError("Unknown resource type")
	}
	if _, err := uuid.Parse(f.UploaderID); err != nil {
		f.UploaderID = ""
	}
	f.Search = strings.TrimSpace(f.Search)

	resources, err := s.resourceRepo.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list resources")
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	return &dto.ResourceListResponse{Resources: resources}, nil
}

// CreateResource implements ResourceService
func (s *resourceServiceImpl) CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*models.Resource, error) {
	kind := models.ResourceType(strings.ToUpper(req.Type))
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("Unknown resource type")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Title is required")
	}
	linkURL := trimmed(req.LinkURL)
	if kind == models.ResourceLink && linkURL == nil {
		return nil, apperrors.NewValidationError("linkUrl is required for LINK resources")
	}

	uploader, err := requireUser(ctx, s.userRepo, req.UploaderID, "Uploader not found")
	if err != nil {
		return nil, err
	}

	description := trimmed(req.Description)
	text := title
	if description != nil {
		text += "\n\n" + *description
	}
	if err := moderate(ctx, s.gate, s.metrics, text, moderation.ContextListing); err != nil {
		return nil, err
	}

	res := &models.Resource{
		UploaderID:   uploader.ID,
		UploaderName: uploader.Name,
		Title:        title,
		Description:  description,
		Type:         kind,
		CourseCode:   trimmed(req.CourseCode),
		Branch:       trimmed(req.Branch),
		Semester:     req.Semester,
		FileURL:      trimmed(req.FileURL),
		LinkURL:      linkURL,
	}
	if err := s.resourceRepo.Create(ctx, res); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Uploader not found")
		}
		s.logger.Error().Err(err).Str("uploaderID", uploader.ID).Msg("Failed to create resource")
		return nil, fmt.Errorf("error creating resource: %w", err)
	}

	s.metrics.Created("resource")
	s.logger.Info().Str("resourceID", res.ID).Str("type", string(kind)).Msg("Resource shared")
	return res, nil
}
