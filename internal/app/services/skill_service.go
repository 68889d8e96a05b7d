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
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// SkillService defines the interface for the skills marketplace
type SkillService interface {
	ListSkills(ctx context.Context, f models.SkillFilter) (*dto.SkillListResponse, error)
	CreateSkill(ctx context.Context, req *dto.CreateSkillRequest) (*models.SkillListing, error)
	// UpdateSkill and DeleteSkill are restricted to the listing's owner
	UpdateSkill(ctx context.Context, id string, req *dto.UpdateSkillRequest) (*models.SkillListing, error)
	DeleteSkill(ctx context.Context, id, userID string) error
}

// skillServiceImpl implements SkillService
type skillServiceImpl struct {
	userRepo  UserStore
	skillRepo SkillStore
	gate      moderation.Gate
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewSkillService creates a new SkillService
func NewSkillService(
	userRepo UserStore,
	skillRepo SkillStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) SkillService {
	return &skillServiceImpl{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		gate:      gate,
		metrics:   m,
		logger:    logger,
	}
}

func validSkillType(t models.SkillType) bool {
	return t == models.SkillOffer || t == models.SkillRequest
}

func validSkillCategory(c models.SkillCategory) bool {
	return c == models.SkillAcademic || c == models.SkillNonAcademic
}

// ListSkills returns open listings, newest first
func (s *skillServiceImpl) ListSkills(ctx context.Context, f models.SkillFilter) (*dto.SkillListResponse, error) {
	f.Type = models.SkillType(strings.ToUpper(string(f.Type)))
	if f.Type != "" && !validSkillType(f.Type) {
		return nil, apperrors.NewValidationError("Unknown skill type")
	}
	f.Category = models.SkillCategory(strings.ToUpper(string(f.Category)))
	if f.Category != "" && !validSkillCategory(f.Category) {
		return nil, apperrors.NewValidationError("Unknown skill category")
	}
	f.Search = strings.TrimSpace(f.Search)

	skills, err := s.skillRepo.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list skills")
		return nil, fmt.Errorf("error listing skills: %w", err)
	}
	return &dto.SkillListResponse{Skills: skills}, nil
}

// CreateSkill implements SkillService
func (s *skillServiceImpl) CreateSkill(ctx context.Context, req *dto.CreateSkillRequest) (*models.SkillListing, error) {
	kind := models.SkillType(strings.ToUpper(req.Type))
	category := models.SkillCategory(strings.ToUpper(req.Category))
	if !validSkillType(kind) || !validSkillCategory(category) {
		return nil, apperrors.NewValidationError("Unknown skill type or category")
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("Title and description are required")
	}

	owner, err := requireUser(ctx, s.userRepo, req.UserID, "User not found")
	if err != nil {
		return nil, err
	}

	if err := moderate(ctx, s.gate, s.metrics, title+"\n\n"+description, moderation.ContextListing); err != nil {
		return nil, err
	}

	skill := &models.SkillListing{
		UserID: owner.ID,
		Owner: models.SkillOwner{
			ID:     owner.ID,
			Name:   owner.Name,
			Email:  owner.Email,
			Branch: owner.Branch,
			Year:   owner.Year,
		},
		Type:        kind,
		Title:       title,
		Description: description,
		Tags:        cleanTags(req.Tags),
		Category:    category,
		Status:      models.ListingOpen,
	}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		s.logger.Error().Err(err).Str("userID", owner.ID).Msg("Failed to create skill listing")
		return nil, fmt.Errorf("error creating skill: %w", err)
	}

	s.metrics.Created("skill")
	s.logger.Info().Str("skillID", skill.ID).Str("type", string(kind)).Msg("Skill listing created")
	return skill, nil
}

// ownedSkill loads a listing and checks that userID owns it
func (s *skillServiceImpl) ownedSkill(ctx context.Context, id, userID string) (*models.SkillListing, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("userId is required")
	}

	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrSkillNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Skill listing not found")
		}
		return nil, fmt.Errorf("error finding skill: %w", err)
	}
	if skill.UserID != userID {
		return nil, apperrors.NewForbiddenError("Only the owner can change this listing")
	}
	return skill, nil
}

// UpdateSkill implements SkillService
func (s *skillServiceImpl) UpdateSkill(ctx context.Context, id string, req *dto.UpdateSkillRequest) (*models.SkillListing, error) {
	if _, err := s.ownedSkill(ctx, id, req.UserID); err != nil {
		return nil, err
	}

	var upd models.SkillUpdate
	var text []string
	if req.Type != nil {
		t := models.SkillType(strings.ToUpper(*req.Type))
		if !validSkillType(t) {
			return nil, apperrors.NewValidationError("Unknown skill type")
		}
		upd.Type = &t
	}
	if req.Category != nil {
		c := models.SkillCategory(strings.ToUpper(*req.Category))
		if !validSkillCategory(c) {
			return nil, apperrors.NewValidationError("Unknown skill category")
		}
		upd.Category = &c
	}
	if req.Status != nil {
		st := models.ListingStatus(strings.ToUpper(*req.Status))
		if st != models.ListingOpen && st != models.ListingClosed {
			return nil, apperrors.NewValidationError("Unknown listing status")
		}
		upd.Status = &st
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("Title cannot be empty")
		}
		upd.Title = &title
		text = append(text, title)
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("Description cannot be empty")
		}
		upd.Description = &description
		text = append(text, description)
	}
	if req.Tags != nil {
		upd.Tags = cleanTags(req.Tags)
	}

	if len(text) > 0 {
		if err := moderate(ctx, s.gate, s.metrics, strings.Join(text, "\n\n"), moderation.ContextListing); err != nil {
			return nil, err
		}
	}

	if err := s.skillRepo.Update(ctx, id, upd); err != nil {
		if errors.Is(err, apperrors.ErrSkillNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Skill listing not found")
		}
		s.logger.Error().Err(err).Str("skillID", id).Msg("Failed to update skill listing")
		return nil, fmt.Errorf("error updating skill: %w", err)
	}

	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrSkillNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Skill listing not found")
		}
		return nil, fmt.Errorf("error reloading skill: %w", err)
	}
	return skill, nil
}

// DeleteSkill implements SkillService
func (s *skillServiceImpl) DeleteSkill(ctx context.Context, id, userID string) error {
	if _, err := s.ownedSkill(ctx, id, userID); err != nil {
		return err
	}

	if err := s.skillRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrSkillNotFound) {
			return apperrors.NewResourceNotFoundError("Skill listing not found")
		}
		s.logger.Error().Err(err).Str("skillID", id).Msg("Failed to delete skill listing")
		return fmt.Errorf("error deleting skill: %w", err)
	}

	s.logger.Info().Str("skillID", id).Msg("Skill listing deleted")
	return nil
}
