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

// ProjectService defines the interface for the project showcase
type ProjectService interface {
	ListProjects(ctx context.Context) (*dto.ProjectListResponse, error)
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*models.Project, error)
}

// projectServiceImpl implements ProjectService
type projectServiceImpl struct {
	userRepo    UserStore
	projectRepo ProjectStore
	gate        moderation.Gate
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	userRepo UserStore,
	projectRepo ProjectStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) ProjectService {
	return &projectServiceImpl{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		gate:        gate,
		metrics:     m,
		logger:      logger,
	}
}

// ListProjects returns featured projects first, then newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context) (*dto.ProjectListResponse, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list projects")
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return &dto.ProjectListResponse{Projects: projects}, nil
}

// team resolves the creator and members into a de-duplicated team with the
// creator first.
func (s *projectServiceImpl) team(ctx context.Context, creator *models.User, memberIDs []string) ([]models.ProjectMember, error) {
	team := []models.ProjectMember{{ID: creator.ID, AuthSubject: creator.AuthSubject, Name: creator.Name, Email: creator.Email}}
	seen := map[string]struct{}{creator.ID: {}}

	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		u, err := requireUser(ctx, s.userRepo, id, "Team member not found")
		if err != nil {
			return nil, err
		}
		team = append(team, models.ProjectMember{ID: u.ID, AuthSubject: u.AuthSubject, Name: u.Name, Email: u.Email})
	}
	return team, nil
}

// CreateProject implements ProjectService. Only an admin creator can mark a
// project as featured.
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*models.Project, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("Title and description are required")
	}

	creator, err := requireUser(ctx, s.userRepo, req.CreatorID, "Creator not found")
	if err != nil {
		return nil, err
	}
	team, err := s.team(ctx, creator, req.TeamMemberIDs)
	if err != nil {
		return nil, err
	}

	if err := moderate(ctx, s.gate, s.metrics, title+"\n\n"+description, moderation.ContextListing); err != nil {
		return nil, err
	}

	project := &models.Project{
		TeamMembers: team,
		Title:       title,
		Description: description,
		TechStack:   compact(req.TechStack),
		DemoLink:    trimmed(req.DemoLink),
		RepoLink:    trimmed(req.RepoLink),
		Images:      compact(req.Images),
		IsFeatured:  req.IsFeatured && creator.Role == models.RoleAdmin,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Team member not found")
		}
		s.logger.Error().Err(err).Str("creatorID", creator.ID).Msg("Failed to create project")
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	s.metrics.Created("project")
	s.logger.Info().Str("projectID", project.ID).Int("team", len(team)).Msg("Project created")
	return project, nil
}
