package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models/dto"
)

// Pinger is a backing service that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter is a store that can report how many rows it holds
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsService exposes platform counters and dependency health
type StatsService interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	// Health returns false when any dependency fails its ping
	Health(ctx context.Context) (*dto.HealthResponse, bool)
}

// statsServiceImpl implements StatsService
type statsServiceImpl struct {
	userRepo       UserStore
	messageRepo    MessageStore
	discussionRepo DiscussionStore
	resourceRepo   Counter
	projectRepo    Counter
	deps           map[string]Pinger
	logger         zerolog.Logger
}

// NewStatsService creates a new StatsService. deps maps a service name to its
// Pinger; nil entries are skipped.
func NewStatsService(
	userRepo UserStore,
	messageRepo MessageStore,
	discussionRepo DiscussionStore,
	resourceRepo Counter,
	projectRepo Counter,
	deps map[string]Pinger,
	logger zerolog.Logger,
) StatsService {
	return &statsServiceImpl{
		userRepo:       userRepo,
		messageRepo:    messageRepo,
		discussionRepo: discussionRepo,
		resourceRepo:   resourceRepo,
		projectRepo:    projectRepo,
		deps:           deps,
		logger:         logger,
	}
}

// Stats implements StatsService
func (s *statsServiceImpl) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var (
		resp dto.StatsResponse
		err  error
	)
	if resp.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if resp.Messages, err = s.messageRepo.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("error counting messages: %w", err)
	}
	if resp.Discussions, err = s.discussionRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting discussions: %w", err)
	}
	if resp.Resources, err = s.resourceRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting resources: %w", err)
	}
	if resp.Projects, err = s.projectRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting projects: %w", err)
	}
	return &resp, nil
}

// Health implements StatsService
func (s *statsServiceImpl) Health(ctx context.Context) (*dto.HealthResponse, bool) {
	resp := &dto.HealthResponse{Status: "ok", Services: make(map[string]string, len(s.deps))}
	healthy := true

	for name, dep := range s.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Str("service", name).Msg("Health check failed")
			resp.Services[name] = "down"
			healthy = false
			continue
		}
		resp.Services[name] = "up"
	}

	if !healthy {
		resp.Status = "degraded"
	}
	return resp, healthy
}
