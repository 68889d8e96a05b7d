package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/metrics"
	"github.com/yigit/campushub/internal/pkg/moderation"
)

// EventService defines the interface for the events calendar
type EventService interface {
	ListEvents(ctx context.Context) (*dto.EventListResponse, error)
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	userRepo  UserStore
	eventRepo EventStore
	gate      moderation.Gate
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	userRepo UserStore,
	eventRepo EventStore,
	gate moderation.Gate,
	m *metrics.Metrics,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		gate:      gate,
		metrics:   m,
		logger:    logger,
	}
}

// parseEventDate accepts a calendar date or a full RFC 3339 timestamp. Only
// the date part is kept.
func parseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ListEvents returns all events by date ascending
func (s *eventServiceImpl) ListEvents(ctx context.Context) (*dto.EventListResponse, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return &dto.EventListResponse{Events: events}, nil
}

// CreateEvent implements EventService. Only admins may publish events.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error) {
	organizer, err := requireAdmin(ctx, s.userRepo, req.OrganizerID, "Only admins can create events")
	if err != nil {
		return nil, err
	}

	kind := models.EventType(strings.ToUpper(req.Type))
	switch kind {
	case models.EventWorkshop, models.EventFest, models.EventTalk, models.EventHackathon:
	default:
		return nil, apperrors.NewValidationError("Unknown event type")
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if err := moderate(ctx, s.gate, s.metrics, title+"\n\n"+description, moderation.ContextListing); err != nil {
		return nil, err
	}

	event := &models.Event{
		OrganizerID:      organizer.ID,
		Title:            title,
		Description:      description,
		Date:             date,
		Time:             strings.TrimSpace(req.Time),
		Venue:            strings.TrimSpace(req.Venue),
		Club:             strings.TrimSpace(req.Club),
		ContactNumber:    strings.TrimSpace(req.ContactNumber),
		EntryFee:         strings.TrimSpace(req.EntryFee),
		Type:             kind,
		RegistrationLink: trimmed(req.RegistrationLink),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("organizerID", organizer.ID).Msg("Failed to create event")
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.metrics.Created("event")
	s.logger.Info().Str("eventID", event.ID).Time("date", date).Msg("Event created")
	return event, nil
}
