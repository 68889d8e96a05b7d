package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/db"
)

// EventRepository handles campus events
type EventRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pg *db.PostgresDB) *EventRepository {
	return &EventRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns all events, earliest date first
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	sql, args, err := r.sb.Select("id", "organizer_id", "title", "description", "event_date", "event_time",
		"venue", "club", "contact_number", "entry_fee", "type", "registration_link", "created_at").
		From("events").
		OrderBy("event_date", "created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e := &models.Event{}
		if err := rows.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Date, &e.Time,
			&e.Venue, &e.Club, &e.ContactNumber, &e.EntryFee, &e.Type, &e.RegistrationLink, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts e and fills in its id and creation time
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("organizer_id", "title", "description", "event_date", "event_time",
			"venue", "club", "contact_number", "entry_fee", "type", "registration_link").
		Values(e.OrganizerID, e.Title, e.Description, e.Date, e.Time,
			e.Venue, e.Club, e.ContactNumber, e.EntryFee, e.Type, e.RegistrationLink).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert event query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}
