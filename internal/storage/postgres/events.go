package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

const eventColumns = "id, name, description, venue_address, location, link, popularity"

func scanEvent(row pgx.Row) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.VenueAddress,
		&event.Location,
		&event.Link,
		&event.Popularity,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func collectEvents(rows pgx.Rows) ([]*models.Event, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Event, error) {
		return scanEvent(row)
	})
}

// CreateEvent inserts an event and populates event.ID.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO events (name, description, venue_address, location, link, popularity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, event.Name, event.Description, event.VenueAddress, event.Location, event.Link, event.Popularity,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	event, err := scanEvent(s.pool.QueryRow(ctx, "SELECT "+eventColumns+" FROM events WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetEvents retrieves events by ID. Missing IDs are omitted from the result.
func (s *Store) GetEvents(ctx context.Context, ids []int64) (map[int64]*models.Event, error) {
	out := make(map[int64]*models.Event, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}
	for _, e := range events {
		out[e.ID] = e
	}
	return out, nil
}

// ListEventsByLocation returns events at the given normalized location.
func (s *Store) ListEventsByLocation(ctx context.Context, location string) ([]*models.Event, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE location = $1 ORDER BY popularity DESC, id ASC",
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}
	return events, nil
}

// SearchEvents returns IDs of events whose name or description contains keyword.
func (s *Store) SearchEvents(ctx context.Context, keyword string, limit int) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT id FROM events
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY id
		LIMIT $2
	`, likePattern(keyword), limit)
}

// RandomEventIDs returns up to limit random event IDs.
func (s *Store) RandomEventIDs(ctx context.Context, limit int) ([]int64, error) {
	return s.queryIDs(ctx, "SELECT id FROM events ORDER BY random() LIMIT $1", limit)
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event IDs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan event IDs: %w", err)
	}
	return ids, nil
}
