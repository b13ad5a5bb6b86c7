package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

const eventColumns = "id, name, description, venue_address, location, link, popularity"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
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

// CreateEvent inserts an event and populates event.ID.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO events (name, description, venue_address, location, link, popularity)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.Name, event.Description, event.VenueAddress, event.Location, event.Link, event.Popularity)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event ID: %w", err)
	}
	event.ID = id

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetEvents retrieves events by ID. Missing IDs are omitted from the result.
func (s *SQLiteStore) GetEvents(ctx context.Context, ids []int64) (map[int64]*models.Event, error) {
	events := make(map[int64]*models.Event, len(ids))
	if len(ids) == 0 {
		return events, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id IN ("+placeholders(len(ids))+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events[event.ID] = event
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// ListEventsByLocation returns events at the given normalized location.
func (s *SQLiteStore) ListEventsByLocation(ctx context.Context, location string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE location = ? ORDER BY popularity DESC, id ASC",
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// SearchEvents returns IDs of events whose name or description contains keyword.
// Both sides are Unicode case-folded.
func (s *SQLiteStore) SearchEvents(ctx context.Context, keyword string, limit int) ([]int64, error) {
	folded := foldCase(keyword)
	return s.queryIDs(ctx, `
		SELECT id FROM events
		WHERE instr(casefold(name), ?) > 0 OR instr(casefold(description), ?) > 0
		ORDER BY id
		LIMIT ?
	`, folded, folded, limit)
}

// RandomEventIDs returns up to limit random event IDs.
func (s *SQLiteStore) RandomEventIDs(ctx context.Context, limit int) ([]int64, error) {
	return s.queryIDs(ctx, "SELECT id FROM events ORDER BY RANDOM() LIMIT ?", limit)
}

func (s *SQLiteStore) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event IDs: %w", err)
	}

	return ids, nil
}
