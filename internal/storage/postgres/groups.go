package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, event_id, name, created_at FROM match_groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.EventID, &group.Name, &group.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListMembers returns the usernames in a group, ordered by when they swiped.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT user_id FROM matches WHERE group_id = $1 ORDER BY created_at, user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM matches WHERE group_id = $1 AND user_id = $2)",
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// ListGroupsForUser returns the user's groups with their event names.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT g.id, g.name, e.id, e.name, g.created_at
		FROM matches m
		JOIN match_groups g ON m.group_id = g.id
		JOIN events e ON g.event_id = e.id
		WHERE m.user_id = $1
		ORDER BY g.created_at, g.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.GroupSummary, error) {
		g := &models.GroupSummary{}
		err := row.Scan(&g.GroupID, &g.GroupName, &g.EventID, &g.EventName, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}
	return groups, nil
}

// ListMatches returns every match for an event, oldest first.
func (s *Store) ListMatches(ctx context.Context, eventID int64) ([]*models.Match, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, event_id, user_id, COALESCE(group_id, ''), created_at FROM matches WHERE event_id = $1 ORDER BY created_at, id",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Match, error) {
		m := &models.Match{}
		err := row.Scan(&m.ID, &m.EventID, &m.UserID, &m.GroupID, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan matches: %w", err)
	}
	return matches, nil
}
