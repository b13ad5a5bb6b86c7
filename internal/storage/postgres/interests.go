package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kcruz3/bubbl/internal/models"
)

// AddUserInterest links a user to an interest, creating the interest if needed.
func (s *Store) AddUserInterest(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("interest name is required")
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"INSERT INTO interests (name) VALUES ($1) ON CONFLICT DO NOTHING", name,
		); err != nil {
			return fmt.Errorf("failed to insert interest: %w", err)
		}

		var interestID int64
		if err := tx.QueryRow(ctx,
			"SELECT id FROM interests WHERE lower(name) = lower($1)", name,
		).Scan(&interestID); err != nil {
			return fmt.Errorf("failed to look up interest: %w", err)
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO user_interests (user_id, interest_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			userID, interestID,
		); err != nil {
			return fmt.Errorf("failed to link interest: %w", err)
		}
		return nil
	})
}

// ListInterests returns the user's interests ordered by name.
func (s *Store) ListInterests(ctx context.Context, userID string) ([]models.Interest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.name
		FROM user_interests ui
		JOIN interests i ON i.id = ui.interest_id
		WHERE ui.user_id = $1
		ORDER BY i.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}

	interests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Interest, error) {
		var i models.Interest
		err := row.Scan(&i.ID, &i.Name)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan interests: %w", err)
	}
	return interests, nil
}

// SimilarUsers returns users sharing interests with userID, most overlap first.
func (s *Store) SimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ui2.user_id, COUNT(*) AS shared
		FROM user_interests ui1
		JOIN user_interests ui2 ON ui1.interest_id = ui2.interest_id
		WHERE ui1.user_id = $1
		  AND ui2.user_id <> $1
		GROUP BY ui2.user_id
		ORDER BY shared DESC, ui2.user_id ASC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SimilarUser, error) {
		var u models.SimilarUser
		err := row.Scan(&u.UserID, &u.Shared)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan similar users: %w", err)
	}
	return users, nil
}
