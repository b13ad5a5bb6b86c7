package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/kcruz3/bubbl/internal/models"
)

// AddUserInterest links a user to an interest, creating the interest if needed.
func (s *SQLiteStore) AddUserInterest(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("interest name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO interests (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
		name,
	); err != nil {
		return fmt.Errorf("failed to insert interest: %w", err)
	}

	var interestID int64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM interests WHERE name = ?", name,
	).Scan(&interestID); err != nil {
		return fmt.Errorf("failed to look up interest: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_interests (user_id, interest_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		userID, interestID,
	); err != nil {
		return fmt.Errorf("failed to link interest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}

	return nil
}

// ListInterests returns the user's interests ordered by name.
func (s *SQLiteStore) ListInterests(ctx context.Context, userID string) ([]models.Interest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.name
		FROM user_interests ui
		JOIN interests i ON i.id = ui.interest_id
		WHERE ui.user_id = ?
		ORDER BY i.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	var interests []models.Interest
	for rows.Next() {
		var interest models.Interest
		if err := rows.Scan(&interest.ID, &interest.Name); err != nil {
			return nil, fmt.Errorf("failed to scan interest: %w", err)
		}
		interests = append(interests, interest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interests: %w", err)
	}

	return interests, nil
}

// SimilarUsers returns users sharing interests with userID, most overlap first.
func (s *SQLiteStore) SimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ui2.user_id, COUNT(*) AS shared
		FROM user_interests ui1
		JOIN user_interests ui2 ON ui1.interest_id = ui2.interest_id
		WHERE ui1.user_id = ?
		  AND ui2.user_id <> ?
		GROUP BY ui2.user_id
		ORDER BY shared DESC, ui2.user_id ASC
		LIMIT ?
	`, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar users: %w", err)
	}
	defer rows.Close()

	var users []models.SimilarUser
	for rows.Next() {
		var u models.SimilarUser
		if err := rows.Scan(&u.UserID, &u.Shared); err != nil {
			return nil, fmt.Errorf("failed to scan similar user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate similar users: %w", err)
	}

	return users, nil
}
