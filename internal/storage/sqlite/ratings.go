package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// GetRating returns the user's decision on an event.
func (s *SQLiteStore) GetRating(ctx context.Context, userID string, eventID int64) (*models.Rating, error) {
	rating := &models.Rating{UserID: userID, EventID: eventID}
	var decision int
	err := s.db.QueryRowContext(ctx,
		"SELECT decision, updated_at FROM ratings WHERE user_id = ? AND event_id = ?",
		userID, eventID,
	).Scan(&decision, &rating.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rating %s/%d: %w", userID, eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	rating.Decision = models.Decision(decision)
	return rating, nil
}

// LikedEventIDs returns the distinct events the given users rated yes.
func (s *SQLiteStore) LikedEventIDs(ctx context.Context, userIDs []string) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	for _, id := range userIDs {
		args = append(args, id)
	}
	args = append(args, int(models.DecisionYes))

	return s.queryIDs(ctx,
		"SELECT DISTINCT event_id FROM ratings WHERE user_id IN ("+placeholders(len(userIDs))+") AND decision = ? ORDER BY event_id",
		args...,
	)
}
