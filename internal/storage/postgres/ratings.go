package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// GetRating returns the user's decision on an event.
func (s *Store) GetRating(ctx context.Context, userID string, eventID int64) (*models.Rating, error) {
	rating := &models.Rating{UserID: userID, EventID: eventID}
	var decision int16
	err := s.pool.QueryRow(ctx,
		"SELECT decision, updated_at FROM ratings WHERE user_id = $1 AND event_id = $2",
		userID, eventID,
	).Scan(&decision, &rating.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rating %s/%d: %w", userID, eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	rating.Decision = models.Decision(decision)
	return rating, nil
}

// LikedEventIDs returns the distinct events the given users rated yes.
func (s *Store) LikedEventIDs(ctx context.Context, userIDs []string) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return s.queryIDs(ctx,
		"SELECT DISTINCT event_id FROM ratings WHERE user_id = ANY($1) AND decision = $2 ORDER BY event_id",
		userIDs, int16(models.DecisionYes),
	)
}
