package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kcruz3/bubbl/internal/models"
)

// AppendMessage inserts a chat message and populates its ID.
func (s *Store) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	err := s.pool.QueryRow(ctx,
		"INSERT INTO messages (group_id, sender, body, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		msg.GroupID, msg.Sender, msg.Body, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", classify(err))
	}
	return nil
}

// ListMessages returns a group's messages newer than sinceID in arrival order.
func (s *Store) ListMessages(ctx context.Context, groupID string, sinceID int64) ([]*models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, group_id, sender, body, created_at
		FROM messages
		WHERE group_id = $1 AND id > $2
		ORDER BY created_at, id
	`, groupID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Message, error) {
		m := &models.Message{}
		err := row.Scan(&m.ID, &m.GroupID, &m.Sender, &m.Body, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}
	return messages, nil
}
