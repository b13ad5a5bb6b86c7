package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/kcruz3/bubbl/internal/models"
)

// AppendMessage inserts a chat message and populates its ID.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (group_id, sender, body, created_at) VALUES (?, ?, ?, ?)",
		msg.GroupID, msg.Sender, msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message ID: %w", err)
	}
	msg.ID = id

	return nil
}

// ListMessages returns a group's messages newer than sinceID in arrival order.
func (s *SQLiteStore) ListMessages(ctx context.Context, groupID string, sinceID int64) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, sender, body, created_at
		FROM messages
		WHERE group_id = ? AND id > ?
		ORDER BY created_at, id
	`, groupID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
