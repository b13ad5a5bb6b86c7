package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kcruz3/bubbl/internal/models"
	"github.com/kcruz3/bubbl/internal/storage"
)

// eventTx implements storage.EventTx on a BEGIN IMMEDIATE transaction.
type eventTx struct {
	tx *sql.Tx
}

var _ storage.EventTx = (*eventTx)(nil)

// LockEvent loads the event. The write lock taken at BEGIN already serializes writers.
func (t *eventTx) LockEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := scanEvent(t.tx.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", eventID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// UpsertRating sets the decision and returns the previous one, if any.
func (t *eventTx) UpsertRating(ctx context.Context, userID string, eventID int64, d models.Decision) (*models.Decision, error) {
	var prev *models.Decision
	var old int
	err := t.tx.QueryRowContext(ctx,
		"SELECT decision FROM ratings WHERE user_id = ? AND event_id = ?",
		userID, eventID,
	).Scan(&old)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to read rating: %w", err)
	default:
		p := models.Decision(old)
		prev = &p
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO ratings (user_id, event_id, decision, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, event_id) DO UPDATE SET
			decision = excluded.decision,
			updated_at = excluded.updated_at
	`, userID, eventID, int(d), time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return prev, nil
}

// BumpPopularity increments the event's popularity.
func (t *eventTx) BumpPopularity(ctx context.Context, eventID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		"UPDATE events SET popularity = popularity + 1 WHERE id = ?", eventID,
	); err != nil {
		return fmt.Errorf("failed to bump popularity: %w", err)
	}
	return nil
}

// HasPendingMatch reports whether the user already waits for a group on the event.
func (t *eventTx) HasPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error) {
	var exists int
	err := t.tx.QueryRowContext(ctx,
		"SELECT 1 FROM matches WHERE event_id = ? AND user_id = ? AND group_id IS NULL LIMIT 1",
		eventID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check pending match: %w", err)
	}
	return true, nil
}

// InsertPendingMatch records a new pending match.
func (t *eventTx) InsertPendingMatch(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO matches (id, event_id, user_id, group_id, created_at) VALUES (?, ?, ?, NULL, ?)",
		match.ID, match.EventID, match.UserID, match.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("pending match %s/%d: %w", match.UserID, match.EventID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

// WithdrawPendingMatch deletes the user's pending match for the event.
func (t *eventTx) WithdrawPendingMatch(ctx context.Context, eventID int64, userID string) (bool, error) {
	result, err := t.tx.ExecContext(ctx,
		"DELETE FROM matches WHERE event_id = ? AND user_id = ? AND group_id IS NULL",
		eventID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to withdraw match: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// CountPendingMatches counts the event's matches that have no group yet.
func (t *eventTx) CountPendingMatches(ctx context.Context, eventID int64) (int, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM matches WHERE event_id = ? AND group_id IS NULL", eventID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending matches: %w", err)
	}
	return count, nil
}

// CountGroups counts the groups formed for the event so far.
func (t *eventTx) CountGroups(ctx context.Context, eventID int64) (int, error) {
	var count int
	if err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM match_groups WHERE event_id = ?", eventID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return count, nil
}

// CreateGroup inserts a group, generating its ID and timestamp if unset.
func (t *eventTx) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	if _, err := t.tx.ExecContext(ctx,
		"INSERT INTO match_groups (id, event_id, name, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.EventID, group.Name, group.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// AssignPendingMatches moves every pending match of the event into the group.
func (t *eventTx) AssignPendingMatches(ctx context.Context, eventID int64, groupID string) (int, error) {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE matches SET group_id = ? WHERE event_id = ? AND group_id IS NULL",
		groupID, eventID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to assign matches: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
